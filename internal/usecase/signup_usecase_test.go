package usecase

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLogKey = "signups/log.csv"

func TestSignupAppendsCsvRows(t *testing.T) {
	storage := newFakeStorage()
	mailer := &fakeMailer{}
	uc := NewSignupUseCase(storage, mailer, testLogKey)

	require.NoError(t, uc.Signup(context.Background(), SignupInput{
		Name:   "Ana Reyes",
		Email:  "ana@example.com",
		Source: "landing",
		Tags:   []string{"broker", "cebu"},
	}))
	require.NoError(t, uc.Signup(context.Background(), SignupInput{
		Name:  "Ben Cruz",
		Email: "ben@example.com",
	}))

	data, err := storage.GetObject(context.Background(), testLogKey)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Len(t, rows[0], 5)
	_, err = time.Parse(time.RFC3339, rows[0][0])
	assert.NoError(t, err)
	assert.Equal(t, "Ana Reyes", rows[0][1])
	assert.Equal(t, "ana@example.com", rows[0][2])
	assert.Equal(t, "landing", rows[0][3])
	assert.Equal(t, "broker;cebu", rows[0][4])

	assert.Equal(t, "Ben Cruz", rows[1][1])
	assert.Equal(t, "", rows[1][4])
}

func TestSignupSendsWelcomeMail(t *testing.T) {
	mailer := &fakeMailer{}
	uc := NewSignupUseCase(newFakeStorage(), mailer, testLogKey)

	require.NoError(t, uc.Signup(context.Background(), SignupInput{
		Name:  "Ana Reyes",
		Email: "ana@example.com",
	}))

	require.Eventually(t, func() bool {
		return mailer.sentCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSignupSucceedsWhenMailFails(t *testing.T) {
	storage := newFakeStorage()
	mailer := &fakeMailer{fail: true}
	uc := NewSignupUseCase(storage, mailer, testLogKey)

	require.NoError(t, uc.Signup(context.Background(), SignupInput{
		Name:  "Ana Reyes",
		Email: "ana@example.com",
	}))

	// The log write still happened.
	_, err := storage.GetObject(context.Background(), testLogKey)
	assert.NoError(t, err)
}

func TestSignupValidation(t *testing.T) {
	uc := NewSignupUseCase(newFakeStorage(), &fakeMailer{}, testLogKey)

	tests := []struct {
		name  string
		input SignupInput
	}{
		{"missing name", SignupInput{Email: "ana@example.com"}},
		{"missing email", SignupInput{Name: "Ana"}},
		{"malformed email", SignupInput{Name: "Ana", Email: "not-an-address"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, uc.Signup(context.Background(), tt.input))
		})
	}
}
