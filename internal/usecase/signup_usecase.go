package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"time"

	"lupain/internal/domain/entity"
	"lupain/internal/domain/service"
	"lupain/pkg/errors"
	"lupain/pkg/logger"
)

// SignupUseCase appends signups to one shared CSV object and sends the
// welcome mail. Both side effects are best-effort: once validation passes the
// request succeeds regardless of what happens to the log or the mail.
type SignupUseCase struct {
	storage service.ObjectStorage
	mailer  service.Mailer
	logKey  string
}

func NewSignupUseCase(storage service.ObjectStorage, mailer service.Mailer, logKey string) *SignupUseCase {
	return &SignupUseCase{
		storage: storage,
		mailer:  mailer,
		logKey:  logKey,
	}
}

type SignupInput struct {
	Name   string
	Email  string
	Source string
	Tags   []string
}

func (uc *SignupUseCase) Signup(ctx context.Context, input SignupInput) error {
	if input.Name == "" || input.Email == "" {
		return errors.BadRequest("name and email are required", nil)
	}
	if !strings.Contains(input.Email, "@") {
		return errors.BadRequest("email must be a valid address", nil)
	}

	record := entity.SignupRecord{
		Timestamp: time.Now().UTC(),
		Name:      input.Name,
		Email:     input.Email,
		Source:    input.Source,
		Tags:      input.Tags,
	}

	if err := uc.appendRecord(ctx, record); err != nil {
		logger.Warn("Failed to append signup record for %s: %v", input.Email, err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := uc.mailer.SendWelcome(ctx, service.WelcomeMail{Name: input.Name, Email: input.Email}); err != nil {
			logger.Warn("Failed to send welcome mail to %s: %v", input.Email, err)
		}
	}()

	return nil
}

// appendRecord is a plain read-modify-write over the shared CSV object.
// Two concurrent signups may each read the same base file and one overwrite
// silently wins; the log is a convenience export, not a ledger.
func (uc *SignupUseCase) appendRecord(ctx context.Context, record entity.SignupRecord) error {
	existing, err := uc.storage.GetObject(ctx, uc.logKey)
	if err != nil {
		// Missing object means first signup; start a fresh file.
		existing = nil
	}

	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		buf.WriteByte('\n')
	}

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{
		record.Timestamp.Format(time.RFC3339),
		record.Name,
		record.Email,
		record.Source,
		strings.Join(record.Tags, ";"),
	}); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	_, err = uc.storage.PutObject(ctx, uc.logKey, buf.Bytes(), "text/csv")
	return err
}
