package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)

	decoded, err := decodeCursor(encodeCursor(at))
	require.NoError(t, err)
	assert.True(t, decoded.Equal(at))
}

func TestCursorNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("PHT", 8*3600)
	at := time.Date(2026, 3, 14, 17, 0, 0, 0, loc)

	decoded, err := decodeCursor(encodeCursor(at))
	require.NoError(t, err)
	assert.True(t, decoded.Equal(at))
	assert.Equal(t, time.UTC, decoded.Location())
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := decodeCursor("!!not base64!!")
	assert.Error(t, err)

	// Valid base64, invalid timestamp.
	_, err = decodeCursor("bm90LWEtdGltZQ")
	assert.Error(t, err)
}
