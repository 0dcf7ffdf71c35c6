package paging

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	id := uuid.New()

	gotT, gotID, err := DecodeCursor(EncodeCursor(at, id))
	require.NoError(t, err)
	assert.True(t, at.Equal(gotT))
	assert.Equal(t, id, gotID)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	for _, c := range []string{"%%%", "bm8tc2VwYXJhdG9y", "bm90LWEtdGltZXxhYmM"} {
		_, _, err := DecodeCursor(c)
		assert.ErrorIs(t, err, ErrBadCursor, c)
	}
}
