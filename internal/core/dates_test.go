package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestToStorageInstant(t *testing.T) {
	instant, err := ToStorageInstant("2025-01-15")
	require.NoError(t, err)
	require.NotNil(t, instant)
	require.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), *instant)

	// Absent dates persist as nil, never as a zero instant.
	instant, err = ToStorageInstant("")
	require.NoError(t, err)
	require.Nil(t, instant)

	_, err = ToStorageInstant("not-a-date")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestFromStorageInstant(t *testing.T) {
	require.Equal(t, "", FromStorageInstant(nil))

	// Time-of-day is discarded on the way out.
	noon := time.Date(2025, 6, 30, 12, 45, 1, 0, time.UTC)
	require.Equal(t, "2025-06-30", FromStorageInstant(&noon))
}

func TestStorageInstantRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		year := rapid.IntRange(1970, 2100).Draw(t, "year")
		month := rapid.IntRange(1, 12).Draw(t, "month")
		day := rapid.IntRange(1, 28).Draw(t, "day")
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)

		instant, err := ToStorageInstant(date)
		require.NoError(t, err)
		require.Equal(t, date, FromStorageInstant(instant))
	})
}

func TestTruncate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	in := time.Date(2025, 3, 1, 1, 30, 0, 0, loc) // 2025-02-28 23:30 UTC
	require.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), Truncate(in))
}
