package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDayRange_DayBoundaries(t *testing.T) {
	lower, upper, ok := parseDayRange("2024-01-01,2024-01-31")
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), lower)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 0, time.Local), upper)
}

func TestParseDayRange_ClampsTimeOfDay(t *testing.T) {
	// timestamps are accepted but clamped to calendar day boundaries
	lower, upper, ok := parseDayRange("2024-06-15 13:30:00,2024-06-16 01:00:00")
	require.True(t, ok)

	assert.Equal(t, time.Date(2024, 6, 15, 0, 0, 0, 0, time.Local), lower)
	assert.Equal(t, time.Date(2024, 6, 16, 23, 59, 59, 0, time.Local), upper)
}

func TestParseDayRange_ToleratesSpaces(t *testing.T) {
	lower, _, ok := parseDayRange("2024-01-01, 2024-01-31")
	require.True(t, ok)
	assert.Equal(t, 2024, lower.Year())
}

func TestParseDayRange_Unrecognizable(t *testing.T) {
	tests := []string{
		"2024-01-01",                       // no comma
		"2024-01-01,2024-01-31,2024-02-01", // too many parts
		"yesterday,today",
		"",
		",",
	}

	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, _, ok := parseDayRange(raw)
			assert.False(t, ok)
		})
	}
}
