package datespan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)

	testCases := []struct {
		name     string
		input    time.Time
		expected string
	}{
		{
			name:     "Already midnight UTC",
			input:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			expected: "2024-03-01",
		},
		{
			name:     "Late evening keeps the same civil day",
			input:    time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC),
			expected: "2024-03-01",
		},
		{
			name:     "Non-UTC location keeps its civil day",
			input:    time.Date(2024, 3, 1, 1, 30, 0, 0, loc),
			expected: "2024-03-01",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.input)
			assert.Equal(t, tc.expected, got.Format(DayFormat))
			assert.Equal(t, time.UTC, got.Location())
			h, m, s := got.Clock()
			assert.Zero(t, h+m+s)
		})
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDay("15/01/2024")
	assert.Error(t, err)

	_, err = ParseDay("")
	assert.Error(t, err)
}

func TestSpanDays(t *testing.T) {
	testCases := []struct {
		name        string
		start, end  string
		expectedLen int
	}{
		{"Single day", "2024-01-01", "2024-01-01", 1},
		{"Three days inclusive", "2024-01-01", "2024-01-03", 3},
		{"Across month boundary", "2024-01-30", "2024-02-02", 4},
		{"Leap February", "2024-02-28", "2024-03-01", 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			span, err := Parse(tc.start, tc.end)
			require.NoError(t, err)

			days := span.Days()
			assert.Len(t, days, tc.expectedLen)
			assert.Equal(t, tc.expectedLen, span.Len())
			assert.Equal(t, tc.start, days[0].Format(DayFormat))
			assert.Equal(t, tc.end, days[len(days)-1].Format(DayFormat))

			// Days must be consecutive and ascending.
			for i := 1; i < len(days); i++ {
				assert.Equal(t, days[i-1].AddDate(0, 0, 1), days[i])
			}
		})
	}
}

func TestSpanInvalidRange(t *testing.T) {
	_, err := Parse("2024-07-10", "2024-07-01")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSpanContains(t *testing.T) {
	span, err := Parse("2024-03-01", "2024-03-10")
	require.NoError(t, err)

	assert.True(t, span.Contains(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, span.Contains(time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)))
	assert.False(t, span.Contains(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, span.Contains(time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)))
}

func TestNormalizeAll(t *testing.T) {
	days := NormalizeAll([]time.Time{
		time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 3, 23, 0, 0, 0, time.UTC), // duplicate civil day
		time.Date(2024, 5, 2, 5, 0, 0, 0, time.UTC),
	})

	require.Len(t, days, 3)
	assert.Equal(t, "2024-05-01", days[0].Format(DayFormat))
	assert.Equal(t, "2024-05-02", days[1].Format(DayFormat))
	assert.Equal(t, "2024-05-03", days[2].Format(DayFormat))
}
