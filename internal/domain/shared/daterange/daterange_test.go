package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	t.Run("normalizes to midnight UTC", func(t *testing.T) {
		loc := time.FixedZone("CET", 3600)
		dr, err := New(time.Date(2024, 3, 1, 15, 30, 0, 0, loc), time.Date(2024, 3, 4, 9, 0, 0, 0, loc))
		require.NoError(t, err)
		assert.Equal(t, date(2024, 3, 1), dr.From)
		assert.Equal(t, date(2024, 3, 4), dr.To)
	})

	t.Run("single day is valid", func(t *testing.T) {
		dr, err := New(date(2024, 3, 1), date(2024, 3, 1))
		require.NoError(t, err)
		assert.Equal(t, 1, dr.Days())
	})

	t.Run("reversed bounds rejected", func(t *testing.T) {
		_, err := New(date(2024, 3, 4), date(2024, 3, 1))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("zero dates rejected", func(t *testing.T) {
		_, err := New(time.Time{}, date(2024, 3, 1))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}

func TestOverlaps(t *testing.T) {
	base := DateRange{From: date(2024, 2, 12), To: date(2024, 2, 15)}

	cases := []struct {
		name  string
		other DateRange
		want  bool
	}{
		{"disjoint before", DateRange{From: date(2024, 2, 1), To: date(2024, 2, 11)}, false},
		{"disjoint after", DateRange{From: date(2024, 2, 16), To: date(2024, 2, 20)}, false},
		{"shared boundary day", DateRange{From: date(2024, 2, 10), To: date(2024, 2, 12)}, true},
		{"contained", DateRange{From: date(2024, 2, 13), To: date(2024, 2, 14)}, true},
		{"containing", DateRange{From: date(2024, 2, 1), To: date(2024, 2, 28)}, true},
		{"identical", base, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, base.Overlaps(tc.other))
			assert.Equal(t, tc.want, tc.other.Overlaps(base))
		})
	}
}

func TestDaysAndIteration(t *testing.T) {
	dr := DateRange{From: date(2024, 1, 1), To: date(2024, 1, 5)}
	assert.Equal(t, 5, dr.Days())

	var visited []time.Time
	dr.EachDay(func(day time.Time) { visited = append(visited, day) })
	require.Len(t, visited, 5)
	assert.Equal(t, date(2024, 1, 1), visited[0])
	assert.Equal(t, date(2024, 1, 5), visited[4])
}

func TestContainsDate(t *testing.T) {
	dr := DateRange{From: date(2024, 1, 10), To: date(2024, 1, 12)}
	assert.True(t, dr.ContainsDate(date(2024, 1, 10)))
	assert.True(t, dr.ContainsDate(time.Date(2024, 1, 12, 23, 59, 0, 0, time.UTC)))
	assert.False(t, dr.ContainsDate(date(2024, 1, 13)))
}

func TestMonth(t *testing.T) {
	feb := Month(2024, time.February)
	assert.Equal(t, date(2024, 2, 1), feb.From)
	assert.Equal(t, date(2024, 2, 29), feb.To)
	assert.Equal(t, 29, feb.Days())
}
