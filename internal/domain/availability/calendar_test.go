package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/domain/shared/daterange"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, from, to time.Time) daterange.DateRange {
	t.Helper()
	r, err := daterange.New(from, to)
	require.NoError(t, err)
	return r
}

func TestReserve(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	t.Run("boundary day conflicts", func(t *testing.T) {
		cal := NewCalendar("unit-1")
		require.NoError(t, cal.Reserve(mustRange(t, date(2024, 2, 12), date(2024, 2, 15)), "bk-1", "alice", now))

		err := cal.Reserve(mustRange(t, date(2024, 2, 10), date(2024, 2, 12)), "bk-2", "bob", now)
		assert.ErrorIs(t, err, ErrConflict)
		assert.Len(t, cal.Holds, 1)
	})

	t.Run("adjacent day is free", func(t *testing.T) {
		cal := NewCalendar("unit-1")
		require.NoError(t, cal.Reserve(mustRange(t, date(2024, 2, 12), date(2024, 2, 15)), "bk-1", "alice", now))
		require.NoError(t, cal.Reserve(mustRange(t, date(2024, 2, 16), date(2024, 2, 18)), "bk-2", "bob", now))
		assert.Len(t, cal.Holds, 2)
	})

	t.Run("conflict records overbooking event", func(t *testing.T) {
		cal := NewCalendar("unit-1")
		require.NoError(t, cal.Reserve(mustRange(t, date(2024, 3, 1), date(2024, 3, 5)), "bk-1", "alice", now))
		cal.ClearEvents()

		err := cal.Reserve(mustRange(t, date(2024, 3, 3), date(2024, 3, 8)), "bk-2", "bob", now)
		require.ErrorIs(t, err, ErrConflict)
		evs := cal.PendingEvents()
		require.Len(t, evs, 1)
		assert.Equal(t, "availability.overbooking_prevented", evs[0].EventName())
	})
}

func TestRelease(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	cal := NewCalendar("unit-1")
	r := mustRange(t, date(2024, 2, 12), date(2024, 2, 15))
	require.NoError(t, cal.Reserve(r, "bk-1", "alice", now))

	t.Run("released range is immediately free", func(t *testing.T) {
		require.NoError(t, cal.Release("bk-1", now))
		assert.True(t, cal.IsFree(r))
		require.NoError(t, cal.Reserve(r, "bk-2", "bob", now))
	})

	t.Run("unknown hold", func(t *testing.T) {
		assert.ErrorIs(t, cal.Release("bk-404", now), ErrHoldNotFound)
	})
}

func TestReservedAndBlockedFor(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	cal := NewCalendar("unit-1")
	require.NoError(t, cal.Reserve(mustRange(t, date(2024, 2, 12), date(2024, 2, 15)), "bk-1", "alice", now))

	assert.True(t, cal.Reserved(date(2024, 2, 12)))
	assert.True(t, cal.Reserved(date(2024, 2, 15)))
	assert.False(t, cal.Reserved(date(2024, 2, 16)))

	stay := mustRange(t, date(2024, 2, 14), date(2024, 2, 20))
	assert.True(t, cal.BlockedFor(stay, "bob"))
	assert.False(t, cal.BlockedFor(stay, "alice"))
	assert.True(t, cal.BlockedFor(stay, ""))
	assert.False(t, cal.BlockedFor(mustRange(t, date(2024, 3, 1), date(2024, 3, 2)), "bob"))
}

func TestClone(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	cal := NewCalendar("unit-1")
	require.NoError(t, cal.Reserve(mustRange(t, date(2024, 2, 1), date(2024, 2, 2)), "bk-1", "alice", now))

	clone := cal.Clone()
	require.NoError(t, cal.Reserve(mustRange(t, date(2024, 2, 10), date(2024, 2, 11)), "bk-2", "bob", now))
	assert.Len(t, clone.Holds, 1)
}
