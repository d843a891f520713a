package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
	"stayhub/internal/domain/units"
)

func newPending(t *testing.T) *Booking {
	t.Helper()
	r, err := daterange.New(
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	b, err := New(CreateParams{
		ID:      "bk-1",
		UnitID:  "unit-1",
		GuestID: "guest-1",
		Range:   r,
		Guests:  2,
		Total:   money.Must(40000, "EUR"),
		Now:     time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestNew(t *testing.T) {
	b := newPending(t)
	assert.Equal(t, StatePending, b.State)
	assert.True(t, b.Blocking())

	evs := b.PendingEvents()
	require.Len(t, evs, 1)
	assert.Equal(t, "booking.requested", evs[0].EventName())

	t.Run("guest required", func(t *testing.T) {
		_, err := New(CreateParams{ID: "bk-2", UnitID: "unit-1", Guests: 1, Range: b.Range})
		assert.Error(t, err)
	})

	t.Run("guests must be positive", func(t *testing.T) {
		_, err := New(CreateParams{ID: "bk-2", UnitID: "unit-1", GuestID: "g", Guests: 0, Range: b.Range})
		assert.ErrorIs(t, err, ErrInvalidGuests)
	})
}

func TestStateMachine(t *testing.T) {
	now := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)

	t.Run("pending to approved is terminal", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Approve(now))
		assert.Equal(t, StateApproved, b.State)
		assert.True(t, b.Blocking())
		assert.ErrorIs(t, b.Decline(now), ErrInvalidState)
		assert.ErrorIs(t, b.Approve(now), ErrInvalidState)
	})

	t.Run("pending to declined vacates", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Decline(now))
		assert.Equal(t, StateDeclined, b.State)
		assert.False(t, b.Blocking())
		assert.ErrorIs(t, b.Approve(now), ErrInvalidState)
	})

	t.Run("soft delete applies in any state and vacates", func(t *testing.T) {
		b := newPending(t)
		require.NoError(t, b.Approve(now))
		b.SoftDelete(now)
		assert.True(t, b.Deleted)
		assert.False(t, b.Blocking())
		assert.Equal(t, StateApproved, b.State)
	})
}

func TestQuote(t *testing.T) {
	sum := money.Must(30000, "EUR")
	assert.Equal(t, int64(30000), Quote(sum, units.PerUnit, 3).Cents)
	assert.Equal(t, int64(90000), Quote(sum, units.PerGuest, 3).Cents)
}

func TestParseState(t *testing.T) {
	s, err := ParseState(" approved ")
	require.NoError(t, err)
	assert.Equal(t, StateApproved, s)

	_, err = ParseState("CANCELLED")
	assert.ErrorIs(t, err, ErrInvalidState)
}
