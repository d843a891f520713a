package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
	"stayhub/internal/domain/units"
)

func newUnit(t *testing.T, id, host string) *units.Unit {
	t.Helper()
	u, err := units.New(units.CreateParams{
		ID:        units.UnitID(id),
		Host:      units.HostID(host),
		Name:      "Riverside Apartment",
		Location:  "Novi Sad",
		MinGuests: 1,
		MaxGuests: 4,
		Now:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	u.ClearEvents()
	return u
}

func TestUnitRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUnitRepository()

	_, err := repo.ByID(ctx, "ghost")
	assert.ErrorIs(t, err, units.ErrNotFound)

	require.NoError(t, repo.Save(ctx, newUnit(t, "unit-1", "host-1")))
	require.NoError(t, repo.Save(ctx, newUnit(t, "unit-2", "host-2")))

	t.Run("reads are independent copies", func(t *testing.T) {
		u, err := repo.ByID(ctx, "unit-1")
		require.NoError(t, err)
		u.Name = "Mutated"
		u.Tags = append(u.Tags, "pool")

		again, err := repo.ByID(ctx, "unit-1")
		require.NoError(t, err)
		assert.Equal(t, "Riverside Apartment", again.Name)
		assert.Empty(t, again.Tags)
	})

	t.Run("save bumps the version", func(t *testing.T) {
		u, err := repo.ByID(ctx, "unit-1")
		require.NoError(t, err)
		before := u.Version
		require.NoError(t, repo.Save(ctx, u))
		assert.Equal(t, before+1, u.Version)
	})

	t.Run("list by host", func(t *testing.T) {
		list, err := repo.ListByHost(ctx, "host-1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, units.UnitID("unit-1"), list[0].ID)

		all, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestBookingRepositoryIndexes(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	stay, err := daterange.New(
		time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	for _, tc := range []struct{ id, unit, guest string }{
		{"bk-1", "unit-1", "guest-1"},
		{"bk-2", "unit-1", "guest-2"},
		{"bk-3", "unit-2", "guest-1"},
	} {
		bk, err := booking.New(booking.CreateParams{
			ID: booking.BookingID(tc.id), UnitID: units.UnitID(tc.unit), GuestID: tc.guest,
			Range: stay, Guests: 2, Total: money.Money{Cents: 30000, Currency: "EUR"}, Now: now,
		})
		require.NoError(t, err)
		bk.ClearEvents()
		require.NoError(t, repo.Save(ctx, bk))
	}

	byUnit, err := repo.ListByUnit(ctx, "unit-1")
	require.NoError(t, err)
	assert.Len(t, byUnit, 2)

	byGuest, err := repo.ListByGuest(ctx, "guest-1")
	require.NoError(t, err)
	assert.Len(t, byGuest, 2)

	_, err = repo.ByID(ctx, "ghost")
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestLedgerRepositoryDefaults(t *testing.T) {
	ctx := context.Background()
	repo := NewLedgerRepository("EUR")

	ledger, err := repo.Ledger(ctx, "unit-1")
	require.NoError(t, err)
	assert.Equal(t, "EUR", ledger.Currency)
	assert.Equal(t, 0, ledger.Len())

	r, err := daterange.New(
		time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	require.NoError(t, ledger.SetRange(r, money.Money{Cents: 8000, Currency: "EUR"}))
	require.NoError(t, repo.Save(ctx, ledger))

	// Mutating the saved ledger must not leak into the store.
	require.NoError(t, ledger.SetRange(r, money.Money{Cents: 1, Currency: "EUR"}))
	stored, err := repo.Ledger(ctx, "unit-1")
	require.NoError(t, err)
	price, ok := stored.Price(time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, int64(8000), price.Cents)
}

func record(id string) appoutbox.EventRecord {
	return appoutbox.EventRecord{
		ID:         id,
		Name:       "booking.requested",
		Payload:    []byte(`{}`),
		OccurredAt: time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC),
		Aggregate:  "bk-1",
	}
}

func TestOutboxStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewOutboxStore()

	require.NoError(t, store.Add(ctx, record("ev-1")))
	require.NoError(t, store.Add(ctx, record("ev-2")))
	assert.Equal(t, 2, store.Pending())

	claimed, err := store.Claim(ctx, 1)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, "ev-1", claimed[0].ID)

	// In-flight records are not handed out twice.
	again, err := store.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, "ev-2", again[0].ID)

	require.NoError(t, store.MarkSent(ctx, "ev-1"))
	require.NoError(t, store.MarkFailed(ctx, "ev-2"))
	assert.Equal(t, 1, store.Pending())

	retry, err := store.Claim(ctx, 10)
	require.NoError(t, err)
	require.Len(t, retry, 1)
	assert.Equal(t, "ev-2", retry[0].ID)
}
