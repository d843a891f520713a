package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	unitsapp "stayhub/internal/app/handlers/units"
	"stayhub/internal/app/support"
	domainpricing "stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/daterange"
	domainunits "stayhub/internal/domain/units"
	"stayhub/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	units     *memory.UnitRepository
	ledgers   *memory.LedgerRepository
	calendars *memory.CalendarRepository
	outbox    *memory.OutboxStore
}

func newFixture(t *testing.T) (*fixture, *AdjustPricesHandler) {
	t.Helper()
	f := &fixture{
		units:     memory.NewUnitRepository(),
		ledgers:   memory.NewLedgerRepository("EUR"),
		calendars: memory.NewCalendarRepository(),
		outbox:    memory.NewOutboxStore(),
	}
	h := &AdjustPricesHandler{
		Units:     f.units,
		Ledgers:   f.ledgers,
		Calendars: f.calendars,
		Locker:    support.NewUnitLocker(),
		Currency:  "EUR",
		Outbox:    f.outbox,
	}
	unit, err := domainunits.New(domainunits.CreateParams{
		ID: "unit-1", Host: "host-1", Name: "Riverside Apartment", Location: "Novi Sad",
		MinGuests: 1, MaxGuests: 4, Basis: domainunits.PerUnit,
		Now: date(2024, 1, 1),
	})
	require.NoError(t, err)
	unit.ClearEvents()
	require.NoError(t, f.units.Save(context.Background(), unit))
	return f, h
}

func TestAdjustPrices(t *testing.T) {
	ctx := context.Background()

	t.Run("applies assignments in order", func(t *testing.T) {
		_, h := newFixture(t)
		result, err := h.Handle(ctx, AdjustPricesCommand{
			UnitID: "unit-1",
			HostID: "host-1",
			Assignments: []AssignmentInput{
				{From: date(2024, 7, 1), To: date(2024, 7, 31), PriceCents: 8000},
				{From: date(2024, 7, 15), To: date(2024, 7, 20), PriceCents: 12000},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 31, result.PricedDays)

		ledger, err := h.Ledgers.Ledger(ctx, "unit-1")
		require.NoError(t, err)
		early, ok := ledger.Price(date(2024, 7, 10))
		require.True(t, ok)
		assert.Equal(t, int64(8000), early.Cents)
		peak, ok := ledger.Price(date(2024, 7, 16))
		require.True(t, ok)
		assert.Equal(t, int64(12000), peak.Cents)
	})

	t.Run("invalid assignment rejects the whole batch", func(t *testing.T) {
		_, h := newFixture(t)
		_, err := h.Handle(ctx, AdjustPricesCommand{
			UnitID: "unit-1",
			HostID: "host-1",
			Assignments: []AssignmentInput{
				{From: date(2024, 7, 1), To: date(2024, 7, 10), PriceCents: 8000},
				{From: date(2024, 7, 15), To: date(2024, 7, 20), PriceCents: -1},
			},
		})
		assert.ErrorIs(t, err, domainpricing.ErrNegativePrice)

		ledger, err := h.Ledgers.Ledger(ctx, "unit-1")
		require.NoError(t, err)
		assert.Equal(t, 0, ledger.Len())
	})

	t.Run("booked days are locked", func(t *testing.T) {
		f, h := newFixture(t)
		cal, err := f.calendars.Calendar(ctx, "unit-1")
		require.NoError(t, err)
		held, err := daterange.New(date(2024, 7, 10), date(2024, 7, 12))
		require.NoError(t, err)
		require.NoError(t, cal.Reserve(held, "bk-1", "guest-1", time.Now()))
		require.NoError(t, f.calendars.Save(ctx, cal))

		_, err = h.Handle(ctx, AdjustPricesCommand{
			UnitID: "unit-1",
			HostID: "host-1",
			Assignments: []AssignmentInput{
				{From: date(2024, 7, 11), To: date(2024, 7, 15), PriceCents: 9000},
			},
		})
		assert.ErrorIs(t, err, ErrPriceLocked)
	})

	t.Run("reapplying the same batch is idempotent", func(t *testing.T) {
		_, h := newFixture(t)
		cmd := AdjustPricesCommand{
			UnitID: "unit-1",
			HostID: "host-1",
			Assignments: []AssignmentInput{
				{From: date(2024, 7, 1), To: date(2024, 7, 10), PriceCents: 8000},
			},
		}
		_, err := h.Handle(ctx, cmd)
		require.NoError(t, err)
		first, err := h.Ledgers.Ledger(ctx, "unit-1")
		require.NoError(t, err)

		_, err = h.Handle(ctx, cmd)
		require.NoError(t, err)
		second, err := h.Ledgers.Ledger(ctx, "unit-1")
		require.NoError(t, err)

		assert.ElementsMatch(t, first.Entries(), second.Entries())
	})

	t.Run("foreign host is rejected", func(t *testing.T) {
		_, h := newFixture(t)
		_, err := h.Handle(ctx, AdjustPricesCommand{
			UnitID: "unit-1",
			HostID: "host-2",
			Assignments: []AssignmentInput{
				{From: date(2024, 7, 1), To: date(2024, 7, 10), PriceCents: 8000},
			},
		})
		assert.ErrorIs(t, err, unitsapp.ErrUnitNotOwned)
	})
}
