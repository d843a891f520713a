package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/support"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
	domainunits "stayhub/internal/domain/units"
	"stayhub/internal/infra/storage/memory"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthView(t *testing.T) {
	ctx := context.Background()
	units := memory.NewUnitRepository()
	ledgers := memory.NewLedgerRepository("EUR")
	calendars := memory.NewCalendarRepository()

	unit, err := domainunits.New(domainunits.CreateParams{
		ID: "unit-1", Host: "host-1", Name: "Riverside Apartment", Location: "Novi Sad",
		MinGuests: 1, MaxGuests: 4, Basis: domainunits.PerUnit,
		Now: date(2024, 1, 1),
	})
	require.NoError(t, err)
	unit.ClearEvents()
	require.NoError(t, units.Save(ctx, unit))

	ledger, err := ledgers.Ledger(ctx, "unit-1")
	require.NoError(t, err)
	priced, err := daterange.New(date(2024, 2, 5), date(2024, 2, 10))
	require.NoError(t, err)
	require.NoError(t, ledger.SetRange(priced, money.Money{Cents: 12000, Currency: "EUR"}))
	require.NoError(t, ledgers.Save(ctx, ledger))

	cal, err := calendars.Calendar(ctx, "unit-1")
	require.NoError(t, err)
	held, err := daterange.New(date(2024, 2, 8), date(2024, 2, 9))
	require.NoError(t, err)
	require.NoError(t, cal.Reserve(held, "bk-1", "guest-1", time.Now()))
	require.NoError(t, calendars.Save(ctx, cal))

	h := &MonthViewHandler{
		Units: units, Ledgers: ledgers, Calendars: calendars,
		Locker: support.NewUnitLocker(),
	}

	view, err := h.Handle(ctx, MonthViewQuery{UnitID: "unit-1", Year: 2024, Month: 2})
	require.NoError(t, err)
	require.Len(t, view.Days, 29)

	byDate := make(map[string]dto.DayInfo, len(view.Days))
	for _, day := range view.Days {
		byDate[day.Date] = day
	}
	assert.False(t, byDate["2024-02-04"].Priced)
	assert.Equal(t, dto.DayAvailable, byDate["2024-02-04"].Status)

	assert.True(t, byDate["2024-02-05"].Priced)
	assert.Equal(t, int64(12000), byDate["2024-02-05"].PriceCents)
	assert.Equal(t, dto.DayAvailable, byDate["2024-02-05"].Status)

	assert.Equal(t, dto.DayReserved, byDate["2024-02-08"].Status)
	assert.True(t, byDate["2024-02-08"].Priced)
	assert.Equal(t, dto.DayReserved, byDate["2024-02-09"].Status)
	assert.Equal(t, dto.DayAvailable, byDate["2024-02-10"].Status)

	t.Run("unknown unit", func(t *testing.T) {
		_, err := h.Handle(ctx, MonthViewQuery{UnitID: "ghost", Year: 2024, Month: 2})
		assert.ErrorIs(t, err, domainunits.ErrNotFound)
	})

	t.Run("invalid month", func(t *testing.T) {
		_, err := h.Handle(ctx, MonthViewQuery{UnitID: "unit-1", Year: 2024, Month: 13})
		assert.ErrorIs(t, err, daterange.ErrInvalidRange)
	})
}
