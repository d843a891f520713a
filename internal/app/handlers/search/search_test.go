package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayhub/internal/app/support"
	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
	domainunits "stayhub/internal/domain/units"
	"stayhub/internal/infra/storage/memory"
)

type fixture struct {
	units     *memory.UnitRepository
	ledgers   *memory.LedgerRepository
	calendars *memory.CalendarRepository
	locker    *support.UnitLocker
}

func newFixture() *fixture {
	return &fixture{
		units:     memory.NewUnitRepository(),
		ledgers:   memory.NewLedgerRepository("EUR"),
		calendars: memory.NewCalendarRepository(),
		locker:    support.NewUnitLocker(),
	}
}

func (f *fixture) handler() *SearchUnitsHandler {
	return &SearchUnitsHandler{
		Units:     f.units,
		Ledgers:   f.ledgers,
		Calendars: f.calendars,
		Locker:    f.locker,
	}
}

func (f *fixture) addUnit(t *testing.T, id, name, location string, maxGuests int, tags ...string) {
	t.Helper()
	unit, err := domainunits.New(domainunits.CreateParams{
		ID:        domainunits.UnitID(id),
		Host:      "host-1",
		Name:      name,
		Location:  location,
		MinGuests: 1,
		MaxGuests: maxGuests,
		Tags:      tags,
		Basis:     domainunits.PerUnit,
		Now:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	unit.ClearEvents()
	require.NoError(t, f.units.Save(context.Background(), unit))
}

func (f *fixture) price(t *testing.T, id string, from, to time.Time, cents int64) {
	t.Helper()
	ctx := context.Background()
	ledger, err := f.ledgers.Ledger(ctx, domainunits.UnitID(id))
	require.NoError(t, err)
	r, err := daterange.New(from, to)
	require.NoError(t, err)
	require.NoError(t, ledger.SetRange(r, money.Money{Cents: cents, Currency: "EUR"}))
	require.NoError(t, f.ledgers.Save(ctx, ledger))
}

func (f *fixture) hold(t *testing.T, id, bookingID, guest string, from, to time.Time) {
	t.Helper()
	ctx := context.Background()
	cal, err := f.calendars.Calendar(ctx, domainunits.UnitID(id))
	require.NoError(t, err)
	r, err := daterange.New(from, to)
	require.NoError(t, err)
	require.NoError(t, cal.Reserve(r, bookingID, guest, time.Now()))
	require.NoError(t, f.calendars.Save(ctx, cal))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSearchUnits(t *testing.T) {
	ctx := context.Background()

	t.Run("location and dates filter priced, free units", func(t *testing.T) {
		f := newFixture()
		f.addUnit(t, "unit-1", "Riverside Apartment", "Novi Sad", 4)
		f.addUnit(t, "unit-2", "City Loft", "Novi Sad", 4)
		f.addUnit(t, "unit-3", "Beach House", "Split", 4)
		f.addUnit(t, "unit-4", "Panorama Flat", "Novi Sad", 4)
		f.price(t, "unit-1", date(2024, 7, 1), date(2024, 7, 31), 8000)
		f.price(t, "unit-2", date(2024, 7, 1), date(2024, 7, 31), 6000)
		f.price(t, "unit-3", date(2024, 7, 1), date(2024, 7, 31), 9000)
		// unit-4 is only partially priced over the stay.
		f.price(t, "unit-4", date(2024, 7, 1), date(2024, 7, 12), 7000)
		// unit-2 is taken by another guest over the stay.
		f.hold(t, "unit-2", "bk-1", "guest-9", date(2024, 7, 12), date(2024, 7, 16))

		result, err := f.handler().Handle(ctx, SearchUnitsQuery{
			Location: "novi sad",
			Guests:   2,
			From:     date(2024, 7, 10),
			To:       date(2024, 7, 14),
		})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "unit-1", result.Items[0].Unit.ID)
		require.NotNil(t, result.Items[0].TotalCents)
		assert.Equal(t, int64(5*8000), *result.Items[0].TotalCents)
		assert.Equal(t, "EUR", result.Items[0].Currency)
	})

	t.Run("requester's own hold does not exclude the unit", func(t *testing.T) {
		f := newFixture()
		f.addUnit(t, "unit-1", "Riverside Apartment", "Novi Sad", 4)
		f.price(t, "unit-1", date(2024, 7, 1), date(2024, 7, 31), 8000)
		f.hold(t, "unit-1", "bk-1", "guest-1", date(2024, 7, 12), date(2024, 7, 16))

		result, err := f.handler().Handle(ctx, SearchUnitsQuery{
			From: date(2024, 7, 10), To: date(2024, 7, 14), Requester: "guest-1",
		})
		require.NoError(t, err)
		assert.Len(t, result.Items, 1)

		result, err = f.handler().Handle(ctx, SearchUnitsQuery{
			From: date(2024, 7, 10), To: date(2024, 7, 14), Requester: "guest-2",
		})
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})

	t.Run("tags require all matches", func(t *testing.T) {
		f := newFixture()
		f.addUnit(t, "unit-1", "A", "Novi Sad", 4, "wifi", "parking")
		f.addUnit(t, "unit-2", "B", "Novi Sad", 4, "wifi")

		result, err := f.handler().Handle(ctx, SearchUnitsQuery{Tags: []string{"wifi", "parking"}})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "unit-1", result.Items[0].Unit.ID)
	})

	t.Run("name matches case-insensitive substring", func(t *testing.T) {
		f := newFixture()
		f.addUnit(t, "unit-1", "Riverside Apartment", "Novi Sad", 4)
		f.addUnit(t, "unit-2", "City Loft", "Novi Sad", 4)

		result, err := f.handler().Handle(ctx, SearchUnitsQuery{Name: "riverside"})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "unit-1", result.Items[0].Unit.ID)
	})

	t.Run("price range filters on the stay total", func(t *testing.T) {
		f := newFixture()
		f.addUnit(t, "unit-1", "A", "Novi Sad", 4)
		f.addUnit(t, "unit-2", "B", "Novi Sad", 4)
		f.price(t, "unit-1", date(2024, 7, 1), date(2024, 7, 31), 8000)
		f.price(t, "unit-2", date(2024, 7, 1), date(2024, 7, 31), 20000)

		lo, hi := int64(30000), int64(50000)
		result, err := f.handler().Handle(ctx, SearchUnitsQuery{
			From: date(2024, 7, 10), To: date(2024, 7, 14),
			FromCents: &lo, ToCents: &hi,
		})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "unit-1", result.Items[0].Unit.ID)
	})

	t.Run("price basis filters the charging mode", func(t *testing.T) {
		f := newFixture()
		f.addUnit(t, "unit-1", "A", "Novi Sad", 4)
		perGuest, err := domainunits.New(domainunits.CreateParams{
			ID:        "unit-2",
			Host:      "host-1",
			Name:      "B",
			Location:  "Novi Sad",
			MinGuests: 1,
			MaxGuests: 4,
			Basis:     domainunits.PerGuest,
			Now:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		perGuest.ClearEvents()
		require.NoError(t, f.units.Save(ctx, perGuest))

		result, err := f.handler().Handle(ctx, SearchUnitsQuery{Basis: domainunits.PerGuest})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "unit-2", result.Items[0].Unit.ID)

		result, err = f.handler().Handle(ctx, SearchUnitsQuery{Basis: domainunits.PerUnit})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "unit-1", result.Items[0].Unit.ID)

		result, err = f.handler().Handle(ctx, SearchUnitsQuery{})
		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
	})

	t.Run("price filter without dates is underspecified", func(t *testing.T) {
		f := newFixture()
		lo := int64(1000)
		_, err := f.handler().Handle(ctx, SearchUnitsQuery{FromCents: &lo})
		assert.ErrorIs(t, err, ErrUnderspecifiedQuery)
	})

	t.Run("attribute-only search omits totals", func(t *testing.T) {
		f := newFixture()
		f.addUnit(t, "unit-1", "A", "Novi Sad", 4)

		result, err := f.handler().Handle(ctx, SearchUnitsQuery{Location: "Novi Sad"})
		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Nil(t, result.Items[0].TotalCents)
	})

	t.Run("results are ordered by unit id", func(t *testing.T) {
		f := newFixture()
		f.addUnit(t, "unit-3", "C", "Novi Sad", 4)
		f.addUnit(t, "unit-1", "A", "Novi Sad", 4)
		f.addUnit(t, "unit-2", "B", "Novi Sad", 4)

		result, err := f.handler().Handle(ctx, SearchUnitsQuery{})
		require.NoError(t, err)
		require.Len(t, result.Items, 3)
		assert.Equal(t, "unit-1", result.Items[0].Unit.ID)
		assert.Equal(t, "unit-2", result.Items[1].Unit.ID)
		assert.Equal(t, "unit-3", result.Items[2].Unit.ID)
	})
}
