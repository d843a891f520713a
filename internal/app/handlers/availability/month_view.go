package availability

import (
	"context"
	"time"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/support"
	domainavailability "stayhub/internal/domain/availability"
	domainpricing "stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/daterange"
	domainunits "stayhub/internal/domain/units"
)

const monthViewKey = "availability.month_view"

// MonthViewQuery returns one calendar month of a unit: per day its price, if
// set, and whether a pending or approved booking covers it.
type MonthViewQuery struct {
	UnitID string
	Year   int
	Month  int
}

func (q MonthViewQuery) Key() string { return monthViewKey }

type MonthViewHandler struct {
	Units     domainunits.Repository
	Ledgers   domainpricing.LedgerRepository
	Calendars domainavailability.Repository
	Locker    *support.UnitLocker
}

func (h *MonthViewHandler) Handle(ctx context.Context, q MonthViewQuery) (*dto.MonthView, error) {
	unit, err := h.Units.ByID(ctx, domainunits.UnitID(q.UnitID))
	if err != nil {
		return nil, err
	}
	if unit.Deleted {
		return nil, domainunits.ErrNotFound
	}
	if q.Month < 1 || q.Month > 12 {
		return nil, daterange.ErrInvalidRange
	}
	r := daterange.Month(q.Year, time.Month(q.Month))

	unlock := h.Locker.RLock(unit.ID)
	defer unlock()

	ledger, err := h.Ledgers.Ledger(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	calendar, err := h.Calendars.Calendar(ctx, unit.ID)
	if err != nil {
		return nil, err
	}

	view := &dto.MonthView{
		UnitID: q.UnitID,
		Year:   q.Year,
		Month:  q.Month,
		Days:   make([]dto.DayInfo, 0, r.Days()),
	}
	r.EachDay(func(day time.Time) {
		info := dto.DayInfo{
			Date:   day.Format("2006-01-02"),
			Status: dto.DayAvailable,
		}
		if price, ok := ledger.Price(day); ok {
			info.PriceCents = price.Cents
			info.Priced = true
		}
		if calendar.Reserved(day) {
			info.Status = dto.DayReserved
		}
		view.Days = append(view.Days, info)
	})
	return view, nil
}

var _ queries.Handler[MonthViewQuery, *dto.MonthView] = (*MonthViewHandler)(nil)
