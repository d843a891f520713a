package search

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	"stayhub/internal/app/support"
	domainavailability "stayhub/internal/domain/availability"
	domainpricing "stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/daterange"
	domainunits "stayhub/internal/domain/units"
)

const searchUnitsKey = "search.units"

// ErrUnderspecifiedQuery rejects a price filter without a date range: a total
// price only exists for a concrete stay interval.
var ErrUnderspecifiedQuery = errors.New("search: price filter requires a date range")

// SearchUnitsQuery combines filters with AND semantics. Every field is
// optional; an empty query matches all live units. Setting either date bound
// requires the other.
type SearchUnitsQuery struct {
	Name      string
	Location  string
	Tags      []string
	Guests    int
	Basis     domainunits.PriceBasis
	From      time.Time
	To        time.Time
	FromCents *int64
	ToCents   *int64
	Requester string
}

func (q SearchUnitsQuery) Key() string { return searchUnitsKey }

func (q SearchUnitsQuery) hasDates() bool {
	return !q.From.IsZero() || !q.To.IsZero()
}

func (q SearchUnitsQuery) hasPriceFilter() bool {
	return q.FromCents != nil || q.ToCents != nil
}

type SearchUnitsHandler struct {
	Units     domainunits.Repository
	Ledgers   domainpricing.LedgerRepository
	Calendars domainavailability.Repository
	Locker    *support.UnitLocker
}

func (h *SearchUnitsHandler) Handle(ctx context.Context, q SearchUnitsQuery) (*dto.SearchResult, error) {
	if q.hasPriceFilter() && !q.hasDates() {
		return nil, ErrUnderspecifiedQuery
	}
	var stay daterange.DateRange
	if q.hasDates() {
		r, err := daterange.New(q.From, q.To)
		if err != nil {
			return nil, err
		}
		stay = r
	}

	units, err := h.Units.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })

	result := &dto.SearchResult{Items: make([]dto.SearchHit, 0)}
	for _, unit := range units {
		if !h.matchesAttributes(unit, q) {
			continue
		}
		if !q.hasDates() {
			result.Items = append(result.Items, dto.SearchHit{Unit: dto.MapUnit(unit)})
			continue
		}
		hit, ok, err := h.priceAndAvailability(ctx, unit, stay, q)
		if err != nil {
			return nil, err
		}
		if ok {
			result.Items = append(result.Items, hit)
		}
	}
	result.Total = len(result.Items)
	return result, nil
}

func (h *SearchUnitsHandler) matchesAttributes(unit *domainunits.Unit, q SearchUnitsQuery) bool {
	if unit.Deleted {
		return false
	}
	if q.Name != "" && !containsFold(unit.Name, q.Name) {
		return false
	}
	if q.Location != "" && !containsFold(unit.Location, q.Location) {
		return false
	}
	if len(q.Tags) > 0 && !unit.HasAllTags(q.Tags) {
		return false
	}
	if q.Guests > 0 && !unit.FitsGuests(q.Guests) {
		return false
	}
	if q.Basis != "" && unit.Basis != q.Basis {
		return false
	}
	return true
}

// priceAndAvailability snapshots one unit under its read lock: the stay must
// be fully priced and free of holds owned by other guests.
func (h *SearchUnitsHandler) priceAndAvailability(ctx context.Context, unit *domainunits.Unit, stay daterange.DateRange, q SearchUnitsQuery) (dto.SearchHit, bool, error) {
	unlock := h.Locker.RLock(unit.ID)
	defer unlock()

	ledger, err := h.Ledgers.Ledger(ctx, unit.ID)
	if err != nil {
		return dto.SearchHit{}, false, err
	}
	sum, full := ledger.Sum(stay)
	if !full {
		return dto.SearchHit{}, false, nil
	}
	calendar, err := h.Calendars.Calendar(ctx, unit.ID)
	if err != nil {
		return dto.SearchHit{}, false, err
	}
	if calendar.BlockedFor(stay, q.Requester) {
		return dto.SearchHit{}, false, nil
	}
	if q.FromCents != nil && sum.Cents < *q.FromCents {
		return dto.SearchHit{}, false, nil
	}
	if q.ToCents != nil && sum.Cents > *q.ToCents {
		return dto.SearchHit{}, false, nil
	}
	total := sum.Cents
	return dto.SearchHit{
		Unit:       dto.MapUnit(unit),
		TotalCents: &total,
		Currency:   sum.Currency,
	}, true, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

var _ queries.Handler[SearchUnitsQuery, *dto.SearchResult] = (*SearchUnitsHandler)(nil)
