package pricing

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
	"stayhub/internal/domain/units"
)

var (
	ErrNegativePrice = errors.New("pricing: price must not be negative")
	ErrCurrencyUnset = errors.New("pricing: ledger currency must be defined")
)

// Ledger maps calendar days of one unit to prices. One entry per day: interval
// merging never happens at query time, and Sum is a bounded scan over the
// requested range. A day absent from the ledger is unpriced.
type Ledger struct {
	UnitID   units.UnitID
	Currency string
	days     map[time.Time]money.Money
}

// Entry is one (day, price) row of a ledger snapshot.
type Entry struct {
	Day   time.Time
	Price money.Money
}

type LedgerRepository interface {
	Ledger(ctx context.Context, id units.UnitID) (*Ledger, error)
	Save(ctx context.Context, ledger *Ledger) error
}

func NewLedger(id units.UnitID, currency string) *Ledger {
	return &Ledger{
		UnitID:   id,
		Currency: currency,
		days:     make(map[time.Time]money.Money),
	}
}

// SetRange writes price for every day in [r.From, r.To]. Later calls override
// earlier ones for the same day.
func (l *Ledger) SetRange(r daterange.DateRange, price money.Money) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if price.Cents < 0 {
		return ErrNegativePrice
	}
	if price.Currency == "" {
		return ErrCurrencyUnset
	}
	r.EachDay(func(day time.Time) {
		l.days[day] = price
	})
	return nil
}

// Price returns the ledger price for one day, if any.
func (l *Ledger) Price(day time.Time) (money.Money, bool) {
	p, ok := l.days[daterange.Day(day)]
	return p, ok
}

// Sum totals the priced days inside the range. The second return value is true
// only when every day of the range carries a price; callers needing a firm
// quote must reject incomplete ranges.
func (l *Ledger) Sum(r daterange.DateRange) (money.Money, bool) {
	total := money.Money{Currency: l.Currency}
	full := true
	r.EachDay(func(day time.Time) {
		price, ok := l.days[day]
		if !ok {
			full = false
			return
		}
		total.Cents += price.Cents
	})
	return total, full
}

// Entries returns a snapshot of all priced days, in no particular order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l.days))
	for day, price := range l.days {
		out = append(out, Entry{Day: day, Price: price})
	}
	return out
}

// Restore loads a persisted entry, bypassing range validation. Used by
// repositories when rehydrating a ledger.
func (l *Ledger) Restore(day time.Time, price money.Money) {
	l.days[daterange.Day(day)] = price
}

// Clone produces an independent copy for snapshot reads.
func (l *Ledger) Clone() *Ledger {
	c := NewLedger(l.UnitID, l.Currency)
	for day, price := range l.days {
		c.days[day] = price
	}
	return c
}

func (l *Ledger) Len() int {
	return len(l.days)
}
