package pricing

import (
	"time"

	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/events"
	"stayhub/internal/domain/shared/money"
)

// Assignment is one host-submitted (interval, price) pair of a price
// adjustment batch.
type Assignment struct {
	Range daterange.DateRange
	Price money.Money
}

// Engine expands interval assignments into per-day ledger entries.
type Engine struct {
	events.EventRecorder
}

func NewEngine() *Engine {
	return &Engine{}
}

// Validate checks a whole batch before any write. A single bad assignment
// fails the batch; the ledger is never partially updated at this stage.
func (e *Engine) Validate(batch []Assignment) error {
	for _, a := range batch {
		if err := a.Range.Validate(); err != nil {
			return err
		}
		if a.Price.Cents < 0 {
			return ErrNegativePrice
		}
		if a.Price.Currency == "" {
			return ErrCurrencyUnset
		}
	}
	return nil
}

// Apply writes the batch to the ledger in submission order, so overlapping
// intervals within one batch resolve last-write-wins. Applying the same batch
// twice yields the same ledger state as applying it once.
func (e *Engine) Apply(ledger *Ledger, batch []Assignment, now time.Time) error {
	if err := e.Validate(batch); err != nil {
		return err
	}
	for _, a := range batch {
		if err := ledger.SetRange(a.Range, a.Price); err != nil {
			return err
		}
	}
	if len(batch) > 0 {
		e.Record(PricesAdjustedEvent{UnitID: ledger.UnitID, Assignments: len(batch), At: now.UTC()})
	}
	return nil
}
