package pricing

import (
	"time"

	"stayhub/internal/domain/units"
)

type PricesAdjustedEvent struct {
	UnitID      units.UnitID
	Assignments int
	At          time.Time
}

func (e PricesAdjustedEvent) EventName() string     { return "pricing.adjusted" }
func (e PricesAdjustedEvent) AggregateID() string   { return string(e.UnitID) }
func (e PricesAdjustedEvent) OccurredAt() time.Time { return e.At }
