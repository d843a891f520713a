package availability

import (
	"time"

	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/units"
)

type HoldPlacedEvent struct {
	UnitID    units.UnitID
	BookingID string
	Range     daterange.DateRange
	At        time.Time
}

func (e HoldPlacedEvent) EventName() string     { return "availability.hold_placed" }
func (e HoldPlacedEvent) AggregateID() string   { return string(e.UnitID) }
func (e HoldPlacedEvent) OccurredAt() time.Time { return e.At }

type HoldReleasedEvent struct {
	UnitID    units.UnitID
	BookingID string
	Range     daterange.DateRange
	At        time.Time
}

func (e HoldReleasedEvent) EventName() string     { return "availability.hold_released" }
func (e HoldReleasedEvent) AggregateID() string   { return string(e.UnitID) }
func (e HoldReleasedEvent) OccurredAt() time.Time { return e.At }

type OverbookingPreventedEvent struct {
	UnitID units.UnitID
	Range  daterange.DateRange
	At     time.Time
}

func (e OverbookingPreventedEvent) EventName() string     { return "availability.overbooking_prevented" }
func (e OverbookingPreventedEvent) AggregateID() string   { return string(e.UnitID) }
func (e OverbookingPreventedEvent) OccurredAt() time.Time { return e.At }
