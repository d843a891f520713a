package units

import (
	"time"
)

type UnitCreatedEvent struct {
	UnitID UnitID
	HostID HostID
	At     time.Time
}

func (e UnitCreatedEvent) EventName() string     { return "unit.created" }
func (e UnitCreatedEvent) AggregateID() string   { return string(e.UnitID) }
func (e UnitCreatedEvent) OccurredAt() time.Time { return e.At }

type UnitUpdatedEvent struct {
	UnitID UnitID
	At     time.Time
}

func (e UnitUpdatedEvent) EventName() string     { return "unit.updated" }
func (e UnitUpdatedEvent) AggregateID() string   { return string(e.UnitID) }
func (e UnitUpdatedEvent) OccurredAt() time.Time { return e.At }

type UnitDeletedEvent struct {
	UnitID UnitID
	HostID HostID
	At     time.Time
}

func (e UnitDeletedEvent) EventName() string     { return "unit.deleted" }
func (e UnitDeletedEvent) AggregateID() string   { return string(e.UnitID) }
func (e UnitDeletedEvent) OccurredAt() time.Time { return e.At }
