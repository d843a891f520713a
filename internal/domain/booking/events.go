package booking

import (
	"time"

	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/money"
	"stayhub/internal/domain/units"
)

type BookingRequested struct {
	BookingID BookingID
	UnitID    units.UnitID
	GuestID   string
	Range     daterange.DateRange
	Guests    int
	Total     money.Money
	At        time.Time
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingApproved struct {
	BookingID BookingID
	UnitID    units.UnitID
	At        time.Time
}

func (e BookingApproved) EventName() string     { return "booking.approved" }
func (e BookingApproved) AggregateID() string   { return string(e.BookingID) }
func (e BookingApproved) OccurredAt() time.Time { return e.At }

type BookingDeclined struct {
	BookingID BookingID
	UnitID    units.UnitID
	At        time.Time
}

func (e BookingDeclined) EventName() string     { return "booking.declined" }
func (e BookingDeclined) AggregateID() string   { return string(e.BookingID) }
func (e BookingDeclined) OccurredAt() time.Time { return e.At }

type BookingRemoved struct {
	BookingID BookingID
	UnitID    units.UnitID
	At        time.Time
}

func (e BookingRemoved) EventName() string     { return "booking.removed" }
func (e BookingRemoved) AggregateID() string   { return string(e.BookingID) }
func (e BookingRemoved) OccurredAt() time.Time { return e.At }
