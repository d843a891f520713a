package availability

import (
	"context"
	"errors"
	"time"

	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/events"
	"stayhub/internal/domain/units"
)

var (
	ErrConflict     = errors.New("availability: range overlaps an existing booking")
	ErrHoldNotFound = errors.New("availability: hold not found")
)

// Hold is the availability footprint of one blocking booking. Only pending and
// approved bookings appear here; declining or soft-deleting a booking releases
// its hold.
type Hold struct {
	BookingID string
	GuestID   string
	Range     daterange.DateRange
	CreatedAt time.Time
}

// Calendar is the availability index of one unit: the set of date ranges its
// blocking bookings occupy. Ranges are pairwise non-overlapping under
// closed-interval semantics; Reserve maintains that invariant.
type Calendar struct {
	UnitID units.UnitID
	Holds  []Hold
	events.EventRecorder
}

type Repository interface {
	Calendar(ctx context.Context, id units.UnitID) (*Calendar, error)
	Save(ctx context.Context, calendar *Calendar) error
}

func NewCalendar(id units.UnitID) *Calendar {
	return &Calendar{UnitID: id}
}

// IsFree reports whether no existing hold intersects the range. A shared
// boundary day counts as an intersection.
func (c *Calendar) IsFree(r daterange.DateRange) bool {
	for _, hold := range c.Holds {
		if hold.Range.Overlaps(r) {
			return false
		}
	}
	return true
}

// Reserve re-checks the range and inserts a hold. Callers serialize Reserve
// per unit so the check and the insert form one critical section.
func (c *Calendar) Reserve(r daterange.DateRange, bookingID, guestID string, now time.Time) error {
	if !c.IsFree(r) {
		c.Record(OverbookingPreventedEvent{UnitID: c.UnitID, Range: r, At: now.UTC()})
		return ErrConflict
	}
	c.Holds = append(c.Holds, Hold{
		BookingID: bookingID,
		GuestID:   guestID,
		Range:     r,
		CreatedAt: now.UTC(),
	})
	c.Record(HoldPlacedEvent{UnitID: c.UnitID, BookingID: bookingID, Range: r, At: now.UTC()})
	return nil
}

// Release removes the hold of a booking, immediately vacating its range.
func (c *Calendar) Release(bookingID string, now time.Time) error {
	idx := -1
	for i, hold := range c.Holds {
		if hold.BookingID == bookingID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrHoldNotFound
	}
	removed := c.Holds[idx]
	c.Holds = append(c.Holds[:idx], c.Holds[idx+1:]...)
	c.Record(HoldReleasedEvent{UnitID: c.UnitID, BookingID: removed.BookingID, Range: removed.Range, At: now.UTC()})
	return nil
}

// Reserved reports whether the day is covered by any hold.
func (c *Calendar) Reserved(day time.Time) bool {
	for _, hold := range c.Holds {
		if hold.Range.ContainsDate(day) {
			return true
		}
	}
	return false
}

// BlockedFor reports whether the range intersects a hold belonging to a guest
// other than the given requester. With an empty requester every hold blocks.
func (c *Calendar) BlockedFor(r daterange.DateRange, requester string) bool {
	for _, hold := range c.Holds {
		if requester != "" && hold.GuestID == requester {
			continue
		}
		if hold.Range.Overlaps(r) {
			return true
		}
	}
	return false
}

// Clone produces an independent copy for snapshot reads.
func (c *Calendar) Clone() *Calendar {
	clone := NewCalendar(c.UnitID)
	clone.Holds = append([]Hold(nil), c.Holds...)
	return clone
}
