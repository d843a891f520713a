package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/shared/daterange"
	"stayhub/internal/domain/shared/events"
	"stayhub/internal/domain/shared/money"
	"stayhub/internal/domain/units"
)

var (
	ErrNotFound      = errors.New("booking: not found")
	ErrInvalidGuests = errors.New("booking: guests count must be positive")
	ErrInvalidState  = errors.New("booking: invalid state transition")
	ErrUnpricedRange = errors.New("booking: requested range is not fully priced")
)

type BookingID string

type BookingState string

const (
	StatePending  BookingState = "PENDING"
	StateApproved BookingState = "APPROVED"
	StateDeclined BookingState = "DECLINED"
)

func ParseState(raw string) (BookingState, error) {
	switch BookingState(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatePending:
		return StatePending, nil
	case StateApproved:
		return StateApproved, nil
	case StateDeclined:
		return StateDeclined, nil
	default:
		return "", ErrInvalidState
	}
}

// Booking is a requested or confirmed reservation of a unit for a closed date
// range. The total is computed once from the price ledger when the booking is
// created and never recomputed, so later price changes cannot alter history.
type Booking struct {
	ID        BookingID
	UnitID    units.UnitID
	GuestID   string
	Range     daterange.DateRange
	Guests    int
	Total     money.Money
	State     BookingState
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	List(ctx context.Context) ([]*Booking, error)
	ListByUnit(ctx context.Context, unitID units.UnitID) ([]*Booking, error)
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)
}

type CreateParams struct {
	ID      BookingID
	UnitID  units.UnitID
	GuestID string
	Range   daterange.DateRange
	Guests  int
	Total   money.Money
	Now     time.Time
}

func New(params CreateParams) (*Booking, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("booking: id is required")
	}
	if strings.TrimSpace(params.GuestID) == "" {
		return nil, errors.New("booking: guest id is required")
	}
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.Now.UTC()
	b := &Booking{
		ID:        params.ID,
		UnitID:    params.UnitID,
		GuestID:   params.GuestID,
		Range:     params.Range,
		Guests:    params.Guests,
		Total:     params.Total,
		State:     StatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Record(BookingRequested{
		BookingID: b.ID,
		UnitID:    b.UnitID,
		GuestID:   b.GuestID,
		Range:     b.Range,
		Guests:    b.Guests,
		Total:     b.Total,
		At:        now,
	})
	return b, nil
}

// Quote derives the frozen total from a ledger sum. Per-guest units charge the
// day price once per staying guest.
func Quote(sum money.Money, basis units.PriceBasis, guests int) money.Money {
	if basis == units.PerGuest {
		return sum.Multiply(int64(guests))
	}
	return sum
}

func (b *Booking) Approve(now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateApproved
	b.UpdatedAt = now.UTC()
	b.Record(BookingApproved{BookingID: b.ID, UnitID: b.UnitID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Decline(now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateDeclined
	b.UpdatedAt = now.UTC()
	b.Record(BookingDeclined{BookingID: b.ID, UnitID: b.UnitID, At: b.UpdatedAt})
	return nil
}

// SoftDelete is orthogonal to the state machine and may apply in any state.
func (b *Booking) SoftDelete(now time.Time) {
	if b.Deleted {
		return
	}
	b.Deleted = true
	b.UpdatedAt = now.UTC()
	b.Record(BookingRemoved{BookingID: b.ID, UnitID: b.UnitID, At: b.UpdatedAt})
}

// Blocking reports whether this booking constrains availability: pending and
// approved bookings block, declined and soft-deleted ones do not.
func (b *Booking) Blocking() bool {
	if b.Deleted {
		return false
	}
	return b.State == StatePending || b.State == StateApproved
}
