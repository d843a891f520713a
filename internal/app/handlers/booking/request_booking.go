package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/support"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainpricing "stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/daterange"
	domainunits "stayhub/internal/domain/units"
)

const requestBookingKey = "bookings.request"

var (
	// ErrOwnUnit rejects a host requesting a stay in their own unit.
	ErrOwnUnit = errors.New("booking: hosts cannot book their own units")
	// ErrGuestsNotAccommodated rejects a guest count outside the unit's limits.
	ErrGuestsNotAccommodated = errors.New("booking: guest count outside unit capacity")
	// ErrBookingNotOwned rejects acting on a booking created by another guest.
	ErrBookingNotOwned = errors.New("booking: booking does not belong to this guest")
)

type RequestBookingCommand struct {
	CommandID string
	UnitID    string
	GuestID   string
	From      time.Time
	To        time.Time
	Guests    int
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

type RequestBookingHandler struct {
	Logger    *slog.Logger
	Units     domainunits.Repository
	Bookings  domainbooking.Repository
	Ledgers   domainpricing.LedgerRepository
	Calendars domainavailability.Repository
	Locker    *support.UnitLocker
	Outbox    outbox.Outbox
	Encoder   outbox.EventEncoder
	Now       func() time.Time
}

// Handle holds the unit's write lock across the conflict check, the ledger
// read and the hold insert, so of two concurrent overlapping requests exactly
// one succeeds.
func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*dto.BookingView, error) {
	unit, err := h.Units.ByID(ctx, domainunits.UnitID(cmd.UnitID))
	if err != nil {
		return nil, err
	}
	if unit.Deleted {
		return nil, domainunits.ErrNotFound
	}
	if string(unit.Host) == cmd.GuestID {
		return nil, ErrOwnUnit
	}
	if !unit.FitsGuests(cmd.Guests) {
		return nil, ErrGuestsNotAccommodated
	}
	r, err := daterange.New(cmd.From, cmd.To)
	if err != nil {
		return nil, err
	}

	unlock := h.Locker.Lock(unit.ID)
	defer unlock()

	ts := h.now()
	calendar, err := h.Calendars.Calendar(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	ledger, err := h.Ledgers.Ledger(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	sum, full := ledger.Sum(r)
	if !full {
		return nil, domainbooking.ErrUnpricedRange
	}

	bk, err := domainbooking.New(domainbooking.CreateParams{
		ID:      domainbooking.BookingID(cmd.CommandID),
		UnitID:  unit.ID,
		GuestID: cmd.GuestID,
		Range:   r,
		Guests:  cmd.Guests,
		Total:   domainbooking.Quote(sum, unit.Basis, cmd.Guests),
		Now:     ts,
	})
	if err != nil {
		return nil, err
	}

	if err := calendar.Reserve(r, string(bk.ID), cmd.GuestID, ts); err != nil {
		// The prevented-overbooking event still goes out for monitoring.
		if drainErr := outbox.Drain(ctx, h.Outbox, h.Encoder, &calendar.EventRecorder); drainErr != nil {
			return nil, drainErr
		}
		return nil, err
	}

	if err := h.Bookings.Save(ctx, bk); err != nil {
		return nil, err
	}
	if err := h.Calendars.Save(ctx, calendar); err != nil {
		return nil, err
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &bk.EventRecorder); err != nil {
		return nil, err
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &calendar.EventRecorder); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("booking requested",
			"booking_id", bk.ID, "unit_id", unit.ID, "guest_id", cmd.GuestID,
			"from", r.From.Format("2006-01-02"), "to", r.To.Format("2006-01-02"))
	}
	view := dto.MapBooking(bk)
	return &view, nil
}

func (h *RequestBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[RequestBookingCommand, *dto.BookingView] = (*RequestBookingHandler)(nil)
