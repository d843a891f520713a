package booking

import (
	"context"
	"log/slog"
	"time"

	"stayhub/internal/app/commands"
	"stayhub/internal/app/dto"
	handlerunits "stayhub/internal/app/handlers/units"
	"stayhub/internal/app/outbox"
	"stayhub/internal/app/support"
	domainavailability "stayhub/internal/domain/availability"
	domainbooking "stayhub/internal/domain/booking"
	domainunits "stayhub/internal/domain/units"
)

const (
	setBookingStatusKey = "bookings.set_status"
	cancelBookingKey    = "bookings.cancel"
)

// SetBookingStatusCommand moves a pending booking to APPROVED or DECLINED.
// Only the host owning the booked unit may decide.
type SetBookingStatusCommand struct {
	BookingID string
	HostID    string
	Status    string
}

func (c SetBookingStatusCommand) Key() string { return setBookingStatusKey }

type SetBookingStatusHandler struct {
	Logger    *slog.Logger
	Units     domainunits.Repository
	Bookings  domainbooking.Repository
	Calendars domainavailability.Repository
	Locker    *support.UnitLocker
	Outbox    outbox.Outbox
	Encoder   outbox.EventEncoder
	Now       func() time.Time
}

func (h *SetBookingStatusHandler) Handle(ctx context.Context, cmd SetBookingStatusCommand) (*dto.BookingView, error) {
	state, err := domainbooking.ParseState(cmd.Status)
	if err != nil {
		return nil, err
	}
	if state == domainbooking.StatePending {
		return nil, domainbooking.ErrInvalidState
	}
	bk, err := h.Bookings.ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if bk.Deleted {
		return nil, domainbooking.ErrNotFound
	}
	if _, err := handlerunits.OwnedUnit(ctx, h.Units, string(bk.UnitID), cmd.HostID); err != nil {
		return nil, err
	}

	unlock := h.Locker.Lock(bk.UnitID)
	defer unlock()

	ts := now(h.Now)
	switch state {
	case domainbooking.StateApproved:
		if err := bk.Approve(ts); err != nil {
			return nil, err
		}
	case domainbooking.StateDeclined:
		if err := bk.Decline(ts); err != nil {
			return nil, err
		}
		// Declining vacates the range right away.
		if err := h.releaseHold(ctx, bk, ts); err != nil {
			return nil, err
		}
	}

	if err := h.Bookings.Save(ctx, bk); err != nil {
		return nil, err
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &bk.EventRecorder); err != nil {
		return nil, err
	}

	if h.Logger != nil {
		h.Logger.Info("booking status set", "booking_id", bk.ID, "unit_id", bk.UnitID, "state", bk.State)
	}
	view := dto.MapBooking(bk)
	return &view, nil
}

func (h *SetBookingStatusHandler) releaseHold(ctx context.Context, bk *domainbooking.Booking, ts time.Time) error {
	calendar, err := h.Calendars.Calendar(ctx, bk.UnitID)
	if err != nil {
		return err
	}
	if err := calendar.Release(string(bk.ID), ts); err != nil {
		return err
	}
	if err := h.Calendars.Save(ctx, calendar); err != nil {
		return err
	}
	return outbox.Drain(ctx, h.Outbox, h.Encoder, &calendar.EventRecorder)
}

// CancelBookingCommand lets the requesting guest withdraw their booking. The
// booking is soft-deleted in any state; a blocking booking also frees its
// calendar range.
type CancelBookingCommand struct {
	BookingID string
	GuestID   string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type CancelBookingHandler struct {
	Logger    *slog.Logger
	Bookings  domainbooking.Repository
	Calendars domainavailability.Repository
	Locker    *support.UnitLocker
	Outbox    outbox.Outbox
	Encoder   outbox.EventEncoder
	Now       func() time.Time
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (struct{}, error) {
	bk, err := h.Bookings.ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return struct{}{}, err
	}
	if bk.Deleted {
		return struct{}{}, domainbooking.ErrNotFound
	}
	if bk.GuestID != cmd.GuestID {
		return struct{}{}, ErrBookingNotOwned
	}

	unlock := h.Locker.Lock(bk.UnitID)
	defer unlock()

	ts := now(h.Now)
	wasBlocking := bk.Blocking()
	bk.SoftDelete(ts)
	if wasBlocking {
		calendar, err := h.Calendars.Calendar(ctx, bk.UnitID)
		if err != nil {
			return struct{}{}, err
		}
		if err := calendar.Release(string(bk.ID), ts); err != nil {
			return struct{}{}, err
		}
		if err := h.Calendars.Save(ctx, calendar); err != nil {
			return struct{}{}, err
		}
		if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &calendar.EventRecorder); err != nil {
			return struct{}{}, err
		}
	}
	if err := h.Bookings.Save(ctx, bk); err != nil {
		return struct{}{}, err
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &bk.EventRecorder); err != nil {
		return struct{}{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("booking cancelled", "booking_id", bk.ID, "unit_id", bk.UnitID)
	}
	return struct{}{}, nil
}

func now(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return time.Now().UTC()
}

var _ commands.Handler[SetBookingStatusCommand, *dto.BookingView] = (*SetBookingStatusHandler)(nil)
var _ commands.Handler[CancelBookingCommand, struct{}] = (*CancelBookingHandler)(nil)
