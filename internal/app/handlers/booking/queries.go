package booking

import (
	"context"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	domainbooking "stayhub/internal/domain/booking"
	domainunits "stayhub/internal/domain/units"
)

const (
	getBookingKey        = "bookings.get"
	listGuestBookingsKey = "bookings.by_guest"
	listHostBookingsKey  = "bookings.by_host"
)

type GetBookingQuery struct {
	BookingID string
}

func (q GetBookingQuery) Key() string { return getBookingKey }

type GetBookingHandler struct {
	Bookings domainbooking.Repository
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (*dto.BookingView, error) {
	bk, err := h.Bookings.ByID(ctx, domainbooking.BookingID(q.BookingID))
	if err != nil {
		return nil, err
	}
	if bk.Deleted {
		return nil, domainbooking.ErrNotFound
	}
	view := dto.MapBooking(bk)
	return &view, nil
}

type ListGuestBookingsQuery struct {
	GuestID string
}

func (q ListGuestBookingsQuery) Key() string { return listGuestBookingsKey }

type ListGuestBookingsHandler struct {
	Bookings domainbooking.Repository
}

func (h *ListGuestBookingsHandler) Handle(ctx context.Context, q ListGuestBookingsQuery) ([]dto.BookingView, error) {
	list, err := h.Bookings.ListByGuest(ctx, q.GuestID)
	if err != nil {
		return nil, err
	}
	return dto.MapBookings(visible(list)), nil
}

// ListHostBookingsQuery returns the bookings across every live unit of a host,
// the host's approval inbox.
type ListHostBookingsQuery struct {
	HostID string
}

func (q ListHostBookingsQuery) Key() string { return listHostBookingsKey }

type ListHostBookingsHandler struct {
	Units    domainunits.Repository
	Bookings domainbooking.Repository
}

func (h *ListHostBookingsHandler) Handle(ctx context.Context, q ListHostBookingsQuery) ([]dto.BookingView, error) {
	units, err := h.Units.ListByHost(ctx, domainunits.HostID(q.HostID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookingView, 0)
	for _, u := range units {
		if u.Deleted {
			continue
		}
		list, err := h.Bookings.ListByUnit(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.MapBookings(visible(list))...)
	}
	return out, nil
}

func visible(list []*domainbooking.Booking) []*domainbooking.Booking {
	out := make([]*domainbooking.Booking, 0, len(list))
	for _, b := range list {
		if b.Deleted {
			continue
		}
		out = append(out, b)
	}
	return out
}

var _ queries.Handler[GetBookingQuery, *dto.BookingView] = (*GetBookingHandler)(nil)
var _ queries.Handler[ListGuestBookingsQuery, []dto.BookingView] = (*ListGuestBookingsHandler)(nil)
var _ queries.Handler[ListHostBookingsQuery, []dto.BookingView] = (*ListHostBookingsHandler)(nil)
