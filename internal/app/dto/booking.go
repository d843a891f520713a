package dto

import (
	"time"

	"stayhub/internal/domain/booking"
)

type BookingView struct {
	ID         string    `json:"id"`
	UnitID     string    `json:"unit_id"`
	GuestID    string    `json:"guest_id"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Guests     int       `json:"guests"`
	TotalCents int64     `json:"total_cents"`
	Currency   string    `json:"currency"`
	State      string    `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}

func MapBooking(b *booking.Booking) BookingView {
	if b == nil {
		return BookingView{}
	}
	return BookingView{
		ID:         string(b.ID),
		UnitID:     string(b.UnitID),
		GuestID:    b.GuestID,
		From:       b.Range.From,
		To:         b.Range.To,
		Guests:     b.Guests,
		TotalCents: b.Total.Cents,
		Currency:   b.Total.Currency,
		State:      string(b.State),
		CreatedAt:  b.CreatedAt,
	}
}

func MapBookings(list []*booking.Booking) []BookingView {
	out := make([]BookingView, 0, len(list))
	for _, b := range list {
		out = append(out, MapBooking(b))
	}
	return out
}
