package memory

import (
	"context"
	"sync"

	"stayhub/internal/domain/availability"
	"stayhub/internal/domain/booking"
	"stayhub/internal/domain/pricing"
	"stayhub/internal/domain/shared/events"
	"stayhub/internal/domain/units"
)

// UnitRepository is a map-backed units.Repository. Reads hand out independent
// copies so callers can mutate aggregates without a store lock held.
type UnitRepository struct {
	mu    sync.RWMutex
	items map[units.UnitID]*units.Unit
}

func NewUnitRepository() *UnitRepository {
	return &UnitRepository{items: make(map[units.UnitID]*units.Unit)}
}

func (r *UnitRepository) ByID(_ context.Context, id units.UnitID) (*units.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	unit, ok := r.items[id]
	if !ok {
		return nil, units.ErrNotFound
	}
	return cloneUnit(unit), nil
}

func (r *UnitRepository) Save(_ context.Context, unit *units.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := cloneUnit(unit)
	stored.Version++
	r.items[unit.ID] = stored
	unit.Version = stored.Version
	return nil
}

func (r *UnitRepository) List(_ context.Context) ([]*units.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*units.Unit, 0, len(r.items))
	for _, unit := range r.items {
		out = append(out, cloneUnit(unit))
	}
	return out, nil
}

func (r *UnitRepository) ListByHost(_ context.Context, host units.HostID) ([]*units.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*units.Unit, 0)
	for _, unit := range r.items {
		if unit.Host == host {
			out = append(out, cloneUnit(unit))
		}
	}
	return out, nil
}

func cloneUnit(u *units.Unit) *units.Unit {
	clone := *u
	clone.Tags = append([]string(nil), u.Tags...)
	clone.Photos = append([]string(nil), u.Photos...)
	clone.EventRecorder = events.EventRecorder{}
	return &clone
}

// BookingRepository is a map-backed booking.Repository.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[booking.BookingID]*booking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[booking.BookingID]*booking.Booking)}
}

func (r *BookingRepository) ByID(_ context.Context, id booking.BookingID) (*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bk, ok := r.items[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	return cloneBooking(bk), nil
}

func (r *BookingRepository) Save(_ context.Context, bk *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := cloneBooking(bk)
	stored.Version++
	r.items[bk.ID] = stored
	bk.Version = stored.Version
	return nil
}

func (r *BookingRepository) List(_ context.Context) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*booking.Booking, 0, len(r.items))
	for _, bk := range r.items {
		out = append(out, cloneBooking(bk))
	}
	return out, nil
}

func (r *BookingRepository) ListByUnit(_ context.Context, unitID units.UnitID) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*booking.Booking, 0)
	for _, bk := range r.items {
		if bk.UnitID == unitID {
			out = append(out, cloneBooking(bk))
		}
	}
	return out, nil
}

func (r *BookingRepository) ListByGuest(_ context.Context, guestID string) ([]*booking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*booking.Booking, 0)
	for _, bk := range r.items {
		if bk.GuestID == guestID {
			out = append(out, cloneBooking(bk))
		}
	}
	return out, nil
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	clone := *b
	clone.EventRecorder = events.EventRecorder{}
	return &clone
}

// LedgerRepository is a map-backed pricing.LedgerRepository. A missing ledger
// reads back as an empty one so first-time pricing needs no separate create.
type LedgerRepository struct {
	mu       sync.RWMutex
	currency string
	items    map[units.UnitID]*pricing.Ledger
}

func NewLedgerRepository(currency string) *LedgerRepository {
	return &LedgerRepository{
		currency: currency,
		items:    make(map[units.UnitID]*pricing.Ledger),
	}
}

func (r *LedgerRepository) Ledger(_ context.Context, id units.UnitID) (*pricing.Ledger, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ledger, ok := r.items[id]
	if !ok {
		return pricing.NewLedger(id, r.currency), nil
	}
	return ledger.Clone(), nil
}

func (r *LedgerRepository) Save(_ context.Context, ledger *pricing.Ledger) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[ledger.UnitID] = ledger.Clone()
	return nil
}

// CalendarRepository is a map-backed availability.Repository. Calendars are
// derivable state: on a persistent store they rebuild from blocking bookings
// at boot, here they simply start empty.
type CalendarRepository struct {
	mu    sync.RWMutex
	items map[units.UnitID]*availability.Calendar
}

func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{items: make(map[units.UnitID]*availability.Calendar)}
}

func (r *CalendarRepository) Calendar(_ context.Context, id units.UnitID) (*availability.Calendar, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cal, ok := r.items[id]
	if !ok {
		return availability.NewCalendar(id), nil
	}
	return cal.Clone(), nil
}

func (r *CalendarRepository) Save(_ context.Context, cal *availability.Calendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[cal.UnitID] = cal.Clone()
	return nil
}

var _ units.Repository = (*UnitRepository)(nil)
var _ booking.Repository = (*BookingRepository)(nil)
var _ pricing.LedgerRepository = (*LedgerRepository)(nil)
var _ availability.Repository = (*CalendarRepository)(nil)
