package units

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
	domainunits "stayhub/internal/domain/units"
)

const (
	createUnitKey      = "units.create"
	updateUnitKey      = "units.update"
	deleteUnitKey      = "units.delete"
	deleteHostUnitsKey = "units.delete_by_host"
)

var ErrUnitNotOwned = errors.New("units: unit does not belong to this host")

type CreateUnitCommand struct {
	CommandID string
	HostID    string
	Name      string
	Location  string
	MinGuests int
	MaxGuests int
	Tags      []string
	Basis     string
}

func (c CreateUnitCommand) Key() string { return createUnitKey }

type CreateUnitResult struct {
	UnitID string `json:"unit_id"`
}

type CreateUnitHandler struct {
	Logger  *slog.Logger
	Units   domainunits.Repository
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *CreateUnitHandler) Handle(ctx context.Context, cmd CreateUnitCommand) (*CreateUnitResult, error) {
	basis, err := domainunits.ParseBasis(cmd.Basis)
	if err != nil {
		return nil, err
	}
	unit, err := domainunits.New(domainunits.CreateParams{
		ID:        domainunits.UnitID(cmd.CommandID),
		Host:      domainunits.HostID(cmd.HostID),
		Name:      cmd.Name,
		Location:  cmd.Location,
		MinGuests: cmd.MinGuests,
		MaxGuests: cmd.MaxGuests,
		Tags:      cmd.Tags,
		Basis:     basis,
		Now:       now(h.Now),
	})
	if err != nil {
		return nil, err
	}
	if err := h.Units.Save(ctx, unit); err != nil {
		return nil, err
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &unit.EventRecorder); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("unit created", "unit_id", unit.ID, "host_id", cmd.HostID)
	}
	return &CreateUnitResult{UnitID: string(unit.ID)}, nil
}

type UpdateUnitCommand struct {
	UnitID    string
	HostID    string
	Name      string
	Location  string
	MinGuests int
	MaxGuests int
	Tags      []string
	Basis     string
}

func (c UpdateUnitCommand) Key() string { return updateUnitKey }

type UpdateUnitHandler struct {
	Units   domainunits.Repository
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *UpdateUnitHandler) Handle(ctx context.Context, cmd UpdateUnitCommand) (*dto.UnitSummary, error) {
	unit, err := OwnedUnit(ctx, h.Units, cmd.UnitID, cmd.HostID)
	if err != nil {
		return nil, err
	}
	basis, err := domainunits.ParseBasis(cmd.Basis)
	if err != nil {
		return nil, err
	}
	if err := unit.UpdateAttributes(domainunits.UpdateParams{
		Name:      cmd.Name,
		Location:  cmd.Location,
		MinGuests: cmd.MinGuests,
		MaxGuests: cmd.MaxGuests,
		Tags:      cmd.Tags,
		Basis:     basis,
		Now:       now(h.Now),
	}); err != nil {
		return nil, err
	}
	if err := h.Units.Save(ctx, unit); err != nil {
		return nil, err
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &unit.EventRecorder); err != nil {
		return nil, err
	}
	summary := dto.MapUnit(unit)
	return &summary, nil
}

type DeleteUnitCommand struct {
	UnitID string
	HostID string
}

func (c DeleteUnitCommand) Key() string { return deleteUnitKey }

type DeleteUnitHandler struct {
	Logger  *slog.Logger
	Units   domainunits.Repository
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Now     func() time.Time
}

func (h *DeleteUnitHandler) Handle(ctx context.Context, cmd DeleteUnitCommand) (struct{}, error) {
	unit, err := OwnedUnit(ctx, h.Units, cmd.UnitID, cmd.HostID)
	if err != nil {
		return struct{}{}, err
	}
	unit.SoftDelete(now(h.Now))
	if err := h.Units.Save(ctx, unit); err != nil {
		return struct{}{}, err
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &unit.EventRecorder); err != nil {
		return struct{}{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("unit deleted", "unit_id", unit.ID, "host_id", cmd.HostID)
	}
	return struct{}{}, nil
}

// DeleteHostUnitsCommand soft-deletes every unit of a host and releases the
// pending bookings referencing them. Driven by host account removal.
type DeleteHostUnitsCommand struct {
	HostID string
}

func (c DeleteHostUnitsCommand) Key() string { return deleteHostUnitsKey }

type DeleteHostUnitsResult struct {
	DeletedUnits int `json:"deleted_units"`
}

type DeleteHostUnitsHandler struct {
	Logger    *slog.Logger
	Units     domainunits.Repository
	Bookings  domainbooking.Repository
	Calendars domainavailability.Repository
	Locker    *support.UnitLocker
	Outbox    outbox.Outbox
	Encoder   outbox.EventEncoder
	Now       func() time.Time
}

func (h *DeleteHostUnitsHandler) Handle(ctx context.Context, cmd DeleteHostUnitsCommand) (*DeleteHostUnitsResult, error) {
	list, err := h.Units.ListByHost(ctx, domainunits.HostID(cmd.HostID))
	if err != nil {
		return nil, err
	}
	ts := now(h.Now)
	deleted := 0
	for _, unit := range list {
		if unit.Deleted {
			continue
		}
		if err := h.deleteOne(ctx, unit, ts); err != nil {
			return nil, err
		}
		deleted++
	}
	if h.Logger != nil {
		h.Logger.Info("host units deleted", "host_id", cmd.HostID, "count", deleted)
	}
	return &DeleteHostUnitsResult{DeletedUnits: deleted}, nil
}

func (h *DeleteHostUnitsHandler) deleteOne(ctx context.Context, unit *domainunits.Unit, ts time.Time) error {
	unlock := h.Locker.Lock(unit.ID)
	defer unlock()

	unit.SoftDelete(ts)
	if err := h.Units.Save(ctx, unit); err != nil {
		return err
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &unit.EventRecorder); err != nil {
		return err
	}

	bookings, err := h.Bookings.ListByUnit(ctx, unit.ID)
	if err != nil {
		return err
	}
	cal, err := h.Calendars.Calendar(ctx, unit.ID)
	if err != nil {
		return err
	}
	for _, b := range bookings {
		if !b.Blocking() {
			continue
		}
		b.SoftDelete(ts)
		if err := cal.Release(string(b.ID), ts); err != nil {
			return err
		}
		if err := h.Bookings.Save(ctx, b); err != nil {
			return err
		}
		if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &b.EventRecorder); err != nil {
			return err
		}
	}
	if err := outbox.Drain(ctx, h.Outbox, h.Encoder, &cal.EventRecorder); err != nil {
		return err
	}
	return h.Calendars.Save(ctx, cal)
}

// OwnedUnit loads a live unit and verifies host ownership. Shared by the
// command handlers that mutate host-owned state.
func OwnedUnit(ctx context.Context, repo domainunits.Repository, unitID, hostID string) (*domainunits.Unit, error) {
	unit, err := repo.ByID(ctx, domainunits.UnitID(unitID))
	if err != nil {
		return nil, err
	}
	if unit.Deleted {
		return nil, domainunits.ErrNotFound
	}
	if unit.Host != domainunits.HostID(hostID) {
		return nil, ErrUnitNotOwned
	}
	return unit, nil
}

func now(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateUnitCommand, *CreateUnitResult] = (*CreateUnitHandler)(nil)
var _ commands.Handler[UpdateUnitCommand, *dto.UnitSummary] = (*UpdateUnitHandler)(nil)
var _ commands.Handler[DeleteUnitCommand, struct{}] = (*DeleteUnitHandler)(nil)
var _ commands.Handler[DeleteHostUnitsCommand, *DeleteHostUnitsResult] = (*DeleteHostUnitsHandler)(nil)
