package units

import (
	"context"

	"stayhub/internal/app/dto"
	"stayhub/internal/app/queries"
	domainunits "stayhub/internal/domain/units"
)

const (
	getUnitKey       = "units.get"
	listUnitsKey     = "units.list"
	listHostUnitsKey = "units.list_by_host"
)

type GetUnitQuery struct {
	UnitID string
}

func (q GetUnitQuery) Key() string { return getUnitKey }

type GetUnitHandler struct {
	Units domainunits.Repository
}

func (h *GetUnitHandler) Handle(ctx context.Context, q GetUnitQuery) (dto.UnitSummary, error) {
	unit, err := h.Units.ByID(ctx, domainunits.UnitID(q.UnitID))
	if err != nil {
		return dto.UnitSummary{}, err
	}
	if unit.Deleted {
		return dto.UnitSummary{}, domainunits.ErrNotFound
	}
	return dto.MapUnit(unit), nil
}

type ListUnitsQuery struct{}

func (q ListUnitsQuery) Key() string { return listUnitsKey }

type ListUnitsHandler struct {
	Units domainunits.Repository
}

func (h *ListUnitsHandler) Handle(ctx context.Context, _ ListUnitsQuery) ([]dto.UnitSummary, error) {
	list, err := h.Units.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.MapUnits(visible(list)), nil
}

type ListHostUnitsQuery struct {
	HostID string
}

func (q ListHostUnitsQuery) Key() string { return listHostUnitsKey }

type ListHostUnitsHandler struct {
	Units domainunits.Repository
}

func (h *ListHostUnitsHandler) Handle(ctx context.Context, q ListHostUnitsQuery) ([]dto.UnitSummary, error) {
	list, err := h.Units.ListByHost(ctx, domainunits.HostID(q.HostID))
	if err != nil {
		return nil, err
	}
	return dto.MapUnits(visible(list)), nil
}

func visible(list []*domainunits.Unit) []*domainunits.Unit {
	out := make([]*domainunits.Unit, 0, len(list))
	for _, u := range list {
		if u.Deleted {
			continue
		}
		out = append(out, u)
	}
	return out
}

var _ queries.Handler[GetUnitQuery, dto.UnitSummary] = (*GetUnitHandler)(nil)
var _ queries.Handler[ListUnitsQuery, []dto.UnitSummary] = (*ListUnitsHandler)(nil)
var _ queries.Handler[ListHostUnitsQuery, []dto.UnitSummary] = (*ListHostUnitsHandler)(nil)
