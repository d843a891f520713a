package units

import (
	"context"
	"errors"
	"strings"
	"time"

	"stayhub/internal/domain/shared/events"
)

var (
	ErrNotFound         = errors.New("units: not found")
	ErrNameRequired     = errors.New("units: name is required")
	ErrLocationRequired = errors.New("units: location is required")
	ErrHostRequired     = errors.New("units: host is required")
	ErrGuestsRange      = errors.New("units: guest limits must satisfy 1 <= min <= max")
	ErrInvalidBasis     = errors.New("units: unknown price basis")
	ErrDeleted          = errors.New("units: unit is deleted")
)

type UnitID string
type HostID string

// PriceBasis says whether the ledger price of a day is charged per unit or
// per staying guest.
type PriceBasis string

const (
	PerUnit  PriceBasis = "PER_UNIT"
	PerGuest PriceBasis = "PER_GUEST"
)

func ParseBasis(raw string) (PriceBasis, error) {
	switch PriceBasis(strings.ToUpper(strings.TrimSpace(raw))) {
	case PerUnit:
		return PerUnit, nil
	case PerGuest:
		return PerGuest, nil
	case "":
		return PerUnit, nil
	default:
		return "", ErrInvalidBasis
	}
}

// Unit is a bookable accommodation listing. Per-day prices and bookings are
// owned collections indexed elsewhere (pricing.Ledger, availability.Calendar);
// the unit itself carries only static attributes.
type Unit struct {
	ID        UnitID
	Host      HostID
	Name      string
	Location  string
	MinGuests int
	MaxGuests int
	Tags      []string
	Basis     PriceBasis
	Photos    []string
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id UnitID) (*Unit, error)
	Save(ctx context.Context, unit *Unit) error
	List(ctx context.Context) ([]*Unit, error)
	ListByHost(ctx context.Context, host HostID) ([]*Unit, error)
}

type CreateParams struct {
	ID        UnitID
	Host      HostID
	Name      string
	Location  string
	MinGuests int
	MaxGuests int
	Tags      []string
	Basis     PriceBasis
	Now       time.Time
}

func New(params CreateParams) (*Unit, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, errors.New("units: id is required")
	}
	if strings.TrimSpace(string(params.Host)) == "" {
		return nil, ErrHostRequired
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(params.Location) == "" {
		return nil, ErrLocationRequired
	}
	if params.MinGuests < 1 || params.MinGuests > params.MaxGuests {
		return nil, ErrGuestsRange
	}
	basis := params.Basis
	if basis == "" {
		basis = PerUnit
	}
	if basis != PerUnit && basis != PerGuest {
		return nil, ErrInvalidBasis
	}
	now := params.Now.UTC()
	u := &Unit{
		ID:        params.ID,
		Host:      params.Host,
		Name:      strings.TrimSpace(params.Name),
		Location:  strings.TrimSpace(params.Location),
		MinGuests: params.MinGuests,
		MaxGuests: params.MaxGuests,
		Tags:      normalizeTags(params.Tags),
		Basis:     basis,
		CreatedAt: now,
		UpdatedAt: now,
	}
	u.Record(UnitCreatedEvent{UnitID: u.ID, HostID: u.Host, At: now})
	return u, nil
}

type UpdateParams struct {
	Name      string
	Location  string
	MinGuests int
	MaxGuests int
	Tags      []string
	Basis     PriceBasis
	Now       time.Time
}

func (u *Unit) UpdateAttributes(params UpdateParams) error {
	if u.Deleted {
		return ErrDeleted
	}
	if strings.TrimSpace(params.Name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(params.Location) == "" {
		return ErrLocationRequired
	}
	if params.MinGuests < 1 || params.MinGuests > params.MaxGuests {
		return ErrGuestsRange
	}
	basis := params.Basis
	if basis == "" {
		basis = u.Basis
	}
	if basis != PerUnit && basis != PerGuest {
		return ErrInvalidBasis
	}
	u.Name = strings.TrimSpace(params.Name)
	u.Location = strings.TrimSpace(params.Location)
	u.MinGuests = params.MinGuests
	u.MaxGuests = params.MaxGuests
	u.Tags = normalizeTags(params.Tags)
	u.Basis = basis
	u.UpdatedAt = params.Now.UTC()
	u.Record(UnitUpdatedEvent{UnitID: u.ID, At: u.UpdatedAt})
	return nil
}

// SoftDelete marks the unit removed. Bookings may still reference it, so the
// record is never physically dropped.
func (u *Unit) SoftDelete(now time.Time) {
	if u.Deleted {
		return
	}
	u.Deleted = true
	u.UpdatedAt = now.UTC()
	u.Record(UnitDeletedEvent{UnitID: u.ID, HostID: u.Host, At: u.UpdatedAt})
}

func (u *Unit) AddPhoto(url string, now time.Time) error {
	if u.Deleted {
		return ErrDeleted
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New("units: photo url is required")
	}
	u.Photos = append(u.Photos, url)
	u.UpdatedAt = now.UTC()
	u.Record(UnitUpdatedEvent{UnitID: u.ID, At: u.UpdatedAt})
	return nil
}

// FitsGuests reports whether a party of the given size is within the unit's
// configured limits.
func (u *Unit) FitsGuests(count int) bool {
	return count >= u.MinGuests && count <= u.MaxGuests
}

// HasAllTags reports whether every required tag is present on the unit,
// case-insensitively.
func (u *Unit) HasAllTags(required []string) bool {
	if len(required) == 0 {
		return true
	}
	index := make(map[string]struct{}, len(u.Tags))
	for _, tag := range u.Tags {
		index[strings.ToLower(tag)] = struct{}{}
	}
	for _, tag := range required {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := index[tag]; !ok {
			return false
		}
	}
	return true
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}
