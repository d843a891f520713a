package dto

import (
	"time"

	"stayhub/internal/domain/units"
)

type UnitSummary struct {
	ID        string    `json:"id"`
	Host      string    `json:"host"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	MinGuests int       `json:"min_guests"`
	MaxGuests int       `json:"max_guests"`
	Tags      []string  `json:"tags"`
	Basis     string    `json:"price_basis"`
	Photos    []string  `json:"photos,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func MapUnit(u *units.Unit) UnitSummary {
	if u == nil {
		return UnitSummary{}
	}
	return UnitSummary{
		ID:        string(u.ID),
		Host:      string(u.Host),
		Name:      u.Name,
		Location:  u.Location,
		MinGuests: u.MinGuests,
		MaxGuests: u.MaxGuests,
		Tags:      append([]string(nil), u.Tags...),
		Basis:     string(u.Basis),
		Photos:    append([]string(nil), u.Photos...),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func MapUnits(list []*units.Unit) []UnitSummary {
	out := make([]UnitSummary, 0, len(list))
	for _, u := range list {
		out = append(out, MapUnit(u))
	}
	return out
}

type UnitPhotoUploadResult struct {
	UnitID string   `json:"unit_id"`
	Photos []string `json:"photos"`
}
