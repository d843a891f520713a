package dto

const (
	DayAvailable = "Available"
	DayReserved  = "Reserved"
)

// DayInfo reports one calendar day of a month view. Price is meaningful only
// when Priced is true; reservation status is independent of pricing.
type DayInfo struct {
	Date       string `json:"date"`
	PriceCents int64  `json:"price_cents"`
	Priced     bool   `json:"priced"`
	Status     string `json:"status"`
}

type MonthView struct {
	UnitID string    `json:"unit_id"`
	Year   int       `json:"year"`
	Month  int       `json:"month"`
	Days   []DayInfo `json:"days"`
}
