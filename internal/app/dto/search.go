package dto

// SearchHit is one search result. TotalCents is set only when the query
// carried a date range; attribute-only searches omit the price.
type SearchHit struct {
	Unit       UnitSummary `json:"unit"`
	TotalCents *int64      `json:"total_cents,omitempty"`
	Currency   string      `json:"currency,omitempty"`
}

type SearchResult struct {
	Items []SearchHit `json:"items"`
	Total int         `json:"total"`
}
