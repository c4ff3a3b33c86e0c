package search

import "time"

// Event is one recorded catalog search, attributed to a product when the
// search matched one.
type Event struct {
	ID         string    `json:"id"`
	Term       string    `json:"term"`
	ProductID  int64     `json:"product_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProductSearches is a top-searched aggregation row.
type ProductSearches struct {
	ProductID     int64
	TotalSearches int
}
