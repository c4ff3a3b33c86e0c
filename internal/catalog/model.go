package catalog

import "time"

// Food is a single sellable catalog item. Cost is the per-unit acquisition
// cost used for gross-profit reporting and is never exposed to storefront
// responses.
type Food struct {
	ID          int64     `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Cost        float64   `json:"-"`
	Category    string    `json:"category"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListResult is a paginated page of catalog items.
type ListResult struct {
	Data        []*Food `json:"data"`
	TotalCount  int     `json:"totalCount"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
}
