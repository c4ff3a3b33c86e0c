package order

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Order statuses follow the storefront lifecycle. New orders start in
// StatusProcessing and move forward from the admin panel.
const (
	StatusProcessing     = "Food Processing"
	StatusOutForDelivery = "Out for delivery"
	StatusDelivered      = "Delivered"
)

// OrderItem is one purchased line. UnitPrice and UnitCost are captured from
// the catalog at order time so later price changes never rewrite history.
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	UnitCost  float64 `json:"-"`
}

type Order struct {
	ID          uuid.UUID       `json:"_id"`
	UserID      string          `json:"userId"`
	Amount      float64         `json:"amount"`
	Address     json.RawMessage `json:"address"`
	Status      string          `json:"status"`
	PaymentDone bool            `json:"payment"`
	OrderDate   time.Time       `json:"date"`
	Items       []OrderItem     `json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// ItemPricing is the catalog snapshot used to price an order line.
type ItemPricing struct {
	ProductID int64
	Name      string
	Price     float64
	Cost      float64
}
