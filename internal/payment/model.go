package payment

import (
	"encoding/json"
	"time"
)

// Supported payment gateways. Cash-on-delivery orders are recorded under
// GatewayDelivery without any external verification.
const (
	GatewayKhalti   = "khalti"
	GatewayEsewa    = "esewa"
	GatewayDelivery = "Delivery"
)

const (
	StatusSuccess = "success"
	StatusPending = "pending"
	StatusFailed  = "failed"
)

// Record is one persisted payment. Pidx is unique, a gateway transaction can
// only ever be recorded once.
type Record struct {
	ID               int64           `json:"id"`
	CustomerInfo     json.RawMessage `json:"customerInfo"`
	ShippingAddress  json.RawMessage `json:"shippingAddress"`
	PurchasedItem    string          `json:"purchasedItem"`
	TransactionID    string          `json:"transactionId"`
	Pidx             string          `json:"pidx"`
	ProductID        string          `json:"productId"`
	Amount           float64         `json:"amount"`
	VerificationData json.RawMessage `json:"dataFromVerificationReq,omitempty"`
	APIQuery         json.RawMessage `json:"apiQueryFromUser,omitempty"`
	Gateway          string          `json:"paymentGateway"`
	Status           string          `json:"status"`
	PaymentDate      time.Time       `json:"paymentDate"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// PendingCheckout is the checkout context parked between initiate and
// complete, keyed by pidx.
type PendingCheckout struct {
	OrderID         string          `json:"orderId"`
	CustomerInfo    json.RawMessage `json:"customerInfo"`
	ShippingAddress json.RawMessage `json:"shippingAddress"`
	PurchasedItem   string          `json:"purchasedItem"`
	Amount          float64         `json:"amount"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// InitiateResponse mirrors the gateway's initiate reply. Raw carries the
// untouched gateway body back to the storefront.
type InitiateResponse struct {
	Pidx       string          `json:"pidx"`
	PaymentURL string          `json:"payment_url"`
	Raw        json.RawMessage `json:"-"`
}

// VerificationResult is the gateway's view of a transaction after lookup.
type VerificationResult struct {
	Status        string          `json:"status"`
	TransactionID string          `json:"transaction_id"`
	TotalAmount   float64         `json:"total_amount"`
	Raw           json.RawMessage `json:"-"`
}

// CompleteParams are the callback query parameters the gateway redirects
// back with after the customer pays.
type CompleteParams struct {
	Pidx              string
	TransactionID     string
	Amount            float64
	PurchaseOrderID   string
	PurchaseOrderName string
	RawQuery          json.RawMessage
}
