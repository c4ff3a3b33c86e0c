package payment

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"foodhub-be/internal/logger"
	"foodhub-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderMarker flips an order to paid once its payment verifies.
type OrderMarker interface {
	MarkPaid(ctx context.Context, id uuid.UUID) error
}

// InitiateInput wraps the raw gateway payload with the checkout context to
// park until the gateway calls back.
type InitiateInput struct {
	OrderID         string          `json:"orderId"`
	CustomerInfo    json.RawMessage `json:"customerInfo"`
	ShippingAddress json.RawMessage `json:"shippingAddress"`
	PurchasedItem   string          `json:"purchasedItem"`
	Amount          float64         `json:"amount"`
	GatewayPayload  json.RawMessage `json:"gatewayPayload"`
}

// ManualOrderInput records a cash-on-delivery order, no gateway involved.
type ManualOrderInput struct {
	OrderID         string          `json:"orderId"`
	CustomerInfo    json.RawMessage `json:"customerInfo"`
	ShippingAddress json.RawMessage `json:"shippingAddress"`
	PurchasedItem   string          `json:"purchasedItem"`
	Amount          float64         `json:"amount"`
}

type Service interface {
	Initiate(ctx context.Context, in InitiateInput) (*InitiateResponse, error)
	Complete(ctx context.Context, params CompleteParams) (*Record, error)
	RecordManualOrder(ctx context.Context, in ManualOrderInput) (*Record, error)
	List(ctx context.Context) ([]*Record, error)
}

type service struct {
	gateway Gateway
	pending PendingStore
	repo    Repository
	orders  OrderMarker
	now     func() time.Time
}

func NewService(gateway Gateway, pending PendingStore, repo Repository, orders OrderMarker) Service {
	return &service{
		gateway: gateway,
		pending: pending,
		repo:    repo,
		orders:  orders,
		now:     time.Now,
	}
}

// Initiate forwards the checkout to the gateway and parks the checkout
// context under the returned pidx.
func (s *service) Initiate(ctx context.Context, in InitiateInput) (*InitiateResponse, error) {
	resp, err := s.gateway.Initiate(ctx, in.GatewayPayload)
	if err != nil {
		return nil, err
	}

	checkout := &PendingCheckout{
		OrderID:         in.OrderID,
		CustomerInfo:    in.CustomerInfo,
		ShippingAddress: in.ShippingAddress,
		PurchasedItem:   in.PurchasedItem,
		Amount:          in.Amount,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.pending.Put(ctx, resp.Pidx, checkout); err != nil {
		return nil, err
	}

	return resp, nil
}

// Complete verifies the callback against the gateway's own lookup before
// recording anything. The transaction must be reported Completed, under the
// same transaction id, for the same amount. A failed verification persists
// nothing.
func (s *service) Complete(ctx context.Context, params CompleteParams) (*Record, error) {
	log := logger.FromCtx(ctx).With(zap.String("pidx", params.Pidx))

	result, err := s.gateway.Lookup(ctx, params.Pidx)
	if err != nil {
		return nil, err
	}

	if reason, ok := verify(result, params); !ok {
		log.Warn("payment verification rejected", zap.String("reason", reason))
		return nil, &VerificationError{Reason: reason, Payload: result.Raw}
	}

	checkout, err := s.pending.Get(ctx, params.Pidx)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		CustomerInfo:     checkout.CustomerInfo,
		ShippingAddress:  checkout.ShippingAddress,
		PurchasedItem:    checkout.PurchasedItem,
		TransactionID:    result.TransactionID,
		Pidx:             params.Pidx,
		ProductID:        checkout.OrderID,
		Amount:           params.Amount,
		VerificationData: result.Raw,
		APIQuery:         params.RawQuery,
		Gateway:          GatewayKhalti,
		Status:           StatusSuccess,
		PaymentDate:      s.now().UTC(),
	}

	saved, err := s.repo.Save(ctx, rec)
	if err != nil {
		return nil, err
	}

	if orderID, parseErr := uuid.Parse(checkout.OrderID); parseErr == nil {
		if err := s.orders.MarkPaid(ctx, orderID); err != nil {
			log.Error("verified payment saved but order not marked paid",
				zap.String("orderId", checkout.OrderID), zap.Error(err))
		}
	}

	if err := s.pending.Delete(ctx, params.Pidx); err != nil {
		log.Warn("failed to clear pending checkout", zap.Error(err))
	}

	return saved, nil
}

func verify(result *VerificationResult, params CompleteParams) (string, bool) {
	if result.Status != "Completed" {
		return "transaction status is " + result.Status, false
	}
	if result.TransactionID != params.TransactionID {
		return "transaction id does not match", false
	}
	if math.Abs(result.TotalAmount-params.Amount) > 1e-9 {
		return "amount does not match", false
	}
	return "", true
}

// RecordManualOrder saves a cash-on-delivery order as a pending payment with
// a generated tracking reference standing in for the gateway pidx.
func (s *service) RecordManualOrder(ctx context.Context, in ManualOrderInput) (*Record, error) {
	rec := &Record{
		CustomerInfo:    in.CustomerInfo,
		ShippingAddress: in.ShippingAddress,
		PurchasedItem:   in.PurchasedItem,
		Pidx:            utils.GenerateTrackingRef(),
		ProductID:       in.OrderID,
		Amount:          in.Amount,
		Gateway:         GatewayDelivery,
		Status:          StatusPending,
		PaymentDate:     s.now().UTC(),
	}
	return s.repo.Save(ctx, rec)
}

func (s *service) List(ctx context.Context) ([]*Record, error) {
	return s.repo.List(ctx)
}
