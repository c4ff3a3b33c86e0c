package order

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlaceOrderInput is a storefront checkout request. Prices come from the
// catalog, never from the client.
type PlaceOrderInput struct {
	UserID  string          `json:"userId"`
	Address json.RawMessage `json:"address"`
	Items   []LineInput     `json:"items"`
}

type LineInput struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type Service interface {
	Place(ctx context.Context, in PlaceOrderInput) (*Order, error)
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Place(ctx context.Context, in PlaceOrderInput) (*Order, error) {
	if strings.TrimSpace(in.UserID) == "" {
		return nil, ErrMissingUser
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]int64, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity <= 0 {
			return nil, ErrEmptyOrder
		}
		ids = append(ids, line.ProductID)
	}

	pricing, err := s.repo.GetItemPricing(ctx, ids)
	if err != nil {
		return nil, err
	}

	o := &Order{
		ID:        uuid.New(),
		UserID:    in.UserID,
		Address:   in.Address,
		Status:    StatusProcessing,
		OrderDate: s.now().UTC(),
	}

	for _, line := range in.Items {
		p, ok := pricing[line.ProductID]
		if !ok {
			return nil, ErrUnknownProduct
		}
		o.Items = append(o.Items, OrderItem{
			ProductID: p.ProductID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			UnitPrice: p.Price,
			UnitCost:  p.Cost,
		})
		o.Amount += p.Price * float64(line.Quantity)
	}

	return s.repo.Create(ctx, o)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context) ([]*Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	switch status {
	case StatusProcessing, StatusOutForDelivery, StatusDelivered:
	default:
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
