package payment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"foodhub-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PendingStore parks checkout context between initiate and complete. Entries
// expire on their own, an abandoned checkout needs no cleanup.
type PendingStore interface {
	Put(ctx context.Context, pidx string, checkout *PendingCheckout) error
	Get(ctx context.Context, pidx string) (*PendingCheckout, error)
	Delete(ctx context.Context, pidx string) error
}

const pendingTTL = time.Hour

type redisPendingStore struct {
	client *redis.Client
}

func NewRedisPendingStore(client *redis.Client) PendingStore {
	return &redisPendingStore{client: client}
}

func pendingKey(pidx string) string {
	return "pending:" + pidx
}

func (s *redisPendingStore) Put(ctx context.Context, pidx string, checkout *PendingCheckout) error {
	data, err := json.Marshal(checkout)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, pendingKey(pidx), data, pendingTTL).Err(); err != nil {
		logger.FromCtx(ctx).Error("failed to park pending checkout", zap.String("pidx", pidx), zap.Error(err))
		return err
	}
	return nil
}

func (s *redisPendingStore) Get(ctx context.Context, pidx string) (*PendingCheckout, error) {
	data, err := s.client.Get(ctx, pendingKey(pidx)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPendingNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to load pending checkout", zap.String("pidx", pidx), zap.Error(err))
		return nil, err
	}

	var checkout PendingCheckout
	if err := json.Unmarshal(data, &checkout); err != nil {
		return nil, err
	}
	return &checkout, nil
}

func (s *redisPendingStore) Delete(ctx context.Context, pidx string) error {
	return s.client.Del(ctx, pendingKey(pidx)).Err()
}
