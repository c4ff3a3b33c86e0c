package visit

import (
	"context"
	"strconv"
	"time"

	"foodhub-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store counts storefront visitors per day. Counts feed the conversion-rate
// report as its denominator.
type Store interface {
	RecordVisit(ctx context.Context, day time.Time) error
	VisitorCount(ctx context.Context, start, end time.Time) (int64, error)
}

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

const keyFormat = "visits:2006-01-02"

// NewRedisStore keeps daily counters for about two years, long enough for
// year-over-year reporting windows.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client, ttl: 2 * 366 * 24 * time.Hour}
}

func (s *redisStore) RecordVisit(ctx context.Context, day time.Time) error {
	key := day.UTC().Format(keyFormat)

	pipe := s.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.FromCtx(ctx).Error("failed to record visit", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (s *redisStore) VisitorCount(ctx context.Context, start, end time.Time) (int64, error) {
	keys := dayKeys(start, end)
	if len(keys) == 0 {
		return 0, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		logger.FromCtx(ctx).Error("failed to read visit counters", zap.Error(err))
		return 0, err
	}

	var total int64
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			continue
		}
		total += n
	}
	return total, nil
}

func dayKeys(start, end time.Time) []string {
	start = start.UTC().Truncate(24 * time.Hour)
	end = end.UTC()

	var keys []string
	for d := start; !d.After(end); d = d.Add(24 * time.Hour) {
		keys = append(keys, d.Format(keyFormat))
	}
	return keys
}
