package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"foodhub-be/internal/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Consumer drains the search-event topic into the search_events table, the
// backing store for top-searched-products reports.
type Consumer struct {
	reader   *kafka.Reader
	repo     Repository
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewConsumer(brokers []string, topic string, repo Repository) *Consumer {
	c := &Consumer{
		repo: repo,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if len(brokers) == 0 {
		return c
	}

	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: "foodhub-search-log",
	})
	return c
}

func (c *Consumer) Start(ctx context.Context) error {
	defer close(c.done)

	if c.reader == nil {
		select {
		case <-ctx.Done():
		case <-c.stop:
		}
		return nil
	}

	log := logger.L().With(zap.String("component", "search-consumer"))
	log.Info("search event consumer started")

	for {
		// Closing the reader from Stop surfaces here as io.EOF.
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			log.Error("failed to read search event", zap.Error(err))
			return err
		}

		if err := c.handle(ctx, msg.Value); err != nil {
			// Skip poison messages, keep the log moving.
			log.Error("failed to persist search event", zap.Error(err))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, value []byte) error {
	var event Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	return c.repo.Insert(ctx, &event)
}

// Stop is safe to call from any goroutine, any number of times, and
// blocks until Start has returned.
func (c *Consumer) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
		if c.reader != nil {
			_ = c.reader.Close()
		}
	})
	<-c.done
}
