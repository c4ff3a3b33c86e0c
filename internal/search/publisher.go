package search

import (
	"context"
	"encoding/json"
	"time"

	"foodhub-be/internal/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits search events onto the search-event log.
type Publisher interface {
	SearchPerformed(ctx context.Context, term string, productID int64) error
	Close() error
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher writes search events to the given topic. With no
// brokers configured a no-op publisher is returned so local development
// does not require Kafka.
func NewKafkaPublisher(brokers []string, topic string) Publisher {
	if len(brokers) == 0 {
		logger.L().Warn("no kafka brokers configured, search events will be dropped")
		return noopPublisher{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &kafkaPublisher{writer: writer}
}

func (p *kafkaPublisher) SearchPerformed(ctx context.Context, term string, productID int64) error {
	event := Event{
		ID:         uuid.New().String(),
		Term:       term,
		ProductID:  productID,
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(term),
		Value: data,
	})
	if err != nil {
		logger.FromCtx(ctx).Error("failed to publish search event",
			zap.String("term", term),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

func (noopPublisher) SearchPerformed(ctx context.Context, term string, productID int64) error {
	return nil
}

func (noopPublisher) Close() error { return nil }
