// Package kafka publishes order events to a Kafka topic, keyed by order id.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-orders/internal/domain"
	"storefront-orders/internal/infra"
	"storefront-orders/internal/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher struct {
	writer MessageWriter
}

var (
	_ infra.EventPublisher = (*Publisher)(nil)
	_ MessageWriter        = (*kafka.Writer)(nil)
)

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

func NewPublisher(w MessageWriter) *Publisher {
	return &Publisher{writer: w}
}

func (p *Publisher) Publish(ctx context.Context, pattern string, data any) error {
	env := domain.EventEnvelope{Pattern: pattern, Data: data, ID: uuid.NewString()}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	key := pattern
	if k, ok := data.(interface{ OrderKey() string }); ok {
		key = k.OrderKey()
	}

	logger.FromCtx(ctx).Debug("publishing message",
		zap.String("pattern", pattern),
		zap.String("key", key),
		zap.String("messageId", env.ID),
	)

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "pattern", Value: []byte(pattern)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
