// Package messaging forwards order events to Kafka for downstream consumers.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"go.uber.org/zap"
)

// Message header keys
const (
	HeaderEventType     = "event_type"
	HeaderEventID       = "event_id"
	HeaderAggregateType = "aggregate_type"
	HeaderOccurredAt    = "occurred_at"
)

// ErrPublisherClosed is returned after Close
var ErrPublisherClosed = errors.New("kafka publisher is closed")

// MessageWriter is the subset of *kafka.Writer the publisher needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaOrderEventPublisher is an event handler that writes order events to a
// Kafka topic as JSON, keyed by order ID so one order's events stay ordered.
type KafkaOrderEventPublisher struct {
	writer     MessageWriter
	serializer *event.EventSerializer
	logger     *zap.Logger
	closed     atomic.Bool
}

// NewKafkaWriter builds a synchronous writer for the configured topic
func NewKafkaWriter(cfg config.KafkaConfig, logger *zap.Logger) (*kafka.Writer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}

	sugar := logger.Named("kafka").Sugar()
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			sugar.Errorf(msg, args...)
		}),
	}, nil
}

// NewKafkaOrderEventPublisher creates a new KafkaOrderEventPublisher
func NewKafkaOrderEventPublisher(writer MessageWriter, serializer *event.EventSerializer, logger *zap.Logger) *KafkaOrderEventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaOrderEventPublisher{
		writer:     writer,
		serializer: serializer,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (p *KafkaOrderEventPublisher) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderCancelled,
		order.EventTypeOrderDelivered,
		order.EventTypeOrderReturnRequested,
		order.EventTypeOrderReturned,
	}
}

// Handle forwards one event. Errors are returned so the bus logs them.
func (p *KafkaOrderEventPublisher) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}

	msg, err := p.toMessage(evt)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s to kafka: %w", evt.EventType(), err)
	}

	p.logger.Debug("event forwarded",
		zap.String("event_type", evt.EventType()),
		zap.String("aggregate_id", evt.AggregateID().String()),
	)
	return nil
}

// Close flushes pending writes and closes the writer
func (p *KafkaOrderEventPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

func (p *KafkaOrderEventPublisher) toMessage(evt shared.DomainEvent) (kafka.Message, error) {
	payload, err := p.serializer.Serialize(evt)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(evt.AggregateID().String()),
		Value: payload,
		Time:  evt.OccurredAt(),
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(evt.EventType())},
			{Key: HeaderEventID, Value: []byte(evt.EventID().String())},
			{Key: HeaderAggregateType, Value: []byte(evt.AggregateType())},
			{Key: HeaderOccurredAt, Value: []byte(evt.OccurredAt().UTC().Format(time.RFC3339Nano))},
		},
	}, nil
}
