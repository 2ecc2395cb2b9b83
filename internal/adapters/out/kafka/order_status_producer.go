// Package kafka publishes integration events to Kafka.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deliverydispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const eventTypeHeader = "event-type"

// OrderStatusChangedEventType tags messages on the order-changed topic.
const OrderStatusChangedEventType = "OrderStatusChanged"

var (
	ErrEventIsRequired = errors.New("event is required")
	ErrTopicIsRequired = errors.New("topic is required")
)

// OrderStatusChangedIntegrationEvent is the message consumers of the order-changed
// topic receive.
type OrderStatusChangedIntegrationEvent struct {
	EventID     uuid.UUID `json:"eventId"`
	OrderID     uuid.UUID `json:"orderId"`
	OrderStatus string    `json:"orderStatus"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderStatusProducer implements ports.EventPublisher.
type OrderStatusProducer struct {
	writer messageWriter
}

// NewOrderStatusProducer writes to topic on brokers. Messages are keyed by order id
// so all changes of an order land on one partition in order.
func NewOrderStatusProducer(brokers []string, topic string) (*OrderStatusProducer, error) {
	if topic == "" {
		return nil, ErrTopicIsRequired
	}

	return &OrderStatusProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (p *OrderStatusProducer) Publish(ctx context.Context, event *order.CompletedDomainEvent) error {
	if event == nil {
		return ErrEventIsRequired
	}

	payload, err := json.Marshal(OrderStatusChangedIntegrationEvent{
		EventID:     event.ID,
		OrderID:     event.OrderID,
		OrderStatus: event.OrderStatus,
		OccurredAt:  event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order status changed event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: eventTypeHeader, Value: []byte(OrderStatusChangedEventType)},
		},
	})
}

func (p *OrderStatusProducer) Close() error {
	return p.writer.Close()
}
