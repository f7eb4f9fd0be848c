package events

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

// Producer is satisfied by messaging.Producer.
type Producer interface {
	Publish(ctx context.Context, key string, event any, headers ...kafka.Header) error
}

// Envelope is the message body written to the order events topic.
type Envelope struct {
	Name       string       `json:"name"`
	OrderID    string       `json:"orderId"`
	OccurredAt time.Time    `json:"occurredAt"`
	Payload    domain.Event `json:"payload"`
}

// KafkaPublisher writes order events keyed by order id so each order's history stays ordered.
type KafkaPublisher struct {
	producer Producer
}

func NewKafkaPublisher(producer Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	if p == nil || p.producer == nil {
		return errors.New("kafka event publisher not configured")
	}
	if event == nil {
		return nil
	}
	envelope := Envelope{
		Name:       event.EventName(),
		OrderID:    event.AggregateID(),
		OccurredAt: event.OccurredAt(),
		Payload:    event,
	}
	return p.producer.Publish(ctx, event.AggregateID(), envelope, kafka.Header{Key: "event-name", Value: []byte(event.EventName())})
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, domain.Event) error { return nil }

var (
	_ ports.EventPublisher = (*KafkaPublisher)(nil)
	_ ports.EventPublisher = Noop{}
)
