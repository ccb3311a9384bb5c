// Package events publishes reservation lifecycle events for the notifier.
package events

import (
	"context"
	"fmt"
	"time"

	"gite/pkg/kafka"
	"gite/pkg/middleware"
	"gite/pkg/model"
)

const (
	TypeReservationCreated       = "reservation.created"
	TypeReservationStatusChanged = "reservation.status_changed"
	TypeReservationReplaced      = "reservation.replaced"

	SchemaVersion = "1"
)

type ReservationEvent struct {
	Type           string             `json:"type"`
	ReservationID  string             `json:"reservation_id"`
	Status         string             `json:"status"`
	PreviousStatus string             `json:"previous_status,omitempty"`
	Reservation    *model.Reservation `json:"reservation,omitempty"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event ReservationEvent) error
	Close() error
}

type producer interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	producer producer
	source   string
}

func NewKafkaPublisher(p *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, source: source}
}

// Publish keys messages by reservation id so one stay's events keep their order.
func (p *KafkaPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	msg, err := kafka.NewMessage().
		WithKey(event.ReservationID).
		WithValue(event).
		WithEventType(event.Type).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(correlationID(ctx)).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build %s event: %w", event.Type, err)
	}
	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ReservationEvent) error { return nil }

func (NopPublisher) Close() error { return nil }

type correlationKey struct{}

// WithCorrelationID attaches the id carried on published events. Without
// one, events carry the HTTP request id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func correlationID(ctx context.Context) string {
	if id, _ := ctx.Value(correlationKey{}).(string); id != "" {
		return id
	}
	return middleware.RequestIDFromContext(ctx)
}

// Decode reads a ReservationEvent from a consumed message.
func Decode(msg kafka.Message) (ReservationEvent, error) {
	var event ReservationEvent
	if err := msg.DecodeValue(&event); err != nil {
		return ReservationEvent{}, kafka.NewPermanentError("invalid reservation event payload", err)
	}
	if event.Type == "" {
		event.Type = msg.GetEventType()
	}
	return event, nil
}
