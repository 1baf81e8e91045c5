package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/artisanmarket/storefront/internal/order"
)

// RabbitOrderEventsPublisher publishes enveloped order events to the
// storefront topic exchange. Each publish fetches the next sequence
// number for the order's user partition.
type RabbitOrderEventsPublisher struct {
	ch        *amqp.Channel
	sequences SequenceRepository
}

func NewRabbitOrderEventsPublisher(conn *amqp.Connection, sequences SequenceRepository) (*RabbitOrderEventsPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &RabbitOrderEventsPublisher{ch: ch, sequences: sequences}, nil
}

func (p *RabbitOrderEventsPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitOrderEventsPublisher) PublishOrderPlaced(ctx context.Context, o *order.Order, metadata PublishMetadata) error {
	seq, err := p.sequences.NextSequence(ctx, o.UserID)
	if err != nil {
		return fmt.Errorf("next sequence for user %s: %w", o.UserID, err)
	}

	env := BuildOrderPlacedEvent(o, EnvelopeOptions{
		PartitionKey:  o.UserID,
		Sequence:      seq,
		CorrelationID: metadata.CorrelationID,
		CausationID:   metadata.CausationID,
	})

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		OrderPlacedRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    env.EventID,
			Timestamp:    env.OccurredAt,
			Body:         body,
		},
	)
}

// NopPublisher drops events. Used when RabbitMQ is disabled and in
// tests that do not care about events.
type NopPublisher struct{}

func (NopPublisher) PublishOrderPlaced(ctx context.Context, o *order.Order, metadata PublishMetadata) error {
	return nil
}
