package events

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/artisanmarket/storefront/internal/order"
)

func sampleOrder(now time.Time) *order.Order {
	return &order.Order{
		ID:          "a9c9bf1d-32f2-46a0-9243-97c2cf8a6c4a",
		OrderNumber: "ORD-20260101-4F7A2B1C",
		UserID:      "1d439ea2-c678-4f2a-9ca9-d8a9755a6a5d",
		Items: []order.Item{
			{ProductID: "15b50d93-e94b-4e2b-aba8-9ed785a7cdf6", Name: "Stoneware Mug", Quantity: 2, Price: decimal.RequireFromString("24.00")},
		},
		Subtotal:  decimal.RequireFromString("48.00"),
		Shipping:  decimal.RequireFromString("5.99"),
		Tax:       decimal.RequireFromString("3.84"),
		Total:     decimal.RequireFromString("57.83"),
		CreatedAt: now,
	}
}

func TestBuildOrderPlacedEvent(t *testing.T) {
	now := time.Date(2026, time.January, 1, 10, 0, 0, 0, time.UTC)
	o := sampleOrder(now)

	env := BuildOrderPlacedEvent(o, EnvelopeOptions{
		PartitionKey:  o.UserID,
		Sequence:      42,
		Producer:      StorefrontProducer,
		SchemaPath:    OrderPlacedEnvelopedSchemaPath,
		CorrelationID: "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		CausationID:   "63b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		EventID:       "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		OccurredAt:    now,
	})

	if env.EventName != OrderPlacedEventName {
		t.Fatalf("unexpected event name %s", env.EventName)
	}
	if env.EventVersion != OrderPlacedEventVersion {
		t.Fatalf("unexpected event version %d", env.EventVersion)
	}
	if env.EventID != "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7" {
		t.Fatalf("expected provided event id to be used, got %s", env.EventID)
	}
	if env.PartitionKey != o.UserID {
		t.Fatalf("expected partition key %s, got %s", o.UserID, env.PartitionKey)
	}
	if env.Sequence != 42 {
		t.Fatalf("expected sequence to be 42, got %d", env.Sequence)
	}
	if env.CorrelationID != "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7" {
		t.Fatalf("unexpected correlation id %s", env.CorrelationID)
	}
	if env.CausationID != "63b0fd3e-8d6b-49af-8c1f-12cf4182c2f7" {
		t.Fatalf("unexpected causation id %s", env.CausationID)
	}
	if env.Schema != OrderPlacedEnvelopedSchemaPath {
		t.Fatalf("unexpected schema path %s", env.Schema)
	}
	if !env.Payload.PlacedAt.Equal(now) {
		t.Fatalf("expected payload placedAt to mirror order creation, got %s", env.Payload.PlacedAt)
	}
	if env.Payload.OrderNumber != o.OrderNumber {
		t.Fatalf("unexpected order number %s", env.Payload.OrderNumber)
	}
	if len(env.Payload.Items) != 1 || env.Payload.Items[0].ProductID != o.Items[0].ProductID {
		t.Fatalf("payload items not copied correctly: %+v", env.Payload.Items)
	}
	if !env.Payload.Total.Equal(o.Total) {
		t.Fatalf("expected payload total %s, got %s", o.Total, env.Payload.Total)
	}
}

func TestBuildOrderPlacedEventDefaults(t *testing.T) {
	o := sampleOrder(time.Now().UTC())

	env := BuildOrderPlacedEvent(o, EnvelopeOptions{PartitionKey: o.UserID, Sequence: 1})

	if env.EventID == "" {
		t.Fatalf("expected generated event id")
	}
	if env.OccurredAt.IsZero() {
		t.Fatalf("expected occurredAt to default to now")
	}
	if env.Producer != StorefrontProducer {
		t.Fatalf("expected default producer, got %s", env.Producer)
	}
	if env.Schema != OrderPlacedEnvelopedSchemaPath {
		t.Fatalf("expected default schema path, got %s", env.Schema)
	}
}

func TestEnvelopeValidate(t *testing.T) {
	build := func() EventEnvelope[OrderPlacedPayload] {
		o := sampleOrder(time.Now().UTC())
		return BuildOrderPlacedEvent(o, EnvelopeOptions{PartitionKey: o.UserID, Sequence: 1})
	}

	if err := build().Validate(OrderPlacedEventName, OrderPlacedEventVersion); err != nil {
		t.Fatalf("expected envelope to be valid, got %v", err)
	}

	t.Run("event name mismatch", func(t *testing.T) {
		env := build()
		env.EventName = "WrongEvent"
		if err := env.Validate(OrderPlacedEventName, OrderPlacedEventVersion); err == nil {
			t.Fatalf("expected validation failure")
		}
	})

	t.Run("version mismatch", func(t *testing.T) {
		env := build()
		env.EventVersion = 2
		if err := env.Validate(OrderPlacedEventName, OrderPlacedEventVersion); err == nil {
			t.Fatalf("expected validation failure")
		}
	})

	t.Run("missing partition key", func(t *testing.T) {
		env := build()
		env.PartitionKey = ""
		if err := env.Validate(OrderPlacedEventName, OrderPlacedEventVersion); err == nil {
			t.Fatalf("expected validation failure")
		}
	})
}
