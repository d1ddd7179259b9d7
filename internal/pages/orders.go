package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/food_storefront/internal/transport"
)

const OrderCreatedEvent = "order_created"

// OrderSubmitter hands a finished order to whatever creates it. token may be
// empty.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, token string, req transport.CreateOrderRequest) error
}

type OrderAPI interface {
	CreateOrder(ctx context.Context, token string, req transport.CreateOrderRequest) error
}

// HTTPOrderSubmitter posts the order to the REST API.
type HTTPOrderSubmitter struct {
	API OrderAPI
}

func (s HTTPOrderSubmitter) SubmitOrder(ctx context.Context, token string, req transport.CreateOrderRequest) error {
	return s.API.CreateOrder(ctx, token, req)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

// KafkaOrderSubmitter publishes the order as an order_created event keyed by
// a fresh request id. The token is not part of the event.
type KafkaOrderSubmitter struct {
	Producer EventPublisher
	Topic    string
	Now      func() time.Time
}

func (s KafkaOrderSubmitter) SubmitOrder(ctx context.Context, _ string, req transport.CreateOrderRequest) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ev := transport.OrderEvent{
		Type:        OrderCreatedEvent,
		RequestID:   uuid.NewString(),
		Order:       req,
		SubmittedAt: now().UTC(),
	}
	if err := s.Producer.PublishEvent(ctx, s.Topic, ev.RequestID, ev); err != nil {
		return fmt.Errorf("publish order: %w", err)
	}
	return nil
}
