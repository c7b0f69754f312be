package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"storefront-service/internal/models"

	"github.com/segmentio/kafka-go"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishCartCheckedOut publishes CartCheckedOut event
func (ep *EventPublisher) PublishCartCheckedOut(ctx context.Context, event *models.CartCheckedOutEvent) error {
	key := fmt.Sprintf("cart-%s", event.SessionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishCartCleared publishes CartCleared event
func (ep *EventPublisher) PublishCartCleared(ctx context.Context, event *models.CartClearedEvent) error {
	key := fmt.Sprintf("cart-%s", event.SessionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishDeliveryConfigUpdated publishes DeliveryConfigUpdated event
func (ep *EventPublisher) PublishDeliveryConfigUpdated(ctx context.Context, event *models.DeliveryConfigUpdatedEvent) error {
	return ep.producer.PublishEvent(ctx, "delivery-config", event)
}

// EventHandler handles incoming events
type EventHandler struct {
	onDeliveryConfigUpdated func(context.Context, *models.DeliveryConfigUpdatedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnDeliveryConfigUpdated registers a handler for DeliveryConfigUpdated events
func (eh *EventHandler) OnDeliveryConfigUpdated(handler func(context.Context, *models.DeliveryConfigUpdatedEvent) error) {
	eh.onDeliveryConfigUpdated = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeDeliveryConfigUpdated:
		if eh.onDeliveryConfigUpdated != nil {
			var event models.DeliveryConfigUpdatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal DeliveryConfigUpdated event: %w", err)
			}
			return eh.onDeliveryConfigUpdated(ctx, &event)
		}

	default:
		log.Printf("Unhandled event type: %s", baseEvent.EventType)
	}

	return nil
}
