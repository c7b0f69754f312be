package worker

import (
	"context"
	"log"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/service"
)

// ConfigWorker consumes DeliveryConfigUpdated events and applies the
// replacement milestone set to the running delivery service.
type ConfigWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewConfigWorker creates a new config worker
func NewConfigWorker(consumer *broker.Consumer, delivery *service.DeliveryService) *ConfigWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnDeliveryConfigUpdated(func(ctx context.Context, event *models.DeliveryConfigUpdatedEvent) error {
		log.Printf("Applying delivery config update: event=%s, milestones=%d",
			event.EventID, len(event.Milestones))
		delivery.ApplyConfig(event.Milestones, event.DefaultCharge)
		return nil
	})

	return &ConfigWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *ConfigWorker) Start(ctx context.Context) error {
	log.Println("Starting delivery config worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ConfigWorker) Stop() error {
	log.Println("Stopping delivery config worker...")
	return w.consumer.Close()
}
