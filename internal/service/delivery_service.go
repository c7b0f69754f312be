package service

import (
	"context"
	"fmt"
	"sync"

	"storefront-service/internal/models"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DeliveryService holds the delivery milestone configuration for the
// session and answers quote requests. Milestones are loaded once at
// startup and treated as immutable until an explicit refresh, either
// via the admin endpoint or a DeliveryConfigUpdated event.
type DeliveryService struct {
	store  *store.Store
	logger *zap.Logger

	mu            sync.RWMutex
	milestones    []models.DeliveryMilestone
	defaultCharge decimal.Decimal
}

// NewDeliveryService creates a new delivery service with the given
// fallback charge, applied uniformly when no milestones are configured.
func NewDeliveryService(store *store.Store, defaultCharge decimal.Decimal) *DeliveryService {
	return &DeliveryService{
		store:         store,
		logger:        util.GetLogger(),
		milestones:    []models.DeliveryMilestone{},
		defaultCharge: defaultCharge,
	}
}

// LoadMilestones reloads the milestone configuration from the database
func (ds *DeliveryService) LoadMilestones(ctx context.Context) error {
	ctx, span := util.StartSpan(ctx, "DeliveryService.LoadMilestones")
	defer span.End()

	milestones, err := ds.store.GetDeliveryMilestones(ctx)
	if err != nil {
		return fmt.Errorf("failed to load delivery milestones: %w", err)
	}

	ds.mu.Lock()
	ds.milestones = milestones
	ds.mu.Unlock()

	util.DeliveryConfigRefreshesTotal.Inc()
	ds.logger.Info("Delivery milestones loaded", zap.Int("count", len(milestones)))
	return nil
}

// ApplyConfig replaces the in-memory milestone set and default charge,
// used by the config-updated event worker. An empty default charge
// keeps the current one.
func (ds *DeliveryService) ApplyConfig(milestones []models.DeliveryMilestone, defaultCharge string) {
	ds.mu.Lock()
	ds.milestones = milestones
	if defaultCharge != "" {
		ds.defaultCharge = models.ParseAmount(defaultCharge)
	}
	ds.mu.Unlock()

	util.DeliveryConfigRefreshesTotal.Inc()
	ds.logger.Info("Delivery config applied", zap.Int("count", len(milestones)))
}

// Snapshot returns the current milestone set and default charge
func (ds *DeliveryService) Snapshot() ([]models.DeliveryMilestone, decimal.Decimal) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	milestones := make([]models.DeliveryMilestone, len(ds.milestones))
	copy(milestones, ds.milestones)
	return milestones, ds.defaultCharge
}

// Quote resolves the delivery pricing decision for a subtotal
func (ds *DeliveryService) Quote(subtotal decimal.Decimal) (models.DeliverySettings, *string) {
	milestones, defaultCharge := ds.Snapshot()
	settings := ResolveDelivery(subtotal, milestones, defaultCharge)

	result := "paid"
	if settings.IsFree {
		result = "free"
	}
	util.DeliveryQuotesTotal.WithLabelValues(result).Inc()

	return settings, UpsellMessage(settings)
}
