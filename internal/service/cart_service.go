package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"storefront-service/internal/broker"
	"storefront-service/internal/models"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyCart is returned when checkout is attempted on a cart with
// no line items.
var ErrEmptyCart = errors.New("cart is empty")

// CartService owns the session carts. Redis holds the live snapshot
// under a fixed per-session key; Postgres receives a write-behind copy
// used to rehydrate on a Redis miss. Both writes are best-effort: a
// failed persist is logged and counted, never rolled back and never
// surfaced to the shopper.
type CartService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	delivery       *DeliveryService
	logger         *zap.Logger

	// Serializes load-mutate-persist cycles. UI events for one session
	// arrive sequentially; this keeps concurrent sessions from
	// interleaving inside a single mutation.
	mu sync.Mutex
}

// NewCartService creates a new cart service
func NewCartService(
	store *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	delivery *DeliveryService,
) *CartService {
	return &CartService{
		store:          store,
		redis:          redis,
		eventPublisher: eventPublisher,
		delivery:       delivery,
		logger:         util.GetLogger(),
	}
}

// GetCart loads the cart for a session, rehydrating from Redis first
// and the durable snapshot second. A missing or corrupt snapshot
// yields an empty cart rather than an error.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.GetCart")
	defer span.End()

	return s.load(ctx, sessionID), nil
}

// AddItem merges a line item into the session cart. A quantity that
// would push the line above models.MaxLineQuantity returns
// models.ErrQuantityLimitExceeded with the cart unchanged.
func (s *CartService) AddItem(ctx context.Context, sessionID string, item models.LineItem) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx, sessionID)
	if err := cart.Add(item); err != nil {
		util.QuantityLimitRejectionsTotal.Inc()
		return nil, err
	}

	util.CartItemsAddedTotal.Inc()
	s.persist(ctx, cart)
	return cart, nil
}

// RemoveItem decrements the matched line by one, deleting it at
// quantity one. Removing an absent line is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, key models.LineKey) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveItem")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx, sessionID)
	cart.Remove(key)

	util.CartItemsRemovedTotal.Inc()
	s.persist(ctx, cart)
	return cart, nil
}

// DeleteItem removes the matched line regardless of quantity
func (s *CartService) DeleteItem(ctx context.Context, sessionID string, key models.LineKey) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.DeleteItem")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx, sessionID)
	cart.Delete(key)

	util.CartItemsRemovedTotal.Inc()
	s.persist(ctx, cart)
	return cart, nil
}

// SetQuantity sets an absolute quantity for a line. Callers reducing
// a line to zero should prefer RemoveItem or DeleteItem; zero keeps
// the line in place.
func (s *CartService) SetQuantity(ctx context.Context, sessionID string, key models.LineKey, quantity int) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.SetQuantity")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx, sessionID)
	if err := cart.SetQuantity(key, quantity); err != nil {
		if errors.Is(err, models.ErrQuantityLimitExceeded) {
			util.QuantityLimitRejectionsTotal.Inc()
		}
		return nil, err
	}

	s.persist(ctx, cart)
	return cart, nil
}

// Clear empties the session cart and wipes its persisted state
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	ctx, span := util.StartSpan(ctx, "CartService.Clear")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.wipe(ctx, sessionID)
	util.CartsClearedTotal.Inc()

	event := &models.CartClearedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCartCleared,
			Timestamp: time.Now(),
		},
		SessionID: sessionID,
	}
	if err := s.eventPublisher.PublishCartCleared(ctx, event); err != nil {
		s.logger.Error("Failed to publish CartCleared event", zap.Error(err))
	}

	return nil
}

// CheckoutSummary is the final quote returned to the client after a
// successful checkout.
type CheckoutSummary struct {
	SessionID string                  `json:"session_id"`
	Items     []models.LineItem       `json:"items"`
	ItemCount int                     `json:"item_count"`
	Subtotal  string                  `json:"subtotal"`
	Delivery  models.DeliverySettings `json:"delivery"`
	Total     string                  `json:"total"`
}

// Checkout resolves the final delivery quote for the session cart,
// publishes a CartCheckedOut event and clears the cart. Payment and
// fulfillment happen downstream of the event.
func (s *CartService) Checkout(ctx context.Context, sessionID string) (*CheckoutSummary, error) {
	ctx, span := util.StartSpan(ctx, "CartService.Checkout")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.load(ctx, sessionID)
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := cart.Total()
	settings, _ := s.delivery.Quote(subtotal)
	total := subtotal.Add(settings.Charge).Add(settings.Surcharge)

	summary := &CheckoutSummary{
		SessionID: sessionID,
		Items:     cart.Items,
		ItemCount: cart.ItemCount(),
		Subtotal:  subtotal.String(),
		Delivery:  settings,
		Total:     total.String(),
	}

	event := &models.CartCheckedOutEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCartCheckedOut,
			Timestamp: time.Now(),
		},
		SessionID:      sessionID,
		Items:          cart.Items,
		ItemCount:      summary.ItemCount,
		Subtotal:       summary.Subtotal,
		DeliveryCharge: settings.Charge.String(),
		Surcharge:      settings.Surcharge.String(),
		Total:          summary.Total,
	}
	if err := s.eventPublisher.PublishCartCheckedOut(ctx, event); err != nil {
		s.logger.Error("Failed to publish CartCheckedOut event", zap.Error(err))
	}

	s.wipe(ctx, sessionID)
	util.CheckoutsTotal.Inc()
	s.logger.Info("Cart checked out",
		zap.String("session_id", sessionID),
		zap.String("total", summary.Total))

	return summary, nil
}

// load rehydrates the session cart: Redis first, durable snapshot
// second, empty cart last. Corrupt payloads fall through to the next
// source.
func (s *CartService) load(ctx context.Context, sessionID string) *models.Cart {
	if snapshot, err := s.redis.GetCart(ctx, sessionID); err != nil {
		s.logger.Warn("Redis cart read failed, falling back to snapshot store",
			zap.String("session_id", sessionID),
			zap.Error(err))
	} else if cart := decodeCart(sessionID, snapshot); cart != nil {
		util.CartHydrationsTotal.WithLabelValues("redis").Inc()
		return cart
	}

	if snapshot, err := s.store.GetCartSnapshot(ctx, sessionID); err != nil {
		s.logger.Warn("Snapshot store read failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
	} else if cart := decodeCart(sessionID, snapshot); cart != nil {
		util.CartHydrationsTotal.WithLabelValues("postgres").Inc()
		return cart
	}

	util.CartHydrationsTotal.WithLabelValues("empty").Inc()
	return models.NewCart(sessionID)
}

// persist writes the cart snapshot to Redis and schedules the durable
// write-behind copy. Failures never block or undo the mutation; the
// next mutation retries implicitly by rewriting the whole snapshot.
func (s *CartService) persist(ctx context.Context, cart *models.Cart) {
	snapshot, err := json.Marshal(cart)
	if err != nil {
		s.logger.Error("Failed to serialize cart",
			zap.String("session_id", cart.SessionID),
			zap.Error(err))
		return
	}

	if err := s.redis.SaveCart(ctx, cart.SessionID, snapshot); err != nil {
		util.CartPersistFailuresTotal.WithLabelValues("redis").Inc()
		s.logger.Error("Failed to persist cart to Redis",
			zap.String("session_id", cart.SessionID),
			zap.Error(err))
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.store.SaveCartSnapshot(ctx, cart.SessionID, snapshot); err != nil {
			util.CartPersistFailuresTotal.WithLabelValues("postgres").Inc()
			s.logger.Error("Failed to persist cart snapshot",
				zap.String("session_id", cart.SessionID),
				zap.Error(err))
		}
	}()
}

// wipe deletes the session's persisted cart state everywhere
func (s *CartService) wipe(ctx context.Context, sessionID string) {
	if err := s.redis.DeleteCart(ctx, sessionID); err != nil {
		util.CartPersistFailuresTotal.WithLabelValues("redis").Inc()
		s.logger.Error("Failed to delete cart from Redis",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.store.DeleteCartSnapshot(ctx, sessionID); err != nil {
			util.CartPersistFailuresTotal.WithLabelValues("postgres").Inc()
			s.logger.Error("Failed to delete cart snapshot",
				zap.String("session_id", sessionID),
				zap.Error(err))
		}
	}()
}

func decodeCart(sessionID string, snapshot []byte) *models.Cart {
	if len(snapshot) == 0 {
		return nil
	}
	var cart models.Cart
	if err := json.Unmarshal(snapshot, &cart); err != nil {
		return nil
	}
	cart.SessionID = sessionID
	if cart.Items == nil {
		cart.Items = []models.LineItem{}
	}
	return &cart
}
