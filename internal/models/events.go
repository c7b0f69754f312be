package models

import "time"

// Event types
const (
	EventTypeCartCheckedOut        = "CART_CHECKED_OUT"
	EventTypeCartCleared           = "CART_CLEARED"
	EventTypeDeliveryConfigUpdated = "DELIVERY_CONFIG_UPDATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// CartCheckedOutEvent published when a session checks out
type CartCheckedOutEvent struct {
	BaseEvent
	SessionID      string     `json:"session_id"`
	Items          []LineItem `json:"items"`
	ItemCount      int        `json:"item_count"`
	Subtotal       string     `json:"subtotal"`
	DeliveryCharge string     `json:"delivery_charge"`
	Surcharge      string     `json:"surcharge,omitempty"`
	Total          string     `json:"total"`
}

// CartClearedEvent published when a cart is explicitly emptied
type CartClearedEvent struct {
	BaseEvent
	SessionID string `json:"session_id"`
}

// DeliveryConfigUpdatedEvent carries a replacement milestone set for
// the delivery tier resolver
type DeliveryConfigUpdatedEvent struct {
	BaseEvent
	Milestones    []DeliveryMilestone `json:"milestones"`
	DefaultCharge string              `json:"default_charge"`
}
