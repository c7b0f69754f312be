package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrQuantityLimitExceeded is returned when an add would push a
	// line above MaxLineQuantity. The cart is left unchanged.
	ErrQuantityLimitExceeded = errors.New("quantity limit exceeded")

	// ErrNegativeQuantity is returned by SetQuantity for quantities
	// below zero.
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// Cart holds the deduplicated line items of one shopping session.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCart returns an empty cart for the given session.
func NewCart(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Items: []LineItem{}}
}

func (c *Cart) indexOf(key LineKey) int {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			return i
		}
	}
	return -1
}

// Add merges the item into the cart. Lines with the same
// (productId, variantId) identity are merged by summing quantities; a
// quantity of zero on the payload counts as one. If the merged
// quantity would exceed MaxLineQuantity the whole operation is
// rejected with ErrQuantityLimitExceeded and no state changes.
func (c *Cart) Add(item LineItem) error {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}

	if i := c.indexOf(item.Key()); i >= 0 {
		merged := c.Items[i].Quantity + qty
		if merged > MaxLineQuantity {
			return ErrQuantityLimitExceeded
		}
		c.Items[i].Quantity = merged
		c.touch()
		return nil
	}

	if qty > MaxLineQuantity {
		return ErrQuantityLimitExceeded
	}

	item.Quantity = qty
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	c.Items = append(c.Items, item)
	c.touch()
	return nil
}

// Remove decrements the matched line by one, deleting it when the
// quantity reaches zero. Removing an absent identity is a no-op so
// that stale UI events stay harmless.
func (c *Cart) Remove(key LineKey) {
	i := c.indexOf(key)
	if i < 0 {
		return
	}
	if c.Items[i].Quantity > 1 {
		c.Items[i].Quantity--
	} else {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
	c.touch()
}

// Delete removes the matched line regardless of quantity. Used for
// explicit remove-item actions as opposed to the quantity stepper.
func (c *Cart) Delete(key LineKey) {
	i := c.indexOf(key)
	if i < 0 {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.touch()
}

// SetQuantity sets an absolute quantity for the matched line,
// bypassing the increment logic. Negative quantities are rejected.
// Zero is accepted and keeps the line in place; callers reducing a
// line to zero should prefer Remove or Delete.
func (c *Cart) SetQuantity(key LineKey, quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	if quantity > MaxLineQuantity {
		return ErrQuantityLimitExceeded
	}
	i := c.indexOf(key)
	if i < 0 {
		return nil
	}
	c.Items[i].Quantity = quantity
	c.touch()
	return nil
}

// Total returns the subtotal over all lines using the snapshotted
// unit prices. A line with a malformed price contributes zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].LineTotal())
	}
	return total
}

// ItemCount returns the total number of units across all lines, used
// for badge displays.
func (c *Cart) ItemCount() int {
	count := 0
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
	c.touch()
}

func (c *Cart) touch() {
	c.UpdatedAt = time.Now()
}
