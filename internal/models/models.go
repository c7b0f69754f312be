package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity is the hard per-line quantity ceiling.
const MaxLineQuantity = 12

// LineItem represents one distinct product+variant entry in a cart.
// UnitPrice is snapshotted from the catalog payload at add time and
// carried as the raw string it arrived as.
type LineItem struct {
	ProductID string    `json:"product_id"`
	VariantID string    `json:"variant_id,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	Name      string    `json:"name,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	UnitLabel string    `json:"unit_label,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// LineKey identifies a cart line. An empty VariantID is itself a
// distinct identity value: (p, "") never matches (p, "v1").
type LineKey struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
}

// Key returns the identity key of the line.
func (li *LineItem) Key() LineKey {
	return LineKey{ProductID: li.ProductID, VariantID: li.VariantID}
}

// LineTotal returns unit price times quantity. A malformed price
// contributes zero rather than failing the computation.
func (li *LineItem) LineTotal() decimal.Decimal {
	return ParseAmount(li.UnitPrice).Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// DeliveryMilestone is one configured subtotal threshold with the fee
// charged while the subtotal is at or below it.
type DeliveryMilestone struct {
	MinOrderValue  string `json:"min_order_value" db:"min_order_value"`
	DeliveryCharge string `json:"delivery_charge" db:"delivery_charge"`
	Surcharge      string `json:"surcharge,omitempty" db:"surcharge"`
}

// DeliverySettings is the resolved delivery pricing decision. It is
// derived fresh on every query and never stored.
type DeliverySettings struct {
	Charge           decimal.Decimal    `json:"charge"`
	Surcharge        decimal.Decimal    `json:"surcharge"`
	IsFree           bool               `json:"is_free"`
	NextTier         *DeliveryMilestone `json:"next_tier,omitempty"`
	AmountToNextTier decimal.Decimal    `json:"amount_to_next_tier"`
}

// ParseAmount parses a decimal money string. Malformed or empty input
// degrades to zero so that totals and tier resolution never abort on
// a bad value.
func ParseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
