package service

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"storefront-service/internal/models"
)

// Milestones model "pay this charge while your subtotal is at or
// below this ceiling": the resolver scans the ascending list and the
// first milestone whose minOrderValue >= subtotal wins. A subtotal
// exactly on a threshold is still charged at that tier. A subtotal
// above every milestone has cleared all paid tiers and ships free.

var oneRupee = decimal.NewFromInt(1)

// ResolveDelivery maps a cart subtotal and the configured milestone
// list to a delivery pricing decision. It is a pure function of its
// inputs and always returns a result for any subtotal >= 0; malformed
// milestone values degrade to zero.
func ResolveDelivery(subtotal decimal.Decimal, milestones []models.DeliveryMilestone, defaultCharge decimal.Decimal) models.DeliverySettings {
	if len(milestones) == 0 {
		return models.DeliverySettings{
			Charge:           defaultCharge,
			Surcharge:        decimal.Zero,
			IsFree:           defaultCharge.IsZero(),
			AmountToNextTier: decimal.Zero,
		}
	}

	sorted := make([]models.DeliveryMilestone, len(milestones))
	copy(sorted, milestones)
	sort.SliceStable(sorted, func(i, j int) bool {
		return models.ParseAmount(sorted[i].MinOrderValue).LessThan(models.ParseAmount(sorted[j].MinOrderValue))
	})

	for i := range sorted {
		minOrderValue := models.ParseAmount(sorted[i].MinOrderValue)
		if minOrderValue.GreaterThanOrEqual(subtotal) {
			tier := sorted[i]
			charge := models.ParseAmount(tier.DeliveryCharge)
			// Floor the shortfall at 1 so the UI never nudges with
			// "add ₹0 more" when the subtotal sits exactly on the
			// threshold.
			shortfall := decimal.Max(minOrderValue.Sub(subtotal), oneRupee)
			return models.DeliverySettings{
				Charge:           charge,
				Surcharge:        models.ParseAmount(tier.Surcharge),
				IsFree:           charge.IsZero(),
				NextTier:         &tier,
				AmountToNextTier: shortfall,
			}
		}
	}

	// Subtotal exceeds every milestone: all paid tiers cleared.
	return models.DeliverySettings{
		Charge:           decimal.Zero,
		Surcharge:        decimal.Zero,
		IsFree:           true,
		AmountToNextTier: decimal.Zero,
	}
}

// UpsellMessage formats the shortfall nudge for a resolved decision,
// rounding the amount up to the next whole currency unit. Returns nil
// when delivery is already free, or when no tier exists to nudge
// toward (flat default charge with no free threshold).
func UpsellMessage(settings models.DeliverySettings) *string {
	if settings.IsFree || settings.NextTier == nil {
		return nil
	}
	msg := fmt.Sprintf("Add items worth ₹%s to avoid delivery charge!", settings.AmountToNextTier.Ceil().String())
	return &msg
}
