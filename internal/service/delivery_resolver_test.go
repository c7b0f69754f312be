package service

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func milestone(minOrderValue, charge string) models.DeliveryMilestone {
	return models.DeliveryMilestone{MinOrderValue: minOrderValue, DeliveryCharge: charge}
}

func TestResolveEmptyMilestonesUsesDefaultCharge(t *testing.T) {
	settings := ResolveDelivery(amount("500"), nil, amount("30"))

	assert.Equal(t, "30", settings.Charge.String())
	assert.False(t, settings.IsFree)
	assert.Nil(t, settings.NextTier)
	assert.True(t, settings.AmountToNextTier.IsZero())
}

func TestResolveEmptyMilestonesZeroDefaultIsFree(t *testing.T) {
	settings := ResolveDelivery(amount("500"), nil, decimal.Zero)

	assert.True(t, settings.IsFree)
	assert.True(t, settings.Charge.IsZero())
}

func TestResolveBoundaryIsInclusiveOnPaySide(t *testing.T) {
	milestones := []models.DeliveryMilestone{milestone("199", "20")}

	// A subtotal exactly on the threshold still pays that tier.
	settings := ResolveDelivery(amount("199"), milestones, amount("30"))
	assert.Equal(t, "20", settings.Charge.String())
	assert.False(t, settings.IsFree)

	// One paisa above clears it.
	settings = ResolveDelivery(amount("199.01"), milestones, amount("30"))
	assert.True(t, settings.IsFree)
	assert.True(t, settings.Charge.IsZero())
	assert.Nil(t, settings.NextTier)
}

func TestResolveFreeDeliveryUnlock(t *testing.T) {
	milestones := []models.DeliveryMilestone{
		milestone("100", "40"),
		milestone("300", "20"),
	}

	settings := ResolveDelivery(amount("301"), milestones, amount("30"))

	assert.True(t, settings.IsFree)
	assert.True(t, settings.Charge.IsZero())
	assert.Nil(t, settings.NextTier)
	assert.True(t, settings.AmountToNextTier.IsZero())
}

func TestResolveMidTierMatchesFirstQualifying(t *testing.T) {
	milestones := []models.DeliveryMilestone{
		milestone("100", "40"),
		milestone("300", "20"),
	}

	settings := ResolveDelivery(amount("150"), milestones, amount("30"))

	assert.Equal(t, "20", settings.Charge.String())
	assert.False(t, settings.IsFree)
	require.NotNil(t, settings.NextTier)
	assert.Equal(t, "300", settings.NextTier.MinOrderValue)
	assert.Equal(t, "150", settings.AmountToNextTier.String())
}

func TestResolveLowestTier(t *testing.T) {
	milestones := []models.DeliveryMilestone{
		milestone("100", "40"),
		milestone("300", "20"),
	}

	settings := ResolveDelivery(amount("50"), milestones, amount("30"))

	assert.Equal(t, "40", settings.Charge.String())
	assert.Equal(t, "50", settings.AmountToNextTier.String())
}

func TestResolveShortfallFlooredAtOne(t *testing.T) {
	milestones := []models.DeliveryMilestone{milestone("100", "40")}

	// Subtotal exactly on the threshold: never nudge with zero.
	settings := ResolveDelivery(amount("100"), milestones, amount("30"))

	assert.Equal(t, "1", settings.AmountToNextTier.String())
}

func TestResolveSortsUnorderedMilestones(t *testing.T) {
	milestones := []models.DeliveryMilestone{
		milestone("300", "20"),
		milestone("100", "40"),
	}

	settings := ResolveDelivery(amount("50"), milestones, amount("30"))

	assert.Equal(t, "40", settings.Charge.String())
}

func TestResolveZeroChargeTierIsFree(t *testing.T) {
	milestones := []models.DeliveryMilestone{
		milestone("100", "40"),
		milestone("300", "0"),
	}

	settings := ResolveDelivery(amount("200"), milestones, amount("30"))

	assert.True(t, settings.IsFree)
	assert.True(t, settings.Charge.IsZero())
	require.NotNil(t, settings.NextTier)
}

func TestResolveSurcharge(t *testing.T) {
	milestones := []models.DeliveryMilestone{
		{MinOrderValue: "100", DeliveryCharge: "40", Surcharge: "5"},
	}

	settings := ResolveDelivery(amount("50"), milestones, amount("30"))

	assert.Equal(t, "5", settings.Surcharge.String())
}

func TestResolveMalformedValuesDegradeToZero(t *testing.T) {
	milestones := []models.DeliveryMilestone{
		{MinOrderValue: "100", DeliveryCharge: "garbage", Surcharge: "NaN"},
	}

	settings := ResolveDelivery(amount("50"), milestones, amount("30"))

	assert.True(t, settings.Charge.IsZero())
	assert.True(t, settings.Surcharge.IsZero())
	assert.True(t, settings.IsFree)
}

func TestResolveChargeNonIncreasingForWellFormedConfig(t *testing.T) {
	milestones := []models.DeliveryMilestone{
		milestone("100", "50"),
		milestone("200", "30"),
		milestone("400", "10"),
	}

	prev := decimal.NewFromInt(1 << 30)
	for _, subtotal := range []string{"0", "50", "100", "150", "200", "250", "399", "400", "401", "1000"} {
		settings := ResolveDelivery(amount(subtotal), milestones, amount("30"))
		assert.True(t, settings.Charge.LessThanOrEqual(prev),
			"charge increased at subtotal %s", subtotal)
		prev = settings.Charge
	}
}

func TestUpsellMessage(t *testing.T) {
	milestones := []models.DeliveryMilestone{milestone("300", "20")}

	settings := ResolveDelivery(amount("150.50"), milestones, amount("30"))
	msg := UpsellMessage(settings)

	require.NotNil(t, msg)
	// 149.50 shortfall rendered as a whole rupee ceiling.
	assert.Equal(t, "Add items worth ₹150 to avoid delivery charge!", *msg)
}

func TestUpsellMessageNilWithoutTiers(t *testing.T) {
	settings := ResolveDelivery(amount("50"), nil, amount("30"))

	// Paid, but there is no threshold to nudge toward.
	assert.Nil(t, UpsellMessage(settings))
}

func TestUpsellMessageNilWhenFree(t *testing.T) {
	milestones := []models.DeliveryMilestone{milestone("100", "40")}

	settings := ResolveDelivery(amount("500"), milestones, amount("30"))

	assert.Nil(t, UpsellMessage(settings))
}
