package service

import (
	"testing"

	"storefront-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryServiceApplyConfig(t *testing.T) {
	ds := NewDeliveryService(nil, decimal.NewFromInt(30))

	settings, msg := ds.Quote(decimal.NewFromInt(500))
	assert.Equal(t, "30", settings.Charge.String())
	assert.Nil(t, msg, "flat default charge has no tier to upsell toward")

	ds.ApplyConfig([]models.DeliveryMilestone{
		{MinOrderValue: "100", DeliveryCharge: "40"},
		{MinOrderValue: "300", DeliveryCharge: "20"},
	}, "")

	settings, msg = ds.Quote(decimal.NewFromInt(150))
	assert.Equal(t, "20", settings.Charge.String())
	require.NotNil(t, msg)
	assert.Equal(t, "Add items worth ₹150 to avoid delivery charge!", *msg)

	settings, msg = ds.Quote(decimal.NewFromInt(301))
	assert.True(t, settings.IsFree)
	assert.Nil(t, msg)
}

func TestDeliveryServiceApplyConfigReplacesDefaultCharge(t *testing.T) {
	ds := NewDeliveryService(nil, decimal.NewFromInt(30))

	ds.ApplyConfig(nil, "45")

	settings, _ := ds.Quote(decimal.NewFromInt(10))
	assert.Equal(t, "45", settings.Charge.String())
}

func TestDeliveryServiceSnapshotIsCopy(t *testing.T) {
	ds := NewDeliveryService(nil, decimal.NewFromInt(30))
	ds.ApplyConfig([]models.DeliveryMilestone{
		{MinOrderValue: "100", DeliveryCharge: "40"},
	}, "")

	milestones, defaultCharge := ds.Snapshot()
	require.Len(t, milestones, 1)
	assert.Equal(t, "30", defaultCharge.String())

	milestones[0].DeliveryCharge = "999"

	settings, _ := ds.Quote(decimal.NewFromInt(50))
	assert.Equal(t, "40", settings.Charge.String())
}
