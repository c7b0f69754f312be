package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(productID, variantID string, qty int, price string) LineItem {
	return LineItem{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  qty,
		UnitPrice: price,
	}
}

func TestAddMergesSameIdentity(t *testing.T) {
	cart := NewCart("s1")

	require.NoError(t, cart.Add(line("p1", "v1", 2, "50")))
	require.NoError(t, cart.Add(line("p1", "v1", 3, "50")))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	cart := NewCart("s1")

	require.NoError(t, cart.Add(line("p1", "", 0, "50")))

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestAddVariantsAreDistinctLines(t *testing.T) {
	cart := NewCart("s1")

	require.NoError(t, cart.Add(line("p1", "", 1, "50")))
	require.NoError(t, cart.Add(line("p1", "v1", 1, "50")))
	require.NoError(t, cart.Add(line("p1", "v2", 1, "50")))

	// (p1, "") is its own identity, never merged with (p1, "v1").
	assert.Len(t, cart.Items, 3)
}

func TestAddRejectsAboveCeiling(t *testing.T) {
	cart := NewCart("s1")

	require.NoError(t, cart.Add(line("p1", "v1", 10, "50")))

	err := cart.Add(line("p1", "v1", 3, "50"))
	assert.ErrorIs(t, err, ErrQuantityLimitExceeded)

	// Rejection leaves prior state untouched.
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 10, cart.Items[0].Quantity)
}

func TestAddRejectsNewLineAboveCeiling(t *testing.T) {
	cart := NewCart("s1")

	err := cart.Add(line("p1", "v1", 13, "50"))
	assert.ErrorIs(t, err, ErrQuantityLimitExceeded)
	assert.Empty(t, cart.Items)
}

func TestAddAllowsExactCeiling(t *testing.T) {
	cart := NewCart("s1")

	require.NoError(t, cart.Add(line("p1", "v1", MaxLineQuantity, "50")))
	assert.Equal(t, MaxLineQuantity, cart.Items[0].Quantity)
}

func TestRemoveDecrementsThenDeletes(t *testing.T) {
	cart := NewCart("s1")
	require.NoError(t, cart.Add(line("p1", "v1", 3, "50")))

	key := LineKey{ProductID: "p1", VariantID: "v1"}

	cart.Remove(key)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	cart.Remove(key)
	cart.Remove(key)
	assert.Empty(t, cart.Items)
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	cart := NewCart("s1")
	require.NoError(t, cart.Add(line("p1", "v1", 1, "50")))

	cart.Remove(LineKey{ProductID: "p2"})
	assert.Len(t, cart.Items, 1)
}

func TestRemoveMatchesFullIdentityKey(t *testing.T) {
	cart := NewCart("s1")
	require.NoError(t, cart.Add(line("p1", "v1", 2, "50")))
	require.NoError(t, cart.Add(line("p1", "v2", 2, "70")))

	cart.Remove(LineKey{ProductID: "p1", VariantID: "v2"})

	require.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 1, cart.Items[1].Quantity)
}

func TestDeleteDropsLineRegardlessOfQuantity(t *testing.T) {
	cart := NewCart("s1")
	require.NoError(t, cart.Add(line("p1", "v1", 7, "50")))

	cart.Delete(LineKey{ProductID: "p1", VariantID: "v1"})
	assert.Empty(t, cart.Items)
}

func TestSetQuantity(t *testing.T) {
	cart := NewCart("s1")
	require.NoError(t, cart.Add(line("p1", "v1", 2, "50")))

	key := LineKey{ProductID: "p1", VariantID: "v1"}

	require.NoError(t, cart.SetQuantity(key, 8))
	assert.Equal(t, 8, cart.Items[0].Quantity)

	assert.ErrorIs(t, cart.SetQuantity(key, -1), ErrNegativeQuantity)
	assert.Equal(t, 8, cart.Items[0].Quantity)

	assert.ErrorIs(t, cart.SetQuantity(key, 13), ErrQuantityLimitExceeded)
	assert.Equal(t, 8, cart.Items[0].Quantity)

	// Zero is accepted and keeps the line; dropping a line goes
	// through Remove or Delete.
	require.NoError(t, cart.SetQuantity(key, 0))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 0, cart.Items[0].Quantity)
}

func TestTotalAndItemCount(t *testing.T) {
	cart := NewCart("s1")
	require.NoError(t, cart.Add(line("p1", "v1", 3, "50")))
	require.NoError(t, cart.Add(line("p1", "v2", 2, "70")))

	assert.Equal(t, "290", cart.Total().String())
	assert.Equal(t, 5, cart.ItemCount())
	assert.Len(t, cart.Items, 2)
}

func TestTotalZeroPriceLine(t *testing.T) {
	cart := NewCart("s1")
	require.NoError(t, cart.Add(line("p1", "", 2, "100")))
	require.NoError(t, cart.Add(line("p2", "", 4, "0")))

	assert.Equal(t, "200", cart.Total().String())
	assert.Equal(t, 6, cart.ItemCount())
}

func TestTotalMalformedPriceContributesZero(t *testing.T) {
	cart := NewCart("s1")
	require.NoError(t, cart.Add(line("p1", "", 2, "100")))
	require.NoError(t, cart.Add(line("p2", "", 3, "not-a-price")))
	require.NoError(t, cart.Add(line("p3", "", 1, "")))

	assert.Equal(t, "200", cart.Total().String())
}

func TestTotalDecimalPrices(t *testing.T) {
	cart := NewCart("s1")
	require.NoError(t, cart.Add(line("p1", "", 3, "19.99")))

	assert.Equal(t, "59.97", cart.Total().String())
}

func TestClear(t *testing.T) {
	cart := NewCart("s1")
	require.NoError(t, cart.Add(line("p1", "v1", 3, "50")))
	require.NoError(t, cart.Add(line("p2", "", 1, "20")))

	cart.Clear()

	assert.Empty(t, cart.Items)
	assert.Equal(t, 0, cart.ItemCount())
	assert.Equal(t, "0", cart.Total().String())
}

func TestCartJSONRoundTrip(t *testing.T) {
	cart := NewCart("s1")
	require.NoError(t, cart.Add(line("p1", "v1", 3, "50")))
	require.NoError(t, cart.Add(line("p1", "v2", 2, "70")))

	snapshot, err := json.Marshal(cart)
	require.NoError(t, err)

	var restored Cart
	require.NoError(t, json.Unmarshal(snapshot, &restored))

	assert.Equal(t, "s1", restored.SessionID)
	assert.Equal(t, "290", restored.Total().String())
	assert.Equal(t, 5, restored.ItemCount())
	assert.Len(t, restored.Items, 2)
}
