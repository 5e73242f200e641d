package services_test

import (
	"math/rand"
	"sync"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func shirt() models.Product {
	return models.Product{ID: "p1", Name: "Formal Shirt", Price: 599, Season: models.SeasonSummer, MinimumOrder: 1}
}

func jeans() models.Product {
	return models.Product{ID: "p2", Name: "Casual Jeans", Price: 799, Season: models.SeasonWinter, MinimumOrder: 5, Stock: intPtr(20)}
}

func TestCartAddMergesLines(t *testing.T) {
	cart := services.NewCart()

	require.NoError(t, cart.Add(shirt(), 2))
	require.NoError(t, cart.Add(shirt(), 3))

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Qty)
	assert.Equal(t, 5, cart.TotalItems())
	assert.Equal(t, 5*599, cart.TotalPrice())
}

func TestCartAddDefaultsToMinimumOrder(t *testing.T) {
	cart := services.NewCart()

	require.NoError(t, cart.Add(jeans(), 0))
	assert.Equal(t, 5, cart.Items()[0].Qty)
}

func TestCartAddRejectsBelowMinimum(t *testing.T) {
	cart := services.NewCart()

	err := cart.Add(jeans(), 3)
	assert.ErrorIs(t, err, services.ErrBelowMinimumOrder)
	assert.Equal(t, 0, cart.Len())
}

func TestCartAddRejectsOverStock(t *testing.T) {
	cart := services.NewCart()

	assert.ErrorIs(t, cart.Add(jeans(), 21), services.ErrExceedsStock)
	require.NoError(t, cart.Add(jeans(), 15))
	assert.ErrorIs(t, cart.Add(jeans(), 6), services.ErrExceedsStock)
	assert.Equal(t, 15, cart.TotalItems())
}

func TestCartKeepsInsertionOrder(t *testing.T) {
	cart := services.NewCart()
	require.NoError(t, cart.Add(shirt(), 1))
	require.NoError(t, cart.Add(jeans(), 5))
	require.NoError(t, cart.Add(shirt(), 1))

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "p2", items[1].ID)
}

func TestCartUpdateQty(t *testing.T) {
	cart := services.NewCart()
	require.NoError(t, cart.Add(shirt(), 2))
	require.NoError(t, cart.Add(jeans(), 5))

	require.NoError(t, cart.UpdateQty("p1", 4))
	assert.Equal(t, 9, cart.TotalItems())
	assert.Equal(t, 4*599+5*799, cart.TotalPrice())

	// Clamped to 1, never removes the line.
	require.NoError(t, cart.UpdateQty("p1", 0))
	require.NoError(t, cart.UpdateQty("p1", -3))
	assert.Equal(t, 1, cart.Items()[0].Qty)
	assert.Equal(t, 2, cart.Len())

	assert.ErrorIs(t, cart.UpdateQty("p2", 21), services.ErrExceedsStock)
	assert.Equal(t, 5, cart.Items()[1].Qty)

	assert.ErrorIs(t, cart.UpdateQty("missing", 2), services.ErrItemNotFound)
}

func TestCartUpdateBelowMinimumIsAllowedButFlagged(t *testing.T) {
	cart := services.NewCart()
	require.NoError(t, cart.Add(jeans(), 5))

	require.NoError(t, cart.UpdateQty("p2", 2))
	violations := cart.MOQViolations()
	require.Len(t, violations, 1)
	assert.Equal(t, "p2", violations[0].ID)
}

func TestCartRemoveIsIdempotent(t *testing.T) {
	cart := services.NewCart()
	require.NoError(t, cart.Add(shirt(), 2))
	require.NoError(t, cart.Add(jeans(), 5))

	require.NoError(t, cart.Remove("p1"))
	require.NoError(t, cart.Remove("p1"))
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, 5, cart.TotalItems())
	assert.Equal(t, 5*799, cart.TotalPrice())

	require.NoError(t, cart.UpdateQty("p2", 6))
	assert.Equal(t, 6, cart.Items()[0].Qty)
}

func TestCartClear(t *testing.T) {
	cart := services.NewCart()
	require.NoError(t, cart.Add(shirt(), 2))

	require.NoError(t, cart.Clear())
	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, 0, cart.TotalItems())
	assert.Equal(t, 0, cart.TotalPrice())
}

func TestCartHeldRejectsMutations(t *testing.T) {
	cart := services.NewCart()
	require.NoError(t, cart.Add(shirt(), 2))

	lines, err := cart.BeginCheckout()
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.True(t, cart.Held())

	_, err = cart.BeginCheckout()
	assert.ErrorIs(t, err, services.ErrCheckoutInProgress)
	assert.ErrorIs(t, cart.Add(shirt(), 1), services.ErrCheckoutInProgress)
	assert.ErrorIs(t, cart.UpdateQty("p1", 5), services.ErrCheckoutInProgress)
	assert.ErrorIs(t, cart.Remove("p1"), services.ErrCheckoutInProgress)
	assert.ErrorIs(t, cart.Clear(), services.ErrCheckoutInProgress)

	cart.AbortCheckout()
	assert.False(t, cart.Held())
	assert.Equal(t, 2, cart.TotalItems())

	_, err = cart.BeginCheckout()
	require.NoError(t, err)
	cart.CompleteCheckout()
	assert.False(t, cart.Held())
	assert.Equal(t, 0, cart.Len())
}

// Totals must match a recomputation from the lines after any sequence of operations.
func TestCartTotalsStayConsistent(t *testing.T) {
	products := []models.Product{
		shirt(),
		jeans(),
		{ID: "p3", Name: "Kurta", Price: 450, MinimumOrder: 3, Stock: intPtr(10)},
		{ID: "p4", Name: "Saree", Price: 1299, MinimumOrder: 1, Stock: intPtr(0)},
	}
	rng := rand.New(rand.NewSource(42))
	cart := services.NewCart()

	for i := 0; i < 2000; i++ {
		p := products[rng.Intn(len(products))]
		switch rng.Intn(5) {
		case 0, 1:
			_ = cart.Add(p, rng.Intn(12))
		case 2:
			_ = cart.UpdateQty(p.ID, rng.Intn(14)-2)
		case 3:
			_ = cart.Remove(p.ID)
		case 4:
			if rng.Intn(20) == 0 {
				_ = cart.Clear()
			}
		}

		items := cart.Items()
		seen := map[string]bool{}
		wantItems, wantPrice := 0, 0
		for _, item := range items {
			require.False(t, seen[item.ID], "duplicate line %s", item.ID)
			seen[item.ID] = true
			require.GreaterOrEqual(t, item.Qty, 1)
			if item.Stock != nil {
				require.LessOrEqual(t, item.Qty, *item.Stock)
			}
			wantItems += item.Qty
			wantPrice += item.Subtotal()
		}
		require.Equal(t, wantItems, cart.TotalItems())
		require.Equal(t, wantPrice, cart.TotalPrice())
	}
}

func TestCartRejectionsLeaveCartUnchanged(t *testing.T) {
	cart := services.NewCart()
	require.NoError(t, cart.Add(shirt(), 1))
	before := cart.Items()

	limited := models.Product{ID: "s5", Name: "Silk Saree", Price: 2499, Stock: intPtr(5), MinimumOrder: 1}
	assert.ErrorIs(t, cart.Add(limited, 6), services.ErrExceedsStock)

	bulk := models.Product{ID: "b10", Name: "Socks Pack", Price: 49, MinimumOrder: 10}
	assert.ErrorIs(t, cart.Add(bulk, 3), services.ErrBelowMinimumOrder)

	assert.Equal(t, before, cart.Items())
	assert.Equal(t, 1, cart.TotalItems())
	assert.Equal(t, 599, cart.TotalPrice())
}

func TestCartSnapshotIsConsistentUnderConcurrentEdits(t *testing.T) {
	cart := services.NewCart()
	p := shirt()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			_ = cart.Add(p, 1)
			if i%3 == 0 {
				_ = cart.Remove(p.ID)
			}
		}
	}()

	for i := 0; i < 500; i++ {
		snap := cart.Snapshot()
		items, price := 0, 0
		for _, line := range snap.Items {
			items += line.Qty
			price += line.Subtotal()
		}
		require.Equal(t, price, snap.TotalPrice)
		require.Equal(t, items, snap.TotalItems)
	}
	wg.Wait()

	snap := cart.Snapshot()
	assert.Equal(t, cart.Items(), snap.Items)
	assert.False(t, snap.Held)
}
