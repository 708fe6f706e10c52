package services

import (
	"context"
	"testing"

	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/junaidrashid-git/commerce-api/session"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItemClampsToStock(t *testing.T) {
	f := newFixture(t, testProduct("p1", "SKU-100", "100", "10", 2))
	ctx := context.Background()

	view, err := f.carts.AddItem(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, view.ItemCount)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(90)))

	view, err = f.carts.AddItem(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.ItemCount)
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(200)))
	assert.True(t, view.Discount.Equal(decimal.NewFromInt(20)))
	assert.True(t, view.Total.Equal(decimal.NewFromInt(180)))

	view, err = f.carts.AddItem(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, view.ItemCount)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(180)))

	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.CartOperations.WithLabelValues("add")))
}

func TestCartPersistsAcrossServices(t *testing.T) {
	f := newFixture(t, testProduct("p1", "SKU-100", "100", "0", 5))
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "u1", "p1")
	require.NoError(t, err)

	// a new service over the same store hydrates the saved snapshot
	again := NewCarts(f.store, f.products, nil)
	view, err := again.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "p1", view.Items[0].ProductID)

	raw, err := f.store.Get(ctx, session.CartKey("u1"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"productId":"p1"`)
}

func TestCartUnknownAndUnavailableProducts(t *testing.T) {
	hidden := testProduct("p2", "SKU-200", "10", "0", 5)
	hidden.IsAvailable = false
	f := newFixture(t, hidden)
	ctx := context.Background()

	_, err := f.carts.AddItem(ctx, "u1", "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)

	view, err := f.carts.AddItem(ctx, "u1", "p2")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartUpdateRemoveClear(t *testing.T) {
	f := newFixture(t,
		testProduct("p1", "SKU-100", "100", "0", 5),
		testProduct("p2", "SKU-200", "20", "50", 3),
	)
	ctx := context.Background()
	owner := "guest-1"

	_, err := f.carts.AddItem(ctx, owner, "p1")
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, owner, "p2")
	require.NoError(t, err)

	view, err := f.carts.UpdateQuantity(ctx, owner, "p2", 10)
	require.NoError(t, err)
	assert.Equal(t, 4, view.ItemCount)

	total, err := f.carts.Total(ctx, owner)
	require.NoError(t, err)
	assert.True(t, total.Subtotal.Equal(decimal.NewFromInt(160)))
	assert.True(t, total.Discount.Equal(decimal.NewFromInt(30)))

	view, err = f.carts.UpdateQuantity(ctx, owner, "p1", 0)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "p2", view.Items[0].ProductID)

	view, err = f.carts.RemoveItem(ctx, owner, "not-there")
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	view, err = f.carts.Clear(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Total.IsZero())
}

func TestCartMerge(t *testing.T) {
	f := newFixture(t,
		testProduct("p1", "SKU-100", "100", "0", 3),
		testProduct("p2", "SKU-200", "20", "0", 3),
	)
	ctx := context.Background()

	merged, err := f.carts.Merge(ctx, "guest-1", "u1")
	require.NoError(t, err)
	assert.False(t, merged)

	for range 2 {
		_, err = f.carts.AddItem(ctx, "guest-1", "p1")
		require.NoError(t, err)
	}
	_, err = f.carts.AddItem(ctx, "guest-1", "p2")
	require.NoError(t, err)
	for range 2 {
		_, err = f.carts.AddItem(ctx, "u1", "p1")
		require.NoError(t, err)
	}

	merged, err = f.carts.Merge(ctx, "guest-1", "u1")
	require.NoError(t, err)
	assert.True(t, merged)

	view, err := f.carts.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 3, view.Items[0].Quantity, "summed then clamped to stock")
	assert.Equal(t, 1, view.Items[1].Quantity)

	_, err = f.store.Get(ctx, session.CartKey("guest-1"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}
