package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicheySon/smartcart-akedo/internal/model"
)

func newCartService(t *testing.T) *CartService {
	t.Helper()
	return NewCartService(newTestStore(t), zerolog.Nop())
}

func milkProduct() model.Product {
	return model.Product{ID: "amz-001", Name: "Organic Whole Milk 1 Gallon", Price: 4.99, Category: "dairy", Vendor: "amazon"}
}

func TestGetCartCreatesOnFirstUse(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	cart, err := svc.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, "active", cart.Status)
	assert.Empty(t, cart.Items)

	again, err := svc.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddToCartMergesSameProductLine(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, milkProduct(), 1, "amazon")
	require.NoError(t, err)
	cart, err := svc.AddToCart(ctx, milkProduct(), 2, "amazon")
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3.0, cart.Items[0].Quantity)
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	svc := newCartService(t)

	_, err := svc.AddToCart(context.Background(), milkProduct(), 0, "amazon")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestRemoveFromCart(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, milkProduct(), 1, "amazon")
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, model.Product{ID: "wal-003", Name: "Bananas Bunch", Price: 1.50, Vendor: "walmart"}, 1, "walmart")
	require.NoError(t, err)

	cart, err := svc.RemoveFromCart(ctx, "amz-001")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "wal-003", cart.Items[0].ProductID)
}

func TestClearCartAndTotal(t *testing.T) {
	svc := newCartService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, milkProduct(), 2, "amazon")
	require.NoError(t, err)

	total, err := svc.CalculateTotal(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 9.98, total, 1e-9)

	require.NoError(t, svc.ClearCart(ctx))
	total, err = svc.CalculateTotal(ctx)
	require.NoError(t, err)
	assert.Zero(t, total)
}
