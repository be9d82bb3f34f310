package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicheySon/smartcart-akedo/internal/model"
	"github.com/RicheySon/smartcart-akedo/internal/store"
)

func newOrderService(t *testing.T, defaultCap float64) (*OrderService, *CartService, store.Store) {
	t.Helper()
	st := newTestStore(t)
	log := zerolog.Nop()
	audit := NewAuditService(st, log)
	cart := NewCartService(st, log)
	budget := NewBudgetService(st, audit, defaultCap, log)
	inventory := NewInventoryService(st, audit, log)
	return NewOrderService(st, cart, budget, inventory, audit, log), cart, st
}

func TestPreviewOrderReportsAffordability(t *testing.T) {
	svc, cart, st := newOrderService(t, 100)
	ctx := context.Background()

	insertSpend(t, st, model.StatusCompleted, 90)
	_, err := cart.AddToCart(ctx, model.Product{ID: "p1", Name: "Steak", Price: 15, Category: "meat", Vendor: "amazon"}, 1, "amazon")
	require.NoError(t, err)

	preview, err := svc.PreviewOrder(ctx)
	require.NoError(t, err)
	assert.False(t, preview.CanAfford)
	assert.Equal(t, "Exceeds budget cap", preview.BudgetStatus.Reason)
	assert.Equal(t, 15.0, preview.TotalCost)
	assert.Equal(t, 1, preview.ItemCount)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc, _, _ := newOrderService(t, 100)

	_, err := svc.PlaceOrder(context.Background(), "alice")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestPlaceOrderBlockedByBudgetLeavesStateUntouched(t *testing.T) {
	svc, cart, st := newOrderService(t, 100)
	ctx := context.Background()

	insertSpend(t, st, model.StatusCompleted, 90)
	_, err := cart.AddToCart(ctx, model.Product{ID: "p1", Name: "Steak", Price: 15, Category: "meat", Vendor: "amazon"}, 1, "amazon")
	require.NoError(t, err)

	_, err = svc.PlaceOrder(ctx, "alice")
	assert.ErrorIs(t, err, model.ErrBudgetExceeded)

	// Nothing committed: cart still holds the line, no new transaction,
	// no inventory.
	got, err := cart.GetCart(ctx)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Len(t, st.Transactions().List(), 1)
	assert.Empty(t, st.Inventory().List())
}

func TestPlaceOrderCommitsEverything(t *testing.T) {
	svc, cart, st := newOrderService(t, 100)
	ctx := context.Background()

	_, err := cart.AddToCart(ctx, model.Product{ID: "p1", Name: "Milk", Price: 4, Category: "dairy", Vendor: "amazon"}, 2, "amazon")
	require.NoError(t, err)
	_, err = cart.AddToCart(ctx, model.Product{ID: "p2", Name: "Mystery Snack", Price: 1, Category: "snacks", Vendor: "amazon"}, 1, "amazon")
	require.NoError(t, err)

	result, err := svc.PlaceOrder(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 9.0, result.Total)
	assert.Equal(t, "Order placed and inventory updated.", result.Message)

	txns := st.Transactions().List()
	require.Len(t, txns, 1)
	assert.Equal(t, model.StatusCompleted, txns[0].Status)
	assert.Equal(t, "amazon", txns[0].Vendor)
	require.NotNil(t, txns[0].CompletedAt)

	// Unknown catalog categories land in "other".
	inv := st.Inventory().List()
	require.Len(t, inv, 2)
	byName := map[string]model.InventoryItem{}
	for _, it := range inv {
		byName[it.Name] = it
	}
	assert.Equal(t, model.CategoryDairy, byName["Milk"].Category)
	assert.Equal(t, model.CategoryOther, byName["Mystery Snack"].Category)

	cleared, err := cart.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cleared.Items)
}

func TestPlaceOrderSpendingCountsTowardNextCheck(t *testing.T) {
	svc, cart, _ := newOrderService(t, 10)
	ctx := context.Background()

	_, err := cart.AddToCart(ctx, model.Product{ID: "p1", Name: "Milk", Price: 6, Category: "dairy", Vendor: "amazon"}, 1, "amazon")
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, "alice")
	require.NoError(t, err)

	_, err = cart.AddToCart(ctx, model.Product{ID: "p2", Name: "Eggs", Price: 6, Category: "dairy", Vendor: "amazon"}, 1, "amazon")
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, "alice")
	assert.ErrorIs(t, err, model.ErrBudgetExceeded)
}
