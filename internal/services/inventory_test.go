package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicheySon/smartcart-akedo/internal/model"
)

func newInventoryService(t *testing.T) *InventoryService {
	t.Helper()
	st := newTestStore(t)
	audit := NewAuditService(st, zerolog.Nop())
	return NewInventoryService(st, audit, zerolog.Nop())
}

func TestAddItemValidation(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   AddItemInput
	}{
		{"empty name", AddItemInput{Name: "  ", Quantity: 1, Category: model.CategoryDairy}},
		{"zero quantity", AddItemInput{Name: "Milk", Quantity: 0, Category: model.CategoryDairy}},
		{"bad category", AddItemInput{Name: "Milk", Quantity: 1, Category: "snacks"}},
		{"bad unit", AddItemInput{Name: "Milk", Quantity: 1, Category: model.CategoryDairy, Unit: "gallons"}},
		{"negative price", AddItemInput{Name: "Milk", Quantity: 1, Category: model.CategoryDairy, Price: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.AddItem(ctx, tc.in, "alice")
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestAddItemDefaults(t *testing.T) {
	svc := newInventoryService(t)

	item, created, err := svc.AddItem(context.Background(), AddItemInput{
		Name: "Milk", Quantity: 2, Category: model.CategoryDairy,
	}, "alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "pieces", item.Unit)
	assert.NotEmpty(t, item.ID)

	// Dairy default shelf life is seven days.
	assert.Equal(t, item.PurchaseDate.AddDate(0, 0, 7), item.ExpirationDate)
}

func TestAddItemPantryShelfLife(t *testing.T) {
	svc := newInventoryService(t)

	item, _, err := svc.AddItem(context.Background(), AddItemInput{
		Name: "Rice", Quantity: 1, Category: model.CategoryPantry,
	}, "alice")
	require.NoError(t, err)
	assert.Equal(t, item.PurchaseDate.AddDate(0, 0, 30), item.ExpirationDate)
}

func TestAddItemRejectsExpirationBeforePurchase(t *testing.T) {
	svc := newInventoryService(t)
	purchase := time.Now().UTC()
	expiration := purchase.AddDate(0, 0, -1)

	_, _, err := svc.AddItem(context.Background(), AddItemInput{
		Name: "Milk", Quantity: 1, Category: model.CategoryDairy,
		PurchaseDate: &purchase, ExpirationDate: &expiration,
	}, "alice")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestAddItemMergesByNameAndCategory(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	_, created, err := svc.AddItem(ctx, AddItemInput{Name: "Milk", Quantity: 2, Category: model.CategoryDairy}, "alice")
	require.NoError(t, err)
	assert.True(t, created)

	merged, created, err := svc.AddItem(ctx, AddItemInput{Name: "  milk ", Quantity: 3, Category: model.CategoryDairy, Price: 4.20}, "alice")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 5.0, merged.Quantity)
	assert.Equal(t, 4.20, merged.Price)

	require.Len(t, svc.ListItems(ctx), 1)
}

func TestAddItemSameNameDifferentCategoryStaysSeparate(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	_, _, err := svc.AddItem(ctx, AddItemInput{Name: "Berries", Quantity: 1, Category: model.CategoryProduce}, "alice")
	require.NoError(t, err)
	_, created, err := svc.AddItem(ctx, AddItemInput{Name: "Berries", Quantity: 1, Category: model.CategoryFrozen}, "alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, svc.ListItems(ctx), 2)
}

func TestUpdateItem(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()
	item, _, err := svc.AddItem(ctx, AddItemInput{Name: "Milk", Quantity: 2, Category: model.CategoryDairy}, "alice")
	require.NoError(t, err)

	qty := 0.0
	updated, err := svc.UpdateItem(ctx, item.ID, UpdateItemInput{Quantity: &qty}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0.0, updated.Quantity)

	neg := -1.0
	_, err = svc.UpdateItem(ctx, item.ID, UpdateItemInput{Quantity: &neg}, "alice")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.UpdateItem(ctx, "missing", UpdateItemInput{Quantity: &qty}, "alice")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteItem(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()
	item, _, err := svc.AddItem(ctx, AddItemInput{Name: "Milk", Quantity: 2, Category: model.CategoryDairy}, "alice")
	require.NoError(t, err)

	removed, err := svc.DeleteItem(ctx, item.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Milk", removed.Name)

	_, err = svc.DeleteItem(ctx, item.ID, "alice")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestExpiringSoonSortedByDate(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	soon := time.Now().UTC().AddDate(0, 0, 1)
	sooner := time.Now().UTC().Add(6 * time.Hour)
	far := time.Now().UTC().AddDate(0, 0, 20)

	_, _, err := svc.AddItem(ctx, AddItemInput{Name: "Yogurt", Quantity: 1, Category: model.CategoryDairy, ExpirationDate: &soon}, "alice")
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, AddItemInput{Name: "Spinach", Quantity: 1, Category: model.CategoryProduce, ExpirationDate: &sooner}, "alice")
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, AddItemInput{Name: "Pasta", Quantity: 1, Category: model.CategoryPantry, ExpirationDate: &far}, "alice")
	require.NoError(t, err)

	expiring := svc.ExpiringSoon(ctx, 2)
	require.Len(t, expiring, 2)
	assert.Equal(t, "Spinach", expiring[0].Name)
	assert.Equal(t, "Yogurt", expiring[1].Name)
}

func TestTotalValue(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()

	_, _, err := svc.AddItem(ctx, AddItemInput{Name: "Milk", Quantity: 2, Category: model.CategoryDairy, Price: 3.50}, "alice")
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, AddItemInput{Name: "Rice", Quantity: 1, Category: model.CategoryPantry, Price: 10}, "alice")
	require.NoError(t, err)

	assert.InDelta(t, 17.0, svc.TotalValue(ctx), 1e-9)
}

func TestImportReceiptBestEffort(t *testing.T) {
	svc := newInventoryService(t)

	result, err := svc.ImportReceipt(context.Background(), []ReceiptLine{
		{Name: "Milk", Quantity: 1, Category: model.CategoryDairy, Price: 3.50},
		{Name: "", Quantity: 1, Category: model.CategoryDairy},
		{Name: "Milk", Quantity: 2, Category: model.CategoryDairy},
	}, nil, "alice")
	require.NoError(t, err)

	assert.Len(t, result.Added, 1)
	assert.Len(t, result.Updated, 1)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "", result.Errors[0].Item)
}

func TestImportReceiptEmpty(t *testing.T) {
	svc := newInventoryService(t)

	_, err := svc.ImportReceipt(context.Background(), nil, nil, "alice")
	assert.ErrorIs(t, err, model.ErrValidation)
}
