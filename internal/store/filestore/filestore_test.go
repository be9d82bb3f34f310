package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicheySon/smartcart-akedo/internal/model"
)

func openTestDB(t *testing.T) (*DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.db.json")
	db, err := Open(path, "test-secret", zerolog.Nop())
	require.NoError(t, err)
	return db, path
}

func TestOpenCreatesEncryptedFile(t *testing.T) {
	_, path := openTestDB(t)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, ":")
	assert.NotContains(t, content, "inventory")
}

func TestInsertPersistsAcrossReopen(t *testing.T) {
	db, path := openTestDB(t)

	_, err := db.Inventory().Insert(model.InventoryItem{ID: "itm-1", Name: "Milk", Category: model.CategoryDairy, Quantity: 2})
	require.NoError(t, err)

	reopened, err := Open(path, "test-secret", zerolog.Nop())
	require.NoError(t, err)
	items := reopened.Inventory().List()
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].Name)
}

func TestLegacyPlaintextAdoptedAndReEncrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db.json")
	legacy := `{"inventory":[{"id":"itm-1","name":"Eggs","category":"dairy","quantity":12}]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	db, err := Open(path, "test-secret", zerolog.Nop())
	require.NoError(t, err)
	items := db.Inventory().List()
	require.Len(t, items, 1)
	assert.Equal(t, "Eggs", items[0].Name)

	require.NoError(t, db.Save())
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Eggs")
}

func TestCorruptFileBackedUpAndStoreStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db.json")
	garbage := "not-an-encrypted-payload"
	require.NoError(t, os.WriteFile(path, []byte(garbage), 0o600))

	db, err := Open(path, "test-secret", zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, db.Inventory().List())

	backup, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, garbage, string(backup))
}

func TestWrongKeyTreatedAsCorrupt(t *testing.T) {
	db, path := openTestDB(t)
	_, err := db.Inventory().Insert(model.InventoryItem{ID: "itm-1", Name: "Milk"})
	require.NoError(t, err)

	reopened, err := Open(path, "different-secret", zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, reopened.Inventory().List())
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestUpdateAppliesAndPersists(t *testing.T) {
	db, _ := openTestDB(t)
	_, err := db.Inventory().Insert(model.InventoryItem{ID: "itm-1", Name: "Rice", Quantity: 1})
	require.NoError(t, err)

	updated, err := db.Inventory().Update(
		func(i *model.InventoryItem) bool { return i.ID == "itm-1" },
		func(i *model.InventoryItem) { i.Quantity = 5 },
	)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 5.0, updated.Quantity)
}

func TestUpdateNoMatchReturnsNil(t *testing.T) {
	db, _ := openTestDB(t)

	updated, err := db.Inventory().Update(
		func(i *model.InventoryItem) bool { return i.ID == "missing" },
		func(i *model.InventoryItem) { i.Quantity = 5 },
	)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestRemoveReturnsRemovedRecord(t *testing.T) {
	db, _ := openTestDB(t)
	_, err := db.Inventory().Insert(model.InventoryItem{ID: "itm-1", Name: "Rice"})
	require.NoError(t, err)

	removed, err := db.Inventory().Remove(func(i *model.InventoryItem) bool { return i.ID == "itm-1" })
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "Rice", removed.Name)
	assert.Empty(t, db.Inventory().List())

	gone, err := db.Inventory().Remove(func(i *model.InventoryItem) bool { return i.ID == "itm-1" })
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestFindOneReturnsCopy(t *testing.T) {
	db, _ := openTestDB(t)
	_, err := db.Inventory().Insert(model.InventoryItem{ID: "itm-1", Name: "Rice", Quantity: 1})
	require.NoError(t, err)

	got := db.Inventory().FindOne(func(i *model.InventoryItem) bool { return i.ID == "itm-1" })
	require.NotNil(t, got)
	got.Quantity = 99

	again := db.Inventory().FindOne(func(i *model.InventoryItem) bool { return i.ID == "itm-1" })
	require.NotNil(t, again)
	assert.Equal(t, 1.0, again.Quantity)
}

func TestSettingsRoundTrip(t *testing.T) {
	db, path := openTestDB(t)

	require.NoError(t, db.Settings().Set("budget_cap", model.BudgetSetting{Cap: 750, Period: "monthly"}))

	reopened, err := Open(path, "test-secret", zerolog.Nop())
	require.NoError(t, err)
	var setting model.BudgetSetting
	found, err := reopened.Settings().Get("budget_cap", &setting)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 750.0, setting.Cap)

	found, err = reopened.Settings().Get("missing", &setting)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEmptyFileInitialized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db.json")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	db, err := Open(path, "test-secret", zerolog.Nop())
	require.NoError(t, err)
	assert.Empty(t, db.Inventory().List())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), ":"))
}
