package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RicheySon/smartcart-akedo/internal/model"
	"github.com/RicheySon/smartcart-akedo/internal/store"
)

// Default shelf life per category, used when no expiration date is given.
var defaultTTLDays = map[string]int{
	model.CategoryProduce: 7,
	model.CategoryDairy:   7,
	model.CategoryMeat:    7,
	model.CategoryFrozen:  30,
	model.CategoryPantry:  30,
	model.CategoryOther:   30,
}

var validCategories = map[string]bool{
	model.CategoryProduce: true,
	model.CategoryDairy:   true,
	model.CategoryMeat:    true,
	model.CategoryPantry:  true,
	model.CategoryFrozen:  true,
	model.CategoryOther:   true,
}

var validUnits = map[string]bool{
	"kg":      true,
	"lb":      true,
	"pieces":  true,
	"liters":  true,
	"bottles": true,
}

// InventoryService owns perishable-item CRUD. Items sharing a
// (name, category) pair are merged by summing quantity, never duplicated.
type InventoryService struct {
	store store.Store
	audit *AuditService
	log   zerolog.Logger
}

func NewInventoryService(s store.Store, audit *AuditService, log zerolog.Logger) *InventoryService {
	return &InventoryService{store: s, audit: audit, log: log}
}

// AddItemInput carries the fields accepted when adding an item.
type AddItemInput struct {
	Name           string
	Quantity       float64
	Category       string
	Unit           string
	Price          float64
	PurchaseDate   *time.Time
	ExpirationDate *time.Time
}

func (in *AddItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("item name is required: %w", model.ErrValidation)
	}
	if in.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", model.ErrValidation)
	}
	if !validCategories[in.Category] {
		return fmt.Errorf("invalid category %q: %w", in.Category, model.ErrValidation)
	}
	if in.Unit != "" && !validUnits[in.Unit] {
		return fmt.Errorf("invalid unit %q: %w", in.Unit, model.ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("price must be non-negative: %w", model.ErrValidation)
	}
	return nil
}

// AddItem inserts a new item or merges quantity into an existing
// (name, category) record. The returned bool reports whether a new record
// was created.
func (s *InventoryService) AddItem(ctx context.Context, in AddItemInput, userID string) (model.InventoryItem, bool, error) {
	if err := in.validate(); err != nil {
		return model.InventoryItem{}, false, err
	}

	name := strings.TrimSpace(in.Name)
	unit := in.Unit
	if unit == "" {
		unit = "pieces"
	}
	purchase := time.Now().UTC()
	if in.PurchaseDate != nil {
		purchase = in.PurchaseDate.UTC()
	}
	expiration := purchase.AddDate(0, 0, defaultTTLDays[in.Category])
	if in.ExpirationDate != nil {
		expiration = in.ExpirationDate.UTC()
		if !expiration.After(purchase) {
			return model.InventoryItem{}, false, fmt.Errorf("expiration date must be after purchase date: %w", model.ErrValidation)
		}
	}

	// Merge path: same name (case-insensitive, trimmed) and category.
	merged, err := s.store.Inventory().Update(
		func(it *model.InventoryItem) bool {
			return strings.EqualFold(strings.TrimSpace(it.Name), name) && it.Category == in.Category
		},
		func(it *model.InventoryItem) {
			it.Quantity += in.Quantity
			if in.Price > 0 {
				it.Price = in.Price
			}
			it.UpdatedAt = time.Now().UTC()
		},
	)
	if err != nil {
		return model.InventoryItem{}, false, err
	}
	if merged != nil {
		if err := s.audit.LogAction(ctx, ActionItemUpdated, EntityInventoryItem, merged.ID,
			map[string]interface{}{"merged_quantity": in.Quantity, "quantity": merged.Quantity}, userID); err != nil {
			return model.InventoryItem{}, false, err
		}
		s.log.Info().Str("item", name).Float64("quantity", merged.Quantity).Msg("Merged inventory item")
		return *merged, false, nil
	}

	now := time.Now().UTC()
	item := model.InventoryItem{
		ID:             uuid.NewString(),
		Name:           name,
		Category:       in.Category,
		Quantity:       in.Quantity,
		Unit:           unit,
		Price:          in.Price,
		PurchaseDate:   purchase,
		ExpirationDate: expiration,
		AddedAt:        now,
		UpdatedAt:      now,
	}
	if _, err := s.store.Inventory().Insert(item); err != nil {
		return model.InventoryItem{}, false, err
	}
	if err := s.audit.LogAction(ctx, ActionItemAdded, EntityInventoryItem, item.ID,
		map[string]interface{}{"name": item.Name, "quantity": item.Quantity, "category": item.Category}, userID); err != nil {
		return model.InventoryItem{}, false, err
	}
	s.log.Info().Str("item", item.Name).Str("id", item.ID).Msg("Added inventory item")
	return item, true, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id string) (*model.InventoryItem, error) {
	item := s.store.Inventory().FindOne(func(it *model.InventoryItem) bool { return it.ID == id })
	if item == nil {
		return nil, fmt.Errorf("inventory item %s: %w", id, model.ErrNotFound)
	}
	return item, nil
}

func (s *InventoryService) ListItems(ctx context.Context) []model.InventoryItem {
	return s.store.Inventory().List()
}

// UpdateItemInput carries optional field updates; nil means unchanged.
type UpdateItemInput struct {
	Quantity       *float64
	Price          *float64
	Unit           *string
	ExpirationDate *time.Time
}

func (s *InventoryService) UpdateItem(ctx context.Context, id string, in UpdateItemInput, userID string) (*model.InventoryItem, error) {
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, fmt.Errorf("quantity must not be negative: %w", model.ErrValidation)
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, fmt.Errorf("price must be non-negative: %w", model.ErrValidation)
	}
	if in.Unit != nil && !validUnits[*in.Unit] {
		return nil, fmt.Errorf("invalid unit %q: %w", *in.Unit, model.ErrValidation)
	}

	updated, err := s.store.Inventory().Update(
		func(it *model.InventoryItem) bool { return it.ID == id },
		func(it *model.InventoryItem) {
			if in.Quantity != nil {
				it.Quantity = *in.Quantity
			}
			if in.Price != nil {
				it.Price = *in.Price
			}
			if in.Unit != nil {
				it.Unit = *in.Unit
			}
			if in.ExpirationDate != nil {
				it.ExpirationDate = in.ExpirationDate.UTC()
			}
			it.UpdatedAt = time.Now().UTC()
		},
	)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("inventory item %s: %w", id, model.ErrNotFound)
	}
	if err := s.audit.LogAction(ctx, ActionItemUpdated, EntityInventoryItem, id, nil, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, id string, userID string) (*model.InventoryItem, error) {
	removed, err := s.store.Inventory().Remove(func(it *model.InventoryItem) bool { return it.ID == id })
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, fmt.Errorf("inventory item %s: %w", id, model.ErrNotFound)
	}
	if err := s.audit.LogAction(ctx, ActionItemRemoved, EntityInventoryItem, id,
		map[string]interface{}{"name": removed.Name}, userID); err != nil {
		return nil, err
	}
	return removed, nil
}

// ExpiringSoon lists items whose expiration falls within the next `days`
// days, soonest first.
func (s *InventoryService) ExpiringSoon(ctx context.Context, days int) []model.InventoryItem {
	if days <= 0 {
		days = 2
	}
	horizon := time.Now().UTC().AddDate(0, 0, days)
	items := s.store.Inventory().Find(func(it *model.InventoryItem) bool {
		return !it.ExpirationDate.After(horizon)
	})
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ExpirationDate.Before(items[j].ExpirationDate)
	})
	return items
}

func (s *InventoryService) ByCategory(ctx context.Context, category string) []model.InventoryItem {
	return s.store.Inventory().Find(func(it *model.InventoryItem) bool { return it.Category == category })
}

// TotalValue sums price*quantity over the whole inventory.
func (s *InventoryService) TotalValue(ctx context.Context) float64 {
	total := 0.0
	for _, it := range s.store.Inventory().List() {
		total += it.Price * it.Quantity
	}
	return total
}

// ReceiptLine is one parsed line of an imported receipt.
type ReceiptLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit"`
}

// ReceiptImportResult reports the per-line outcome of an import.
type ReceiptImportResult struct {
	Added   []model.InventoryItem `json:"added"`
	Updated []model.InventoryItem `json:"updated"`
	Errors  []ReceiptLineError    `json:"errors"`
}

type ReceiptLineError struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

// ImportReceipt adds each line best-effort: a bad line is collected in
// Errors and does not abort the rest of the import.
func (s *InventoryService) ImportReceipt(ctx context.Context, lines []ReceiptLine, purchaseDate *time.Time, userID string) (ReceiptImportResult, error) {
	if len(lines) == 0 {
		return ReceiptImportResult{}, fmt.Errorf("receipt has no items: %w", model.ErrValidation)
	}

	result := ReceiptImportResult{Added: []model.InventoryItem{}, Updated: []model.InventoryItem{}, Errors: []ReceiptLineError{}}
	for _, line := range lines {
		item, created, err := s.AddItem(ctx, AddItemInput{
			Name:         line.Name,
			Quantity:     line.Quantity,
			Category:     line.Category,
			Unit:         line.Unit,
			Price:        line.Price,
			PurchaseDate: purchaseDate,
		}, userID)
		if err != nil {
			result.Errors = append(result.Errors, ReceiptLineError{Item: line.Name, Error: err.Error()})
			s.log.Warn().Str("item", line.Name).Err(err).Msg("Skipped receipt line")
			continue
		}
		if created {
			result.Added = append(result.Added, item)
		} else {
			result.Updated = append(result.Updated, item)
		}
	}
	return result, nil
}
