package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/RicheySon/smartcart-akedo/internal/model"
)

// Vendor lookups are external black boxes returning product records; this
// implementation serves a static catalog per vendor. Real vendor APIs are
// out of scope.

var amazonCatalog = []model.Product{
	{ID: "amz-001", Name: "Organic Whole Milk 1 Gallon", Price: 4.99, Category: "dairy", Rating: 4.5, InStock: true, Vendor: "amazon"},
	{ID: "amz-002", Name: "Large Grade A Eggs 12 Count", Price: 3.79, Category: "dairy", Rating: 4.6, InStock: true, Vendor: "amazon"},
	{ID: "amz-003", Name: "Fresh Bananas 2 lbs", Price: 1.99, Category: "produce", Rating: 4.4, InStock: true, Vendor: "amazon"},
	{ID: "amz-004", Name: "Organic Baby Spinach 10 oz", Price: 3.49, Category: "produce", Rating: 4.3, InStock: true, Vendor: "amazon"},
	{ID: "amz-005", Name: "Chicken Breast Boneless 1 lb", Price: 5.99, Category: "meat", Rating: 4.5, InStock: true, Vendor: "amazon"},
	{ID: "amz-006", Name: "Ground Beef 80/20 1 lb", Price: 4.99, Category: "meat", Rating: 4.4, InStock: true, Vendor: "amazon"},
	{ID: "amz-007", Name: "White Rice 2 lbs", Price: 2.99, Category: "pantry", Rating: 4.5, InStock: true, Vendor: "amazon"},
	{ID: "amz-008", Name: "Olive Oil Extra Virgin 16 oz", Price: 6.99, Category: "pantry", Rating: 4.6, InStock: true, Vendor: "amazon"},
	{ID: "amz-009", Name: "Frozen Mixed Vegetables 16 oz", Price: 2.99, Category: "frozen", Rating: 4.1, InStock: true, Vendor: "amazon"},
	{ID: "amz-010", Name: "Greek Yogurt Plain 32 oz", Price: 4.49, Category: "dairy", Rating: 4.5, InStock: true, Vendor: "amazon"},
	{ID: "amz-011", Name: "Peanut Butter Creamy 16 oz", Price: 3.99, Category: "pantry", Rating: 4.6, InStock: true, Vendor: "amazon"},
	{ID: "amz-012", Name: "Ice Cream Vanilla 1.5 qt", Price: 4.99, Category: "frozen", Rating: 4.6, InStock: true, Vendor: "amazon"},
}

var walmartCatalog = []model.Product{
	{ID: "wal-001", Name: "Great Value Whole Milk 1 Gallon", Price: 3.48, Category: "dairy", Rating: 4.2, InStock: true, Vendor: "walmart"},
	{ID: "wal-002", Name: "Great Value Large White Eggs 12 Count", Price: 1.86, Category: "dairy", Rating: 4.4, InStock: true, Vendor: "walmart"},
	{ID: "wal-003", Name: "Bananas Bunch", Price: 1.50, Category: "produce", Rating: 4.5, InStock: true, Vendor: "walmart"},
	{ID: "wal-004", Name: "Great Value Olive Oil 17 fl oz", Price: 6.97, Category: "pantry", Rating: 4.3, InStock: true, Vendor: "walmart"},
	{ID: "wal-005", Name: "Fresh Chicken Breast 1 lb", Price: 4.98, Category: "meat", Rating: 4.5, InStock: true, Vendor: "walmart"},
	{ID: "wal-006", Name: "Great Value Frozen Peas 12 oz", Price: 1.24, Category: "frozen", Rating: 4.0, InStock: true, Vendor: "walmart"},
	{ID: "wal-007", Name: "Great Value Long Grain Rice 2 lbs", Price: 1.97, Category: "pantry", Rating: 4.2, InStock: true, Vendor: "walmart"},
	{ID: "wal-008", Name: "Great Value Greek Yogurt 32 oz", Price: 3.67, Category: "dairy", Rating: 4.1, InStock: true, Vendor: "walmart"},
}

// VendorService answers product searches across the mock vendor catalogs.
type VendorService struct {
	catalogs map[string][]model.Product
	log      zerolog.Logger
}

func NewVendorService(log zerolog.Logger) *VendorService {
	return &VendorService{
		catalogs: map[string][]model.Product{
			"amazon":  amazonCatalog,
			"walmart": walmartCatalog,
		},
		log: log,
	}
}

// Search matches query against product name or category,
// case-insensitively. An empty vendor searches all catalogs.
func (s *VendorService) Search(ctx context.Context, query, vendor, category string, limit int) []model.Product {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return []model.Product{}
	}
	if limit <= 0 {
		limit = 5
	}

	results := []model.Product{}
	for name, catalog := range s.catalogs {
		if vendor != "" && vendor != name {
			continue
		}
		for _, p := range catalog {
			if category != "" && p.Category != category {
				continue
			}
			if strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.Category), term) {
				results = append(results, p)
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Price < results[j].Price })
	if len(results) > limit {
		results = results[:limit]
	}
	s.log.Debug().Str("query", query).Int("results", len(results)).Msg("Vendor search")
	return results
}

// GetProduct resolves one product by id across all catalogs.
func (s *VendorService) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	for _, catalog := range s.catalogs {
		for _, p := range catalog {
			if p.ID == id {
				prod := p
				return &prod, nil
			}
		}
	}
	return nil, fmt.Errorf("product %s: %w", id, model.ErrNotFound)
}

// PriceComparison pairs the best match per vendor for one search term.
type PriceComparison struct {
	ItemName       string         `json:"item_name"`
	Matches        []model.Product `json:"matches"`
	CheaperVendor  string         `json:"cheaper_vendor,omitempty"`
	PriceDiff      float64        `json:"price_difference"`
	Recommendation string         `json:"recommendation"`
}

// Compare finds the cheapest match in each catalog and reports which
// vendor wins.
func (s *VendorService) Compare(ctx context.Context, itemName string) (PriceComparison, error) {
	if strings.TrimSpace(itemName) == "" {
		return PriceComparison{}, fmt.Errorf("item name is required: %w", model.ErrValidation)
	}

	cmp := PriceComparison{ItemName: itemName, Matches: []model.Product{}}
	for name := range s.catalogs {
		if hits := s.Search(ctx, itemName, name, "", 1); len(hits) > 0 {
			cmp.Matches = append(cmp.Matches, hits[0])
		}
	}
	sort.SliceStable(cmp.Matches, func(i, j int) bool { return cmp.Matches[i].Price < cmp.Matches[j].Price })

	switch len(cmp.Matches) {
	case 0:
		cmp.Recommendation = "No products found on any vendor"
	case 1:
		cmp.CheaperVendor = cmp.Matches[0].Vendor
		cmp.Recommendation = fmt.Sprintf("Only available at %s", cmp.Matches[0].Vendor)
	default:
		best, next := cmp.Matches[0], cmp.Matches[1]
		if best.Price == next.Price {
			cmp.CheaperVendor = "same"
			cmp.Recommendation = "Same price on multiple vendors. Consider shipping and delivery time."
		} else {
			cmp.CheaperVendor = best.Vendor
			cmp.PriceDiff = next.Price - best.Price
			cmp.Recommendation = fmt.Sprintf("Buy from %s to save $%.2f", best.Vendor, cmp.PriceDiff)
		}
	}
	return cmp, nil
}
