package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/RicheySon/smartcart-akedo/internal/model"
	"github.com/RicheySon/smartcart-akedo/internal/store"
)

// Fallback daily usage per category, in units/day, applied when an item
// has fewer than two recorded samples.
var categoryUsageRates = map[string]float64{
	model.CategoryProduce: 0.5,
	model.CategoryDairy:   0.3,
	model.CategoryMeat:    0.2,
	model.CategoryFrozen:  0.15,
	model.CategoryPantry:  0.1,
	model.CategoryOther:   0.1,
}

// Run-out prediction outcomes.
const (
	RunOutOutOfStock = "out_of_stock"
	RunOutNoUsage    = "no_usage"
	RunOutRestocking = "restocking"
	RunOutPredicted  = "predicted"
)

const maxUsageSamples = 30

// ForecastService predicts when inventory runs out and recommends
// restock quantities, from learned usage history or category defaults.
type ForecastService struct {
	store store.Store
	audit *AuditService
	log   zerolog.Logger
}

func NewForecastService(s store.Store, audit *AuditService, log zerolog.Logger) *ForecastService {
	return &ForecastService{store: s, audit: audit, log: log}
}

// RegressionResult is a least-squares fit. Err is set instead of
// panicking for the degenerate inputs (fewer than two points, constant x).
type RegressionResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	Err       string  `json:"error,omitempty"`
}

// SimpleLinearRegression fits quantity (y) against days-ago (x).
func SimpleLinearRegression(data []model.UsageSample) RegressionResult {
	if len(data) < 2 {
		return RegressionResult{Err: "Insufficient data points for regression"}
	}

	n := float64(len(data))
	var meanX, meanY float64
	for _, d := range data {
		meanX += d.DaysAgo
		meanY += d.Quantity
	}
	meanX /= n
	meanY /= n

	var numerator, denominator, sumSquaredY float64
	for _, d := range data {
		dx := d.DaysAgo - meanX
		dy := d.Quantity - meanY
		numerator += dx * dy
		denominator += dx * dx
		sumSquaredY += dy * dy
	}

	if denominator == 0 {
		return RegressionResult{Intercept: meanY, Err: "Cannot calculate slope: constant x values"}
	}

	slope := numerator / denominator
	intercept := meanY - slope*meanX

	var ssRes float64
	for _, d := range data {
		residual := d.Quantity - (slope*d.DaysAgo + intercept)
		ssRes += residual * residual
	}
	rSquared := 0.0
	if sumSquaredY != 0 {
		rSquared = 1 - ssRes/sumSquaredY
	}

	return RegressionResult{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  math.Max(0, math.Min(1, rSquared)),
	}
}

// RunOutPrediction is one of four disjoint outcomes. A nil
// DaysUntilRunout means an infinite horizon (no_usage or restocking).
type RunOutPrediction struct {
	RunoutDate      *time.Time `json:"runout_date,omitempty"`
	Confidence      float64    `json:"confidence"`
	DaysUntilRunout *float64   `json:"days_until_runout"`
	Status          string     `json:"status"`
	Message         string     `json:"message,omitempty"`
}

// PredictRunOutDate estimates when quantity reaches zero at dailyRate.
// Confidence scales with how many samples back the estimate: 0.7 base,
// 0.8 at three or more, 0.9 at five or more.
func (s *ForecastService) PredictRunOutDate(ctx context.Context, quantity, dailyRate float64, itemName string) RunOutPrediction {
	if quantity <= 0 {
		now := time.Now().UTC()
		zero := 0.0
		return RunOutPrediction{RunoutDate: &now, Confidence: 1.0, DaysUntilRunout: &zero, Status: RunOutOutOfStock}
	}
	if dailyRate == 0 || math.IsNaN(dailyRate) {
		return RunOutPrediction{Status: RunOutNoUsage, Message: "No usage detected - item may not be consumed"}
	}
	if dailyRate < 0 {
		return RunOutPrediction{Status: RunOutRestocking, Message: "Negative usage rate indicates restocking"}
	}

	days := quantity / dailyRate
	runout := time.Now().UTC().AddDate(0, 0, int(math.Ceil(days)))
	rounded := math.Round(days*10) / 10

	confidence := 0.7
	if itemName != "" {
		history := s.GetUsageHistory(ctx, itemName)
		if len(history) >= 5 {
			confidence = 0.9
		} else if len(history) >= 3 {
			confidence = 0.8
		}
	}

	return RunOutPrediction{
		RunoutDate:      &runout,
		Confidence:      math.Round(confidence*100) / 100,
		DaysUntilRunout: &rounded,
		Status:          RunOutPredicted,
	}
}

// EstimateDailyUsage returns the category fallback rate.
func EstimateDailyUsage(category string) float64 {
	if rate, ok := categoryUsageRates[category]; ok {
		return rate
	}
	return categoryUsageRates[model.CategoryOther]
}

// GetUsageHistory returns the recorded samples for an item, most recent
// first, or an empty slice.
func (s *ForecastService) GetUsageHistory(ctx context.Context, itemName string) []model.UsageSample {
	key := strings.ToLower(itemName)
	entry := s.store.Usage().FindOne(func(u *model.UsageHistory) bool { return u.Name == key })
	if entry == nil {
		return []model.UsageSample{}
	}
	return entry.History
}

// RecordUsage prepends a fresh sample for the item and caps the history
// at 30 samples by dropping the oldest.
func (s *ForecastService) RecordUsage(ctx context.Context, itemName string, consumed, newQuantity float64) ([]model.UsageSample, error) {
	if strings.TrimSpace(itemName) == "" {
		return nil, fmt.Errorf("item name is required: %w", model.ErrValidation)
	}
	key := strings.ToLower(itemName)
	sample := model.UsageSample{DaysAgo: 0, Quantity: newQuantity, Timestamp: time.Now().UTC()}

	updated, err := s.store.Usage().Update(
		func(u *model.UsageHistory) bool { return u.Name == key },
		func(u *model.UsageHistory) {
			u.History = append([]model.UsageSample{sample}, u.History...)
			if len(u.History) > maxUsageSamples {
				u.History = u.History[:maxUsageSamples]
			}
		},
	)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		entry := model.UsageHistory{Name: key, History: []model.UsageSample{sample}}
		if _, err := s.store.Usage().Insert(entry); err != nil {
			return nil, err
		}
		updated = &entry
	}

	if err := s.audit.LogAction(ctx, ActionUsageRecorded, EntityUsage, key,
		map[string]interface{}{"consumed": consumed, "quantity": newQuantity}, ""); err != nil {
		return nil, err
	}
	s.log.Info().Str("item", itemName).Float64("consumed", consumed).Msg("Recorded usage")
	return updated.History, nil
}

// ItemForecast is the per-item prediction result.
type ItemForecast struct {
	ItemID          string            `json:"item_id"`
	ItemName        string            `json:"item_name"`
	CurrentQuantity float64           `json:"current_quantity"`
	Unit            string            `json:"unit"`
	DailyUsageRate  float64           `json:"daily_usage_rate"`
	Prediction      RunOutPrediction  `json:"prediction"`
	Regression      *RegressionResult `json:"regression,omitempty"`
}

// PredictItemRunOut fits the usage model for one item: regression over
// recorded history when two or more samples exist, category default rate
// otherwise.
func (s *ForecastService) PredictItemRunOut(ctx context.Context, item model.InventoryItem) ItemForecast {
	history := s.GetUsageHistory(ctx, item.Name)

	var dailyRate, baseConfidence float64
	var regression *RegressionResult
	if len(history) >= 2 {
		r := SimpleLinearRegression(history)
		regression = &r
		dailyRate = math.Abs(r.Slope)
		baseConfidence = r.RSquared
	} else {
		dailyRate = EstimateDailyUsage(item.Category)
		baseConfidence = 0.3
	}

	prediction := s.PredictRunOutDate(ctx, item.Quantity, dailyRate, item.Name)
	prediction.Confidence = math.Max(baseConfidence, prediction.Confidence)

	return ItemForecast{
		ItemID:          item.ID,
		ItemName:        item.Name,
		CurrentQuantity: item.Quantity,
		Unit:            item.Unit,
		DailyUsageRate:  math.Round(dailyRate*100) / 100,
		Prediction:      prediction,
		Regression:      regression,
	}
}

// ShoppingBucket groups forecasts by urgency.
type ShoppingBucket struct {
	Items     []ItemForecast `json:"items"`
	Count     int            `json:"count"`
	Timeframe string         `json:"timeframe"`
}

// ShoppingList buckets every item's forecast by days until run-out.
type ShoppingList struct {
	Urgent      ShoppingBucket `json:"urgent"`
	Soon        ShoppingBucket `json:"soon"`
	Planned     ShoppingBucket `json:"planned"`
	TotalItems  int            `json:"total_items"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// GenerateShoppingList predicts run-out for every inventory item and
// buckets the results: urgent (out of stock or <=2 days), soon (3-7
// days), planned (8+ days), each sorted ascending by days until run-out.
func (s *ForecastService) GenerateShoppingList(ctx context.Context, inventory []model.InventoryItem) ShoppingList {
	urgent := []ItemForecast{}
	soon := []ItemForecast{}
	planned := []ItemForecast{}

	for _, item := range inventory {
		f := s.PredictItemRunOut(ctx, item)
		switch {
		case f.Prediction.Status == RunOutOutOfStock:
			urgent = append(urgent, f)
		case f.Prediction.Status == RunOutPredicted && f.Prediction.DaysUntilRunout != nil:
			days := *f.Prediction.DaysUntilRunout
			switch {
			case days <= 2:
				urgent = append(urgent, f)
			case days <= 7:
				soon = append(soon, f)
			default:
				planned = append(planned, f)
			}
		}
	}

	for _, bucket := range [][]ItemForecast{urgent, soon, planned} {
		sort.SliceStable(bucket, func(i, j int) bool {
			return daysOrInf(bucket[i]) < daysOrInf(bucket[j])
		})
	}

	return ShoppingList{
		Urgent:      ShoppingBucket{Items: urgent, Count: len(urgent), Timeframe: "0-2 days"},
		Soon:        ShoppingBucket{Items: soon, Count: len(soon), Timeframe: "3-7 days"},
		Planned:     ShoppingBucket{Items: planned, Count: len(planned), Timeframe: "8+ days"},
		TotalItems:  len(urgent) + len(soon) + len(planned),
		GeneratedAt: time.Now().UTC(),
	}
}

func daysOrInf(f ItemForecast) float64 {
	if f.Prediction.DaysUntilRunout == nil {
		return math.Inf(1)
	}
	return *f.Prediction.DaysUntilRunout
}

// Recommendation suggests how much of an item to buy for a target horizon.
type Recommendation struct {
	ItemID              string  `json:"item_id"`
	ItemName            string  `json:"item_name"`
	CurrentQuantity     float64 `json:"current_quantity"`
	DailyUsageRate      float64 `json:"daily_usage_rate"`
	RecommendedQuantity float64 `json:"recommended_quantity"`
	TargetDays          int     `json:"target_days"`
	Reasoning           string  `json:"reasoning"`
}

// RecommendedQuantity is ceil(rate x targetDays) plus a 20% buffer.
func (s *ForecastService) RecommendedQuantity(ctx context.Context, item model.InventoryItem, targetDays int) Recommendation {
	if targetDays <= 0 {
		targetDays = 7
	}

	history := s.GetUsageHistory(ctx, item.Name)
	var dailyRate float64
	if len(history) >= 2 {
		dailyRate = math.Abs(SimpleLinearRegression(history).Slope)
	} else {
		dailyRate = EstimateDailyUsage(item.Category)
	}

	base := math.Ceil(dailyRate * float64(targetDays))
	buffer := math.Ceil(base * 0.2)
	total := base + buffer
	roundedRate := math.Round(dailyRate*100) / 100

	return Recommendation{
		ItemID:              item.ID,
		ItemName:            item.Name,
		CurrentQuantity:     item.Quantity,
		DailyUsageRate:      roundedRate,
		RecommendedQuantity: total,
		TargetDays:          targetDays,
		Reasoning: fmt.Sprintf("Based on daily usage of %g %s/day, need %g %s for %d days (with 20%% buffer)",
			roundedRate, item.Unit, total, item.Unit, targetDays),
	}
}
