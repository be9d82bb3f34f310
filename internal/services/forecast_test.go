package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RicheySon/smartcart-akedo/internal/model"
)

func newForecastService(t *testing.T) *ForecastService {
	t.Helper()
	st := newTestStore(t)
	audit := NewAuditService(st, zerolog.Nop())
	return NewForecastService(st, audit, zerolog.Nop())
}

func TestSimpleLinearRegressionInsufficientData(t *testing.T) {
	r := SimpleLinearRegression([]model.UsageSample{{DaysAgo: 1, Quantity: 5}})
	assert.Equal(t, "Insufficient data points for regression", r.Err)
}

func TestSimpleLinearRegressionConstantX(t *testing.T) {
	r := SimpleLinearRegression([]model.UsageSample{
		{DaysAgo: 2, Quantity: 4},
		{DaysAgo: 2, Quantity: 6},
	})
	assert.Equal(t, "Cannot calculate slope: constant x values", r.Err)
	assert.Zero(t, r.Slope)
	assert.Equal(t, 5.0, r.Intercept)
}

func TestSimpleLinearRegressionPerfectFit(t *testing.T) {
	// Quantity falls by one per day looking backwards: slope +1 against
	// days-ago, r-squared 1.
	r := SimpleLinearRegression([]model.UsageSample{
		{DaysAgo: 0, Quantity: 2},
		{DaysAgo: 1, Quantity: 3},
		{DaysAgo: 2, Quantity: 4},
	})
	require.Empty(t, r.Err)
	assert.InDelta(t, 1.0, r.Slope, 1e-9)
	assert.InDelta(t, 2.0, r.Intercept, 1e-9)
	assert.InDelta(t, 1.0, r.RSquared, 1e-9)
}

func TestPredictRunOutDateOutOfStock(t *testing.T) {
	svc := newForecastService(t)

	p := svc.PredictRunOutDate(context.Background(), 0, 0.5, "")
	assert.Equal(t, RunOutOutOfStock, p.Status)
	assert.Equal(t, 1.0, p.Confidence)
	require.NotNil(t, p.DaysUntilRunout)
	assert.Zero(t, *p.DaysUntilRunout)
}

func TestPredictRunOutDateNoUsage(t *testing.T) {
	svc := newForecastService(t)

	p := svc.PredictRunOutDate(context.Background(), 3, 0, "")
	assert.Equal(t, RunOutNoUsage, p.Status)
	assert.Nil(t, p.DaysUntilRunout)
	assert.Equal(t, "No usage detected - item may not be consumed", p.Message)
}

func TestPredictRunOutDateRestocking(t *testing.T) {
	svc := newForecastService(t)

	p := svc.PredictRunOutDate(context.Background(), 3, -0.5, "")
	assert.Equal(t, RunOutRestocking, p.Status)
}

func TestPredictRunOutDatePredicted(t *testing.T) {
	svc := newForecastService(t)

	p := svc.PredictRunOutDate(context.Background(), 1, 0.5, "")
	require.Equal(t, RunOutPredicted, p.Status)
	require.NotNil(t, p.DaysUntilRunout)
	assert.Equal(t, 2.0, *p.DaysUntilRunout)
	assert.Equal(t, 0.7, p.Confidence)
	require.NotNil(t, p.RunoutDate)
}

func TestPredictRunOutConfidenceScalesWithHistory(t *testing.T) {
	svc := newForecastService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.RecordUsage(ctx, "Milk", 1, float64(5-i))
		require.NoError(t, err)
	}

	p := svc.PredictRunOutDate(ctx, 2, 1, "Milk")
	assert.Equal(t, 0.9, p.Confidence)
}

func TestRecordUsageCapsHistory(t *testing.T) {
	svc := newForecastService(t)
	ctx := context.Background()

	var history []model.UsageSample
	var err error
	for i := 0; i < 35; i++ {
		history, err = svc.RecordUsage(ctx, "Milk", 1, float64(35-i))
		require.NoError(t, err)
	}
	assert.Len(t, history, 30)
	// Newest sample is first.
	assert.Equal(t, 1.0, history[0].Quantity)
}

func TestRecordUsageKeyIsCaseInsensitive(t *testing.T) {
	svc := newForecastService(t)
	ctx := context.Background()

	_, err := svc.RecordUsage(ctx, "Milk", 1, 4)
	require.NoError(t, err)
	_, err = svc.RecordUsage(ctx, "MILK", 1, 3)
	require.NoError(t, err)

	assert.Len(t, svc.GetUsageHistory(ctx, "milk"), 2)
}

func TestRecordUsageRequiresName(t *testing.T) {
	svc := newForecastService(t)

	_, err := svc.RecordUsage(context.Background(), "  ", 1, 1)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestPredictItemRunOutFallsBackToCategoryRate(t *testing.T) {
	svc := newForecastService(t)

	f := svc.PredictItemRunOut(context.Background(), model.InventoryItem{
		ID: "itm-1", Name: "Apples", Category: model.CategoryProduce, Quantity: 5, Unit: "pieces",
	})
	assert.Equal(t, 0.5, f.DailyUsageRate)
	assert.Nil(t, f.Regression)
	require.NotNil(t, f.Prediction.DaysUntilRunout)
	assert.Equal(t, 10.0, *f.Prediction.DaysUntilRunout)
}

func TestGenerateShoppingListBuckets(t *testing.T) {
	svc := newForecastService(t)

	items := []model.InventoryItem{
		{ID: "out", Name: "Eggs", Category: model.CategoryDairy, Quantity: 0},
		{ID: "urgent", Name: "Apples", Category: model.CategoryProduce, Quantity: 1},   // 2 days at 0.5/day
		{ID: "soon", Name: "Spinach", Category: model.CategoryProduce, Quantity: 3},    // 6 days
		{ID: "planned", Name: "Rice", Category: model.CategoryPantry, Quantity: 5},     // 50 days
	}

	list := svc.GenerateShoppingList(context.Background(), items)

	assert.Equal(t, 4, list.TotalItems)
	require.Equal(t, 2, list.Urgent.Count)
	assert.Equal(t, "Eggs", list.Urgent.Items[0].ItemName)
	assert.Equal(t, "Apples", list.Urgent.Items[1].ItemName)
	require.Equal(t, 1, list.Soon.Count)
	assert.Equal(t, "Spinach", list.Soon.Items[0].ItemName)
	require.Equal(t, 1, list.Planned.Count)
	assert.Equal(t, "Rice", list.Planned.Items[0].ItemName)
	assert.Equal(t, "0-2 days", list.Urgent.Timeframe)
}

func TestRecommendedQuantity(t *testing.T) {
	svc := newForecastService(t)

	rec := svc.RecommendedQuantity(context.Background(), model.InventoryItem{
		ID: "itm-1", Name: "Apples", Category: model.CategoryProduce, Quantity: 2, Unit: "pieces",
	}, 7)

	// ceil(0.5*7)=4 plus ceil(4*0.2)=1 buffer.
	assert.Equal(t, 5.0, rec.RecommendedQuantity)
	assert.Equal(t, 7, rec.TargetDays)
	assert.Equal(t, "Based on daily usage of 0.5 pieces/day, need 5 pieces for 7 days (with 20% buffer)", rec.Reasoning)
}

func TestEstimateDailyUsageFallback(t *testing.T) {
	assert.Equal(t, 0.5, EstimateDailyUsage(model.CategoryProduce))
	assert.Equal(t, 0.1, EstimateDailyUsage("unknown"))
}
