package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/RicheySon/smartcart-akedo/internal/model"
	"github.com/RicheySon/smartcart-akedo/internal/store"
)

const budgetCapSettingKey = "budget_cap"

// Budget accounting periods.
const (
	PeriodMonthly = "monthly"
	PeriodWeekly  = "weekly"
)

// BudgetService computes current-period spend and gates prospective
// purchases against the configured cap.
type BudgetService struct {
	store      store.Store
	audit      *AuditService
	defaultCap float64
	log        zerolog.Logger
}

func NewBudgetService(s store.Store, audit *AuditService, defaultCap float64, log zerolog.Logger) *BudgetService {
	return &BudgetService{store: s, audit: audit, defaultCap: defaultCap, log: log}
}

// SetBudgetCap persists the active cap for a period, overwriting any
// prior cap for the same period. No history is kept.
func (s *BudgetService) SetBudgetCap(ctx context.Context, amount float64, period string) (model.BudgetSetting, error) {
	if amount < 0 || math.IsNaN(amount) {
		return model.BudgetSetting{}, fmt.Errorf("invalid budget amount: %w", model.ErrValidation)
	}
	if period == "" {
		period = PeriodMonthly
	}
	if period != PeriodMonthly && period != PeriodWeekly {
		return model.BudgetSetting{}, fmt.Errorf("period must be monthly or weekly: %w", model.ErrValidation)
	}

	setting := model.BudgetSetting{
		Cap:       amount,
		Period:    period,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.Settings().Set(budgetCapSettingKey, setting); err != nil {
		return model.BudgetSetting{}, err
	}
	if err := s.audit.LogAction(ctx, ActionBudgetUpdated, EntityBudget, budgetCapSettingKey,
		map[string]interface{}{"cap": amount, "period": period}, ""); err != nil {
		return model.BudgetSetting{}, err
	}
	s.log.Info().Float64("cap", amount).Str("period", period).Msg("Budget cap set")
	return setting, nil
}

// GetBudgetCap returns the active setting, falling back to the configured
// default cap when none was ever set.
func (s *BudgetService) GetBudgetCap(ctx context.Context) (model.BudgetSetting, error) {
	var setting model.BudgetSetting
	ok, err := s.store.Settings().Get(budgetCapSettingKey, &setting)
	if err != nil {
		return model.BudgetSetting{}, err
	}
	if !ok {
		return model.BudgetSetting{Cap: s.defaultCap, Period: PeriodMonthly}, nil
	}
	return setting, nil
}

// SpendingReport describes current-period spend against the cap.
type SpendingReport struct {
	Spent      float64 `json:"spent"`
	Budget     float64 `json:"budget"`
	Remaining  float64 `json:"remaining"`
	Percentage int     `json:"percentage"`
	Period     string  `json:"period"`
}

// periodStart returns the beginning of the current accounting window:
// first of the month for monthly, most recent Monday 00:00 for weekly.
func periodStart(period string, now time.Time) time.Time {
	if period == PeriodWeekly {
		daysSinceMonday := (int(now.Weekday()) + 6) % 7
		day := now.AddDate(0, 0, -daysSinceMonday)
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// GetCurrentSpending sums total_cost over completed and approved
// transactions created inside the current period window.
func (s *BudgetService) GetCurrentSpending(ctx context.Context, period string) (SpendingReport, error) {
	setting, err := s.GetBudgetCap(ctx)
	if err != nil {
		return SpendingReport{}, err
	}
	if period == "" {
		period = setting.Period
	}

	start := periodStart(period, time.Now())
	spent := 0.0
	for _, t := range s.store.Transactions().Find(func(t *model.Transaction) bool {
		return (t.Status == model.StatusCompleted || t.Status == model.StatusApproved) && !t.CreatedAt.Before(start)
	}) {
		spent += t.TotalCost
	}

	report := SpendingReport{
		Spent:     spent,
		Budget:    setting.Cap,
		Remaining: math.Max(0, setting.Cap-spent),
		Period:    period,
	}
	if setting.Cap > 0 {
		pct := int(math.Round(spent / setting.Cap * 100))
		if pct > 100 {
			pct = 100
		}
		report.Percentage = pct
	}
	return report, nil
}

// Allowance is the verdict on a prospective purchase.
type Allowance struct {
	Allowed      bool    `json:"allowed"`
	Reason       string  `json:"reason,omitempty"`
	CurrentSpent float64 `json:"current_spent,omitempty"`
	Budget       float64 `json:"budget,omitempty"`
}

// CheckBudgetAllowance reports whether cost fits within the remaining
// budget. Spend is always recomputed fresh; transactions accumulate
// between calls so a cached figure would go stale.
func (s *BudgetService) CheckBudgetAllowance(ctx context.Context, cost float64) (Allowance, error) {
	current, err := s.GetCurrentSpending(ctx, "")
	if err != nil {
		return Allowance{}, err
	}
	if current.Spent+cost > current.Budget {
		return Allowance{
			Allowed:      false,
			Reason:       "Exceeds budget cap",
			CurrentSpent: current.Spent,
			Budget:       current.Budget,
		}, nil
	}
	return Allowance{Allowed: true}, nil
}
