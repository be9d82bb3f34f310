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

// TransactionService owns the pending -> approved/rejected -> completed
// state machine and its risk scoring.
type TransactionService struct {
	store store.Store
	audit *AuditService
	log   zerolog.Logger
}

func NewTransactionService(s store.Store, audit *AuditService, log zerolog.Logger) *TransactionService {
	return &TransactionService{store: s, audit: audit, log: log}
}

// AssessRisk scores a transaction's anomaly indicators. Pure function of
// the transaction contents; computed once at creation and immutable
// afterwards. The rule set and its ordering are fixed business policy.
func AssessRisk(t *model.Transaction) model.RiskAssessment {
	warnings := []string{}
	level := model.RiskLow

	if t.TotalCost > 500 {
		warnings = append(warnings, "High transaction amount")
		level = model.RiskMedium
	}
	if t.TotalCost > 1000 {
		level = model.RiskHigh
	}
	if strings.Contains(strings.ToLower(t.Vendor), "blocked") {
		warnings = append(warnings, "Vendor blocked")
		level = model.RiskHigh
	}
	for _, item := range t.Items {
		if item.Quantity > 50 {
			warnings = append(warnings, fmt.Sprintf("Unusual quantity for %s: %g", item.Name, item.Quantity))
			if level == model.RiskLow {
				level = model.RiskMedium
			}
		}
	}
	if t.BudgetLimit != nil {
		switch {
		case t.TotalCost > *t.BudgetLimit:
			warnings = append(warnings, "Over budget")
			level = model.RiskHigh
		case *t.BudgetLimit > 0 && t.TotalCost > *t.BudgetLimit*0.8:
			warnings = append(warnings, "Approaching budget limit")
			if level == model.RiskLow {
				level = model.RiskMedium
			}
		}
	}

	if len(warnings) == 0 {
		warnings = []string{"No issues detected"}
	}
	score := 1
	switch level {
	case model.RiskMedium:
		score = 2
	case model.RiskHigh:
		score = 3
	}
	return model.RiskAssessment{Level: level, Warnings: warnings, Score: score}
}

// CreatePending validates and persists a new pending transaction with its
// one-time risk assessment.
func (s *TransactionService) CreatePending(ctx context.Context, items []model.TransactionItem, totalCost float64, vendor, userID string, budgetLimit *float64) (model.Transaction, error) {
	if len(items) == 0 {
		return model.Transaction{}, fmt.Errorf("transaction needs at least one item: %w", model.ErrValidation)
	}
	if totalCost < 0 {
		return model.Transaction{}, fmt.Errorf("total cost must be non-negative: %w", model.ErrValidation)
	}

	txn := model.Transaction{
		ID:          uuid.NewString(),
		Items:       items,
		TotalCost:   totalCost,
		Vendor:      strings.TrimSpace(vendor),
		Status:      model.StatusPending,
		UserID:      userID,
		BudgetLimit: budgetLimit,
		AuditTrail:  []model.AuditTrailEntry{},
		CreatedAt:   time.Now().UTC(),
	}
	risk := AssessRisk(&txn)
	txn.RiskAssessment = &risk

	if _, err := s.store.Transactions().Insert(txn); err != nil {
		return model.Transaction{}, err
	}
	if err := s.audit.LogAction(ctx, ActionTransactionCreated, EntityTransaction, txn.ID,
		map[string]interface{}{"status": model.StatusPending, "total_cost": totalCost, "vendor": txn.Vendor}, userID); err != nil {
		return model.Transaction{}, err
	}
	s.log.Info().Str("id", txn.ID).Float64("total_cost", totalCost).Str("risk", risk.Level).Msg("Created pending transaction")
	return txn, nil
}

// transition moves a pending transaction to nextStatus.
func (s *TransactionService) transition(id, fromStatus, nextStatus string, apply func(*model.Transaction)) (*model.Transaction, error) {
	existing := s.store.Transactions().FindOne(func(t *model.Transaction) bool { return t.ID == id })
	if existing == nil {
		return nil, fmt.Errorf("transaction %s: %w", id, model.ErrNotFound)
	}
	if existing.Status != fromStatus {
		return nil, fmt.Errorf("transaction %s is %s, not %s: %w", id, existing.Status, fromStatus, model.ErrInvalidState)
	}

	updated, err := s.store.Transactions().Update(
		func(t *model.Transaction) bool { return t.ID == id && t.Status == fromStatus },
		func(t *model.Transaction) {
			t.Status = nextStatus
			apply(t)
		},
	)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Lost a race between the status check and the update.
		return nil, fmt.Errorf("transaction %s is no longer %s: %w", id, fromStatus, model.ErrInvalidState)
	}
	return updated, nil
}

// Approve transitions a pending transaction to approved.
func (s *TransactionService) Approve(ctx context.Context, id, userID, reason string) (*model.Transaction, error) {
	now := time.Now().UTC()
	updated, err := s.transition(id, model.StatusPending, model.StatusApproved, func(t *model.Transaction) {
		t.ApprovedAt = &now
		t.ApprovedBy = userID
		t.ApprovalReason = reason
		t.AuditTrail = append(t.AuditTrail, model.AuditTrailEntry{
			Action: "APPROVED", Timestamp: now, UserID: userID, Reason: reason,
		})
	})
	if err != nil {
		return nil, err
	}
	if err := s.audit.LogAction(ctx, ActionPurchaseApproved, EntityTransaction, id,
		map[string]interface{}{"approved_by": userID, "reason": reason}, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Reject transitions a pending transaction to rejected (terminal). A
// non-empty reason is mandatory.
func (s *TransactionService) Reject(ctx context.Context, id, reason, userID string) (*model.Transaction, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("rejection reason is required: %w", model.ErrValidation)
	}
	now := time.Now().UTC()
	updated, err := s.transition(id, model.StatusPending, model.StatusRejected, func(t *model.Transaction) {
		t.RejectedAt = &now
		t.RejectedBy = userID
		t.RejectionReason = reason
		t.AuditTrail = append(t.AuditTrail, model.AuditTrailEntry{
			Action: "REJECTED", Timestamp: now, UserID: userID, Reason: reason,
		})
	})
	if err != nil {
		return nil, err
	}
	if err := s.audit.LogAction(ctx, ActionPurchaseRejected, EntityTransaction, id,
		map[string]interface{}{"rejected_by": userID, "reason": reason}, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Complete transitions an approved transaction to completed.
func (s *TransactionService) Complete(ctx context.Context, id, userID string) (*model.Transaction, error) {
	now := time.Now().UTC()
	updated, err := s.transition(id, model.StatusApproved, model.StatusCompleted, func(t *model.Transaction) {
		t.CompletedAt = &now
		t.AuditTrail = append(t.AuditTrail, model.AuditTrailEntry{
			Action: "COMPLETED", Timestamp: now, UserID: userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Pending lists transactions awaiting approval.
func (s *TransactionService) Pending(ctx context.Context) []model.Transaction {
	return s.store.Transactions().Find(func(t *model.Transaction) bool { return t.Status == model.StatusPending })
}

// HistoryPage is one page of transactions, newest first.
type HistoryPage struct {
	Transactions []model.Transaction `json:"transactions"`
	Total        int                 `json:"total"`
	Limit        int                 `json:"limit"`
	Offset       int                 `json:"offset"`
}

// History returns transactions newest first with the total count for
// pagination.
func (s *TransactionService) History(ctx context.Context, limit, offset int) HistoryPage {
	all := s.store.Transactions().List()
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	page := HistoryPage{Transactions: []model.Transaction{}, Total: len(all), Limit: limit, Offset: offset}
	if offset < len(all) {
		end := offset + limit
		if end > len(all) {
			end = len(all)
		}
		page.Transactions = all[offset:end]
	}
	return page
}

// Get returns one transaction by id.
func (s *TransactionService) Get(ctx context.Context, id string) (*model.Transaction, error) {
	txn := s.store.Transactions().FindOne(func(t *model.Transaction) bool { return t.ID == id })
	if txn == nil {
		return nil, fmt.Errorf("transaction %s: %w", id, model.ErrNotFound)
	}
	return txn, nil
}
