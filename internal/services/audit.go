package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RicheySon/smartcart-akedo/internal/model"
	"github.com/RicheySon/smartcart-akedo/internal/store"
)

// Audit action taxonomy. LogAction warns on values outside this set but
// still records them so new flows cannot crash existing ones.
const (
	ActionTransactionCreated = "TRANSACTION_CREATED"
	ActionPurchaseApproved   = "PURCHASE_APPROVED"
	ActionPurchaseRejected   = "PURCHASE_REJECTED"
	ActionOrderPlaced        = "ORDER_PLACED"
	ActionItemAdded          = "ITEM_ADDED"
	ActionItemUpdated        = "ITEM_UPDATED"
	ActionItemRemoved        = "ITEM_REMOVED"
	ActionBudgetUpdated      = "BUDGET_UPDATED"
	ActionUsageRecorded      = "USAGE_RECORDED"
)

// Audit entity taxonomy.
const (
	EntityTransaction   = "transaction"
	EntityInventoryItem = "inventory_item"
	EntityBudget        = "budget"
	EntityCart          = "cart"
	EntityUsage         = "usage"
)

var knownActions = map[string]bool{
	ActionTransactionCreated: true,
	ActionPurchaseApproved:   true,
	ActionPurchaseRejected:   true,
	ActionOrderPlaced:        true,
	ActionItemAdded:          true,
	ActionItemUpdated:        true,
	ActionItemRemoved:        true,
	ActionBudgetUpdated:      true,
	ActionUsageRecorded:      true,
}

var knownEntities = map[string]bool{
	EntityTransaction:   true,
	EntityInventoryItem: true,
	EntityBudget:        true,
	EntityCart:          true,
	EntityUsage:         true,
}

// AuditService appends immutable records for every state-changing action.
type AuditService struct {
	store store.Store
	log   zerolog.Logger
}

func NewAuditService(s store.Store, log zerolog.Logger) *AuditService {
	return &AuditService{store: s, log: log}
}

// LogAction stamps and appends one audit entry. Unknown action or entity
// values are logged as warnings, not rejected.
func (s *AuditService) LogAction(ctx context.Context, action, entityType, entityID string, changes map[string]interface{}, userID string) error {
	if !knownActions[action] {
		s.log.Warn().Str("action", action).Msg("Unknown audit action type")
	}
	if !knownEntities[entityType] {
		s.log.Warn().Str("entity_type", entityType).Msg("Unknown audit entity type")
	}
	if userID == "" {
		userID = "system"
	}

	entry := model.AuditEntry{
		ID:         uuid.NewString(),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    changes,
		UserID:     userID,
		Timestamp:  time.Now().UTC(),
	}
	if _, err := s.store.AuditLogs().Insert(entry); err != nil {
		return err
	}
	s.log.Debug().Str("action", action).Str("entity_type", entityType).Str("entity_id", entityID).Msg("Audit entry recorded")
	return nil
}

// AuditFilters narrows GetAuditLog results. Zero values mean "no filter".
type AuditFilters struct {
	Action     string
	EntityType string
	EntityID   string
	UserID     string
	Start      *time.Time
	End        *time.Time
	Limit      int
	Offset     int
}

// AuditLogPage is one page of matches, newest first.
type AuditLogPage struct {
	Entries []model.AuditEntry `json:"entries"`
	Total   int                `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
}

const defaultAuditPageSize = 50

// GetAuditLog returns filtered entries in most-recent-first order with
// limit/offset pagination.
func (s *AuditService) GetAuditLog(ctx context.Context, f AuditFilters) AuditLogPage {
	matches := s.store.AuditLogs().Find(func(e *model.AuditEntry) bool {
		if f.Action != "" && e.Action != f.Action {
			return false
		}
		if f.EntityType != "" && e.EntityType != f.EntityType {
			return false
		}
		if f.EntityID != "" && e.EntityID != f.EntityID {
			return false
		}
		if f.UserID != "" && e.UserID != f.UserID {
			return false
		}
		if f.Start != nil && e.Timestamp.Before(*f.Start) {
			return false
		}
		if f.End != nil && e.Timestamp.After(*f.End) {
			return false
		}
		return true
	})

	sortByTimestampDesc(matches)

	limit := f.Limit
	if limit <= 0 {
		limit = defaultAuditPageSize
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	page := AuditLogPage{Entries: []model.AuditEntry{}, Total: len(matches), Limit: limit, Offset: offset}
	if offset < len(matches) {
		end := offset + limit
		if end > len(matches) {
			end = len(matches)
		}
		page.Entries = matches[offset:end]
	}
	return page
}

// ComplianceChecks summarizes integrity conditions over the report range.
type ComplianceChecks struct {
	AllActionsTimestamped bool `json:"all_actions_timestamped"`
	UserTrackingPresent   bool `json:"user_tracking_present"`
}

// ComplianceReport aggregates audit activity by action, entity, user and
// day.
type ComplianceReport struct {
	TotalActions int               `json:"total_actions"`
	ByAction     map[string]int    `json:"by_action"`
	ByEntity     map[string]int    `json:"by_entity"`
	ByUser       map[string]int    `json:"by_user"`
	ByDay        map[string]int    `json:"by_day"`
	Checks       ComplianceChecks  `json:"checks"`
	Range        map[string]string `json:"range,omitempty"`
	GeneratedAt  time.Time         `json:"generated_at"`
}

// GenerateComplianceReport aggregates counts over the optional date range.
func (s *AuditService) GenerateComplianceReport(ctx context.Context, start, end *time.Time) ComplianceReport {
	entries := s.store.AuditLogs().Find(func(e *model.AuditEntry) bool {
		if start != nil && e.Timestamp.Before(*start) {
			return false
		}
		if end != nil && e.Timestamp.After(*end) {
			return false
		}
		return true
	})

	report := ComplianceReport{
		TotalActions: len(entries),
		ByAction:     map[string]int{},
		ByEntity:     map[string]int{},
		ByUser:       map[string]int{},
		ByDay:        map[string]int{},
		Checks:       ComplianceChecks{AllActionsTimestamped: true},
		GeneratedAt:  time.Now().UTC(),
	}
	if start != nil || end != nil {
		report.Range = map[string]string{}
		if start != nil {
			report.Range["start"] = start.Format(time.RFC3339)
		}
		if end != nil {
			report.Range["end"] = end.Format(time.RFC3339)
		}
	}

	for _, e := range entries {
		report.ByAction[e.Action]++
		report.ByEntity[e.EntityType]++
		report.ByUser[e.UserID]++
		if e.Timestamp.IsZero() {
			report.Checks.AllActionsTimestamped = false
		} else {
			report.ByDay[e.Timestamp.Format("2006-01-02")]++
		}
		if e.UserID != "" && e.UserID != "system" {
			report.Checks.UserTrackingPresent = true
		}
	}
	return report
}

// PurgeOlderThan removes audit entries older than age and returns how
// many were swept. This is the only path that ever deletes audit data.
func (s *AuditService) PurgeOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-age)
	removed := 0
	for {
		rec, err := s.store.AuditLogs().Remove(func(e *model.AuditEntry) bool {
			return e.Timestamp.Before(cutoff)
		})
		if err != nil {
			return removed, err
		}
		if rec == nil {
			break
		}
		removed++
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Time("cutoff", cutoff).Msg("Audit retention sweep completed")
	}
	return removed, nil
}

func sortByTimestampDesc(entries []model.AuditEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
}
