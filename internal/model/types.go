package model

import "time"

// Category values accepted for inventory items.
const (
	CategoryProduce = "produce"
	CategoryDairy   = "dairy"
	CategoryMeat    = "meat"
	CategoryPantry  = "pantry"
	CategoryFrozen  = "frozen"
	CategoryOther   = "other"
)

// Transaction lifecycle states. Transitions are one-directional:
// pending -> approved -> completed, or pending -> rejected.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// Risk levels assigned at transaction creation.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// InventoryItem is a perishable item tracked in the household inventory.
type InventoryItem struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Quantity       float64   `json:"quantity"`
	Unit           string    `json:"unit"`
	Price          float64   `json:"price"`
	ExpirationDate time.Time `json:"expiration_date"`
	PurchaseDate   time.Time `json:"purchase_date"`
	AddedAt        time.Time `json:"added_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UsageSample is one observation of an item's quantity, positioned
// relative to today.
type UsageSample struct {
	DaysAgo   float64   `json:"days_ago"`
	Quantity  float64   `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// UsageHistory holds the most-recent-first usage samples for one item,
// keyed by lower-cased item name. At most one record per name; the sample
// list is capped at 30.
type UsageHistory struct {
	Name    string        `json:"name"`
	History []UsageSample `json:"history"`
}

// TransactionItem is one line of a transaction.
type TransactionItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Category  string  `json:"category,omitempty"`
}

// RiskAssessment is computed once at transaction creation and never
// mutated afterwards.
type RiskAssessment struct {
	Level    string   `json:"level"`
	Warnings []string `json:"warnings"`
	Score    int      `json:"score"`
}

// AuditTrailEntry is an append-only record inside a transaction.
type AuditTrailEntry struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// Transaction is a money-movement record gated by the budget engine.
type Transaction struct {
	ID              string            `json:"id"`
	Items           []TransactionItem `json:"items"`
	TotalCost       float64           `json:"total_cost"`
	Vendor          string            `json:"vendor"`
	Status          string            `json:"status"`
	RiskAssessment  *RiskAssessment   `json:"risk_assessment,omitempty"`
	AuditTrail      []AuditTrailEntry `json:"audit_trail"`
	UserID          string            `json:"user_id,omitempty"`
	BudgetLimit     *float64          `json:"budget_limit,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	ApprovedAt      *time.Time        `json:"approved_at,omitempty"`
	ApprovedBy      string            `json:"approved_by,omitempty"`
	ApprovalReason  string            `json:"approval_reason,omitempty"`
	RejectedAt      *time.Time        `json:"rejected_at,omitempty"`
	RejectedBy      string            `json:"rejected_by,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}

// BudgetSetting is the single active cap for a period; overwritten, never
// historized.
type BudgetSetting struct {
	Cap       float64   `json:"cap"`
	Period    string    `json:"period"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditEntry is an immutable record of a state-changing action.
type AuditEntry struct {
	ID         string                 `json:"id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Changes    map[string]interface{} `json:"changes,omitempty"`
	UserID     string                 `json:"user_id"`
	Timestamp  time.Time              `json:"timestamp"`
}

// CartItem is one line of the active shopping cart.
type CartItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  float64 `json:"quantity"`
	Vendor    string  `json:"vendor"`
	Category  string  `json:"category,omitempty"`
}

// Cart holds the items staged for checkout.
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Product is a vendor catalog record, used verbatim as the price source
// of truth.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Rating   float64 `json:"rating"`
	InStock  bool    `json:"in_stock"`
	Vendor   string  `json:"vendor"`
}
