package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/RicheySon/smartcart-akedo/internal/model"
	"github.com/RicheySon/smartcart-akedo/internal/store"
)

// OrderService orchestrates cart checkout: budget check, transaction
// record, inventory update, cart clear.
type OrderService struct {
	store     store.Store
	cart      *CartService
	budget    *BudgetService
	inventory *InventoryService
	audit     *AuditService
	log       zerolog.Logger

	// checkoutMu serializes the check-then-act sequence so two concurrent
	// checkouts cannot both pass the allowance check before either commits.
	checkoutMu sync.Mutex
}

func NewOrderService(s store.Store, cart *CartService, budget *BudgetService, inventory *InventoryService, audit *AuditService, log zerolog.Logger) *OrderService {
	return &OrderService{store: s, cart: cart, budget: budget, inventory: inventory, audit: audit, log: log}
}

// OrderPreview is a non-mutating affordability report for the current cart.
type OrderPreview struct {
	Items        []model.CartItem `json:"items"`
	TotalCost    float64          `json:"total_cost"`
	CanAfford    bool             `json:"can_afford"`
	BudgetStatus Allowance        `json:"budget_status"`
	ItemCount    int              `json:"item_count"`
}

// PreviewOrder reads the cart, computes its total, and reports whether
// the budget allows it. Nothing is mutated.
func (s *OrderService) PreviewOrder(ctx context.Context) (OrderPreview, error) {
	cart, err := s.cart.GetCart(ctx)
	if err != nil {
		return OrderPreview{}, err
	}
	total, err := s.cart.CalculateTotal(ctx)
	if err != nil {
		return OrderPreview{}, err
	}
	allowance, err := s.budget.CheckBudgetAllowance(ctx, total)
	if err != nil {
		return OrderPreview{}, err
	}
	return OrderPreview{
		Items:        cart.Items,
		TotalCost:    total,
		CanAfford:    allowance.Allowed,
		BudgetStatus: allowance,
		ItemCount:    len(cart.Items),
	}, nil
}

// OrderResult reports a successful checkout.
type OrderResult struct {
	TransactionID string  `json:"transaction_id"`
	Total         float64 `json:"total"`
	Message       string  `json:"message"`
}

// PlaceOrder re-validates the cart and affordability on a fresh read,
// then commits: a completed transaction record, a best-effort inventory
// add per cart line (a failing line is logged and skipped, never aborts
// the checkout), and a cart clear. A failed budget check aborts before
// any mutation.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string) (OrderResult, error) {
	s.checkoutMu.Lock()
	defer s.checkoutMu.Unlock()

	cart, err := s.cart.GetCart(ctx)
	if err != nil {
		return OrderResult{}, err
	}
	if len(cart.Items) == 0 {
		return OrderResult{}, fmt.Errorf("cart is empty: %w", model.ErrValidation)
	}

	total, err := s.cart.CalculateTotal(ctx)
	if err != nil {
		return OrderResult{}, err
	}
	allowance, err := s.budget.CheckBudgetAllowance(ctx, total)
	if err != nil {
		return OrderResult{}, err
	}
	if !allowance.Allowed {
		return OrderResult{}, fmt.Errorf("%s: %w", allowance.Reason, model.ErrBudgetExceeded)
	}

	items := make([]model.TransactionItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, model.TransactionItem{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
			Category:  line.Category,
		})
	}
	txn := model.Transaction{
		ID:         uuid.NewString(),
		Items:      items,
		TotalCost:  total,
		Vendor:     cart.Items[0].Vendor,
		Status:     model.StatusCompleted,
		UserID:     userID,
		AuditTrail: []model.AuditTrailEntry{},
		CreatedAt:  time.Now().UTC(),
	}
	now := txn.CreatedAt
	txn.CompletedAt = &now
	if _, err := s.store.Transactions().Insert(txn); err != nil {
		return OrderResult{}, err
	}

	// Best-effort inventory application; partial application is an
	// accepted failure mode.
	for _, line := range cart.Items {
		category := line.Category
		if !validCategories[category] {
			category = model.CategoryOther
		}
		if _, _, err := s.inventory.AddItem(ctx, AddItemInput{
			Name:     line.Name,
			Quantity: line.Quantity,
			Category: category,
			Price:    line.Price,
		}, userID); err != nil {
			s.log.Warn().Str("item", line.Name).Err(err).Msg("Failed to add item to inventory during checkout")
		}
	}

	if err := s.cart.ClearCart(ctx); err != nil {
		return OrderResult{}, err
	}
	if err := s.audit.LogAction(ctx, ActionOrderPlaced, EntityTransaction, txn.ID,
		map[string]interface{}{"total": total, "items": len(items)}, userID); err != nil {
		return OrderResult{}, err
	}

	s.log.Info().Str("transaction_id", txn.ID).Float64("total", total).Msg("Order placed")
	return OrderResult{
		TransactionID: txn.ID,
		Total:         total,
		Message:       "Order placed and inventory updated.",
	}, nil
}
