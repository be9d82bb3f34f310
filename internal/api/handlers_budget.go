package api

import (
	"encoding/json"
	"net/http"

	"github.com/RicheySon/smartcart-akedo/internal/api/respond"
	"github.com/RicheySon/smartcart-akedo/internal/services"
)

// BudgetHandler provides HTTP transport for budget settings and spending
// reports.
type BudgetHandler struct {
	svc *services.BudgetService
}

func NewBudgetHandler(svc *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{svc: svc}
}

// Get GET /api/budget
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	setting, err := h.svc.GetBudgetCap(r.Context())
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, setting)
}

// Set POST /api/budget
func (h *BudgetHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Cap    float64 `json:"cap"`
		Period string  `json:"period,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	setting, err := h.svc.SetBudgetCap(r.Context(), req.Cap, req.Period)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, setting)
}

// Spending GET /api/budget/spending?period=
func (h *BudgetHandler) Spending(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetCurrentSpending(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, report)
}
