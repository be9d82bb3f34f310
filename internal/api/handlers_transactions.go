package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/RicheySon/smartcart-akedo/internal/api/respond"
	"github.com/RicheySon/smartcart-akedo/internal/model"
	"github.com/RicheySon/smartcart-akedo/internal/services"
)

// TransactionHandler provides HTTP transport for the purchase approval
// workflow.
type TransactionHandler struct {
	svc *services.TransactionService
}

func NewTransactionHandler(svc *services.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// Create POST /api/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items       []model.TransactionItem `json:"items"`
		TotalCost   float64                 `json:"total_cost"`
		Vendor      string                  `json:"vendor"`
		BudgetLimit *float64                `json:"budget_limit,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	txn, err := h.svc.CreatePending(r.Context(), req.Items, req.TotalCost, req.Vendor, userIDFrom(r), req.BudgetLimit)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusCreated, txn)
}

// Pending GET /api/transactions/pending
func (h *TransactionHandler) Pending(w http.ResponseWriter, r *http.Request) {
	txns := h.svc.Pending(r.Context())
	respond.WriteData(w, http.StatusOK, map[string]interface{}{"transactions": txns, "count": len(txns)})
}

// History GET /api/transactions?limit=&offset=
func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	respond.WriteData(w, http.StatusOK, h.svc.History(r.Context(), limit, offset))
}

// Get GET /api/transactions/{id}
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.svc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, txn)
}

// Approve POST /api/transactions/{id}/approve
func (h *TransactionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	// Body is optional for approvals.
	_ = json.NewDecoder(r.Body).Decode(&req)
	txn, err := h.svc.Approve(r.Context(), mux.Vars(r)["id"], userIDFrom(r), req.Reason)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, txn)
}

// Reject POST /api/transactions/{id}/reject
func (h *TransactionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	txn, err := h.svc.Reject(r.Context(), mux.Vars(r)["id"], req.Reason, userIDFrom(r))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, txn)
}

// Complete POST /api/transactions/{id}/complete
func (h *TransactionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	txn, err := h.svc.Complete(r.Context(), mux.Vars(r)["id"], userIDFrom(r))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, txn)
}
