package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/RicheySon/smartcart-akedo/internal/api/respond"
	"github.com/RicheySon/smartcart-akedo/internal/services"
)

// InventoryHandler provides HTTP transport for inventory operations.
type InventoryHandler struct {
	svc *services.InventoryService
}

func NewInventoryHandler(svc *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

type inventoryItemRequest struct {
	Name           string     `json:"name"`
	Quantity       float64    `json:"quantity"`
	Category       string     `json:"category"`
	Unit           string     `json:"unit,omitempty"`
	Price          float64    `json:"price,omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// AddItem POST /api/inventory
func (h *InventoryHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req inventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	item, created, err := h.svc.AddItem(r.Context(), services.AddItemInput{
		Name:           req.Name,
		Quantity:       req.Quantity,
		Category:       req.Category,
		Unit:           req.Unit,
		Price:          req.Price,
		PurchaseDate:   req.PurchaseDate,
		ExpirationDate: req.ExpirationDate,
	}, userIDFrom(r))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond.WriteData(w, status, item)
}

// ListInventory GET /api/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items := h.svc.ListItems(r.Context())
	respond.WriteData(w, http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
}

// GetItem GET /api/inventory/{id}
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetItem(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, item)
}

// UpdateItem PUT /api/inventory/{id}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity       *float64   `json:"quantity,omitempty"`
		Price          *float64   `json:"price,omitempty"`
		Unit           *string    `json:"unit,omitempty"`
		ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	item, err := h.svc.UpdateItem(r.Context(), mux.Vars(r)["id"], services.UpdateItemInput{
		Quantity:       req.Quantity,
		Price:          req.Price,
		Unit:           req.Unit,
		ExpirationDate: req.ExpirationDate,
	}, userIDFrom(r))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, item)
}

// DeleteItem DELETE /api/inventory/{id}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.DeleteItem(r.Context(), mux.Vars(r)["id"], userIDFrom(r))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, item)
}

// Expiring GET /api/inventory/expiring?days=N
func (h *InventoryHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	items := h.svc.ExpiringSoon(r.Context(), days)
	respond.WriteData(w, http.StatusOK, map[string]interface{}{"items": items, "count": len(items)})
}

// TotalValue GET /api/inventory/value
func (h *InventoryHandler) TotalValue(w http.ResponseWriter, r *http.Request) {
	respond.WriteData(w, http.StatusOK, map[string]interface{}{
		"total_value": h.svc.TotalValue(r.Context()),
		"currency":    "USD",
	})
}

// ImportReceipt POST /api/inventory/import-receipt
func (h *InventoryHandler) ImportReceipt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items        []services.ReceiptLine `json:"items"`
		PurchaseDate *time.Time             `json:"purchase_date,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	result, err := h.svc.ImportReceipt(r.Context(), req.Items, req.PurchaseDate, userIDFrom(r))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, result)
}

// userIDFrom reads the caller identity header; authentication proper is
// out of scope.
func userIDFrom(r *http.Request) string {
	return r.Header.Get("X-User-Id")
}
