package api

import (
	"net/http"

	"github.com/RicheySon/smartcart-akedo/internal/api/respond"
	"github.com/RicheySon/smartcart-akedo/internal/services"
)

// OrderHandler provides HTTP transport for checkout.
type OrderHandler struct {
	svc *services.OrderService
}

func NewOrderHandler(svc *services.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// Preview POST /api/orders/preview
func (h *OrderHandler) Preview(w http.ResponseWriter, r *http.Request) {
	preview, err := h.svc.PreviewOrder(r.Context())
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, preview)
}

// Place POST /api/orders
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.PlaceOrder(r.Context(), userIDFrom(r))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusCreated, result)
}
