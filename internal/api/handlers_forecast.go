package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/RicheySon/smartcart-akedo/internal/api/respond"
	"github.com/RicheySon/smartcart-akedo/internal/model"
	"github.com/RicheySon/smartcart-akedo/internal/services"
)

// ForecastHandler provides HTTP transport for usage tracking and
// run-out predictions.
type ForecastHandler struct {
	forecast  *services.ForecastService
	inventory *services.InventoryService
}

func NewForecastHandler(forecast *services.ForecastService, inventory *services.InventoryService) *ForecastHandler {
	return &ForecastHandler{forecast: forecast, inventory: inventory}
}

// ShoppingList GET /api/forecast/shopping-list
func (h *ForecastHandler) ShoppingList(w http.ResponseWriter, r *http.Request) {
	items := h.inventory.ListItems(r.Context())
	respond.WriteData(w, http.StatusOK, h.forecast.GenerateShoppingList(r.Context(), items))
}

// ItemForecast GET /api/forecast/items/{item}?target_days=N
// The path segment may be an inventory id or an item name.
func (h *ForecastHandler) ItemForecast(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["item"]
	item, err := h.inventory.GetItem(r.Context(), key)
	if err != nil {
		item = h.findByName(r.Context(), key)
		if item == nil {
			respond.FromError(w, err)
			return
		}
	}
	forecast := h.forecast.PredictItemRunOut(r.Context(), *item)
	targetDays, _ := strconv.Atoi(r.URL.Query().Get("target_days"))
	if targetDays <= 0 {
		targetDays = 7
	}
	rec := h.forecast.RecommendedQuantity(r.Context(), *item, targetDays)
	respond.WriteData(w, http.StatusOK, map[string]interface{}{
		"forecast":       forecast,
		"recommendation": rec,
	})
}

func (h *ForecastHandler) findByName(ctx context.Context, name string) *model.InventoryItem {
	for _, it := range h.inventory.ListItems(ctx) {
		if strings.EqualFold(strings.TrimSpace(it.Name), strings.TrimSpace(name)) {
			item := it
			return &item
		}
	}
	return nil
}

// RecordUsage POST /api/forecast/usage
func (h *ForecastHandler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Consumed    float64 `json:"consumed"`
		NewQuantity float64 `json:"new_quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Name == "" {
		respond.WriteBadRequest(w, "name is required")
		return
	}
	history, err := h.forecast.RecordUsage(r.Context(), req.Name, req.Consumed, req.NewQuantity)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, map[string]interface{}{"name": req.Name, "history": history})
}
