package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/RicheySon/smartcart-akedo/internal/api/respond"
	"github.com/RicheySon/smartcart-akedo/internal/services"
)

// CartHandler provides HTTP transport for the active shopping cart.
type CartHandler struct {
	cart    *services.CartService
	vendors *services.VendorService
}

func NewCartHandler(cart *services.CartService, vendors *services.VendorService) *CartHandler {
	return &CartHandler{cart: cart, vendors: vendors}
}

// GetCart GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.GetCart(r.Context())
	if err != nil {
		respond.FromError(w, err)
		return
	}
	total, err := h.cart.CalculateTotal(r.Context())
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, map[string]interface{}{"cart": cart, "total": total})
}

// AddItem POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string  `json:"product_id"`
		Quantity  float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	product, err := h.vendors.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	cart, err := h.cart.AddToCart(r.Context(), *product, req.Quantity, product.Vendor)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, cart)
}

// RemoveItem DELETE /api/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.RemoveFromCart(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, cart)
}

// Clear DELETE /api/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context()); err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, map[string]interface{}{"cleared": true})
}

// ProductHandler exposes vendor catalog search and price comparison.
type ProductHandler struct {
	vendors *services.VendorService
}

func NewProductHandler(vendors *services.VendorService) *ProductHandler {
	return &ProductHandler{vendors: vendors}
}

// Search GET /api/products/search?q=&vendor=&category=&limit=
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	products := h.vendors.Search(r.Context(), q.Get("q"), q.Get("vendor"), q.Get("category"), limit)
	respond.WriteData(w, http.StatusOK, map[string]interface{}{"products": products, "count": len(products)})
}

// Compare GET /api/products/compare?name=
func (h *ProductHandler) Compare(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respond.WriteBadRequest(w, "name query parameter is required")
		return
	}
	cmp, err := h.vendors.Compare(r.Context(), name)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.WriteData(w, http.StatusOK, cmp)
}
