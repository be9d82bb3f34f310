package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/RicheySon/smartcart-akedo/internal/config"
	"github.com/RicheySon/smartcart-akedo/internal/services"
	"github.com/RicheySon/smartcart-akedo/internal/store"
)

// NewRouter wires all API routes on top of the injected store.
func NewRouter(st store.Store, cfg *config.Config, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(Recover)
	router.Use(Metrics)

	// Domain services
	auditSvc := services.NewAuditService(st, log)
	inventorySvc := services.NewInventoryService(st, auditSvc, log)
	cartSvc := services.NewCartService(st, log)
	vendorSvc := services.NewVendorService(log)
	budgetSvc := services.NewBudgetService(st, auditSvc, cfg.DefaultBudgetCap, log)
	txnSvc := services.NewTransactionService(st, auditSvc, log)
	forecastSvc := services.NewForecastService(st, auditSvc, log)
	orderSvc := services.NewOrderService(st, cartSvc, budgetSvc, inventorySvc, auditSvc, log)

	// Handlers
	healthHandler := NewHealthHandler(func() bool { return st.Load() == nil })
	inventoryHandler := NewInventoryHandler(inventorySvc)
	cartHandler := NewCartHandler(cartSvc, vendorSvc)
	productHandler := NewProductHandler(vendorSvc)
	orderHandler := NewOrderHandler(orderSvc)
	txnHandler := NewTransactionHandler(txnSvc)
	budgetHandler := NewBudgetHandler(budgetSvc)
	auditHandler := NewAuditHandler(auditSvc)
	forecastHandler := NewForecastHandler(forecastSvc, inventorySvc)

	// Health and metrics
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Inventory endpoints. Fixed paths are registered before the {id}
	// wildcard so they are not shadowed.
	router.HandleFunc("/api/inventory", inventoryHandler.ListInventory).Methods("GET")
	router.HandleFunc("/api/inventory", inventoryHandler.AddItem).Methods("POST")
	router.HandleFunc("/api/inventory/expiring", inventoryHandler.Expiring).Methods("GET")
	router.HandleFunc("/api/inventory/value", inventoryHandler.TotalValue).Methods("GET")
	router.HandleFunc("/api/inventory/import-receipt", inventoryHandler.ImportReceipt).Methods("POST")
	router.HandleFunc("/api/inventory/{id}", inventoryHandler.GetItem).Methods("GET")
	router.HandleFunc("/api/inventory/{id}", inventoryHandler.UpdateItem).Methods("PUT")
	router.HandleFunc("/api/inventory/{id}", inventoryHandler.DeleteItem).Methods("DELETE")

	// Cart endpoints
	router.HandleFunc("/api/cart", cartHandler.GetCart).Methods("GET")
	router.HandleFunc("/api/cart", cartHandler.Clear).Methods("DELETE")
	router.HandleFunc("/api/cart/items", cartHandler.AddItem).Methods("POST")
	router.HandleFunc("/api/cart/items/{id}", cartHandler.RemoveItem).Methods("DELETE")

	// Product catalog endpoints
	router.HandleFunc("/api/products/search", productHandler.Search).Methods("GET")
	router.HandleFunc("/api/products/compare", productHandler.Compare).Methods("GET")

	// Order endpoints
	router.HandleFunc("/api/orders/preview", orderHandler.Preview).Methods("POST")
	router.HandleFunc("/api/orders", orderHandler.Place).Methods("POST")

	// Transaction workflow endpoints
	router.HandleFunc("/api/transactions", txnHandler.Create).Methods("POST")
	router.HandleFunc("/api/transactions", txnHandler.History).Methods("GET")
	router.HandleFunc("/api/transactions/pending", txnHandler.Pending).Methods("GET")
	router.HandleFunc("/api/transactions/{id}", txnHandler.Get).Methods("GET")
	router.HandleFunc("/api/transactions/{id}/approve", txnHandler.Approve).Methods("POST")
	router.HandleFunc("/api/transactions/{id}/reject", txnHandler.Reject).Methods("POST")
	router.HandleFunc("/api/transactions/{id}/complete", txnHandler.Complete).Methods("POST")

	// Budget endpoints
	router.HandleFunc("/api/budget", budgetHandler.Get).Methods("GET")
	router.HandleFunc("/api/budget", budgetHandler.Set).Methods("POST")
	router.HandleFunc("/api/budget/spending", budgetHandler.Spending).Methods("GET")

	// Audit endpoints
	router.HandleFunc("/api/audit", auditHandler.List).Methods("GET")
	router.HandleFunc("/api/audit/report", auditHandler.Report).Methods("GET")
	router.HandleFunc("/api/audit/purge", auditHandler.Purge).Methods("POST")

	// Forecast endpoints
	router.HandleFunc("/api/forecast/shopping-list", forecastHandler.ShoppingList).Methods("GET")
	router.HandleFunc("/api/forecast/items/{item}", forecastHandler.ItemForecast).Methods("GET")
	router.HandleFunc("/api/forecast/usage", forecastHandler.RecordUsage).Methods("POST")

	return router
}
