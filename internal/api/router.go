package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/thomaswaltmans/marketvault/internal/api/handlers"
	custommiddleware "github.com/thomaswaltmans/marketvault/internal/api/middleware"
	"github.com/thomaswaltmans/marketvault/internal/config"
	"github.com/thomaswaltmans/marketvault/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	assetService *service.AssetService,
	transactionService *service.TransactionService,
	priceService *service.PriceService,
	analyticsService *service.AnalyticsService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/assets", func(r chi.Router) {
			assetHandler := handlers.NewAssetHandler(assetService)
			r.Get("/", assetHandler.Assets)
			r.Post("/", assetHandler.CreateAsset)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", assetHandler.GetAsset)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(transactionService)
			r.Get("/", transactionHandler.AllTransactions)
			r.Post("/", transactionHandler.CreateTransaction)
		})

		r.Route("/prices", func(r chi.Router) {
			pricesHandler := handlers.NewPricesHandler(priceService)
			r.Get("/", pricesHandler.ClosePrices)
		})

		r.Route("/dashboard", func(r chi.Router) {
			dashboardHandler := handlers.NewDashboardHandler(analyticsService)
			r.Get("/growth", dashboardHandler.Growth)
			r.Get("/allocation", dashboardHandler.Allocation)
			r.Get("/asset-growth", dashboardHandler.AssetGrowth)
		})
	})

	return r
}
