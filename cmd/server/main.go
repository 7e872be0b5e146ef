package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thomaswaltmans/marketvault/internal/api"
	"github.com/thomaswaltmans/marketvault/internal/config"
	"github.com/thomaswaltmans/marketvault/internal/database"
	"github.com/thomaswaltmans/marketvault/internal/provider/yahoo"
	"github.com/thomaswaltmans/marketvault/internal/repository"
	"github.com/thomaswaltmans/marketvault/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	assetRepo := repository.NewAssetRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	pricePointRepo := repository.NewPricePointRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	assetService := service.NewAssetService(assetRepo)
	transactionService := service.NewTransactionService(
		transactionRepo,
		assetRepo,
	)
	priceService := service.NewPriceService(
		pricePointRepo,
		yahoo.NewFinanceClient(),
		service.PriceCacheOptions{
			StalenessDays: cfg.MarketData.StalenessDays,
			OverlapDays:   cfg.MarketData.OverlapDays,
			BatchSize:     cfg.MarketData.BatchSize,
			Workers:       cfg.MarketData.Workers,
			FetchTimeout:  cfg.MarketData.FetchTimeout,
		},
	)
	analyticsService := service.NewAnalyticsService(
		transactionRepo,
		priceService,
		nil,
	)

	// Start the nightly price refresh
	if cfg.Scheduler.Enabled {
		scheduler := service.NewRefreshScheduler(assetRepo, priceService)
		if err := scheduler.Register(cfg.Scheduler.Cron); err != nil {
			log.Fatalf("Failed to register price refresh: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Create router
	router := api.NewRouter(systemService, assetService, transactionService, priceService, analyticsService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
