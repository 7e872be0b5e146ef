package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/thomaswaltmans/marketvault/internal/repository"
)

// refreshLookbackDays is the window the nightly refresh warms per symbol.
// Wide enough that the staleness policy inside the price cache decides the
// actual fetch size; the scheduler only picks the request window.
const refreshLookbackDays = 30

// RefreshScheduler keeps the price cache warm by requesting a trailing
// window for every registered asset on a cron schedule. Serving requests
// never depends on it; a cold cache just pays the provider cost inline.
type RefreshScheduler struct {
	cron         *cron.Cron
	assetRepo    *repository.AssetRepository
	priceService *PriceService
}

// NewRefreshScheduler creates a RefreshScheduler.
func NewRefreshScheduler(assetRepo *repository.AssetRepository, priceService *PriceService) *RefreshScheduler {
	return &RefreshScheduler{
		cron:         cron.New(),
		assetRepo:    assetRepo,
		priceService: priceService,
	}
}

// Register adds the refresh job under the given cron expression.
func (s *RefreshScheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		if err := s.RefreshAll(context.Background()); err != nil {
			log.Printf("[ERROR] price refresh: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("register price refresh: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *RefreshScheduler) Start() {
	s.cron.Start()
	log.Println("[INFO] price refresh scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *RefreshScheduler) Stop() {
	s.cron.Stop()
	log.Println("[INFO] price refresh scheduler stopped")
}

// RefreshAll warms the trailing price window for every registered asset.
// Exported so a refresh can also be triggered on demand.
func (s *RefreshScheduler) RefreshAll(ctx context.Context) error {
	symbols, err := s.assetRepo.GetDataSymbols()
	if err != nil {
		return fmt.Errorf("failed to load data symbols: %w", err)
	}
	if len(symbols) == 0 {
		return nil
	}

	end := dayUTC(time.Now()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -refreshLookbackDays)

	if _, err := s.priceService.GetClosePrices(ctx, symbols, start, end); err != nil {
		return fmt.Errorf("failed to refresh prices: %w", err)
	}

	log.Printf("[INFO] refreshed prices for %d symbols", len(symbols))
	return nil
}
