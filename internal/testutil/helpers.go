package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/thomaswaltmans/marketvault/internal/provider/yahoo"
	"github.com/thomaswaltmans/marketvault/internal/repository"
	"github.com/thomaswaltmans/marketvault/internal/service"
)

// NewTestPriceService creates a PriceService backed by the given database
// and mock provider client, with default cache options.
func NewTestPriceService(t *testing.T, db *sql.DB, client yahoo.Client) *service.PriceService {
	t.Helper()

	pricePointRepo := repository.NewPricePointRepository(db)

	return service.NewPriceService(
		pricePointRepo,
		client,
		service.DefaultPriceCacheOptions(),
	)
}

// NewTestPriceServiceWithOptions creates a PriceService with custom cache
// options, for tests exercising the staleness and batching policy.
func NewTestPriceServiceWithOptions(t *testing.T, db *sql.DB, client yahoo.Client, opts service.PriceCacheOptions) *service.PriceService {
	t.Helper()

	pricePointRepo := repository.NewPricePointRepository(db)

	return service.NewPriceService(
		pricePointRepo,
		client,
		opts,
	)
}

// NewTestAnalyticsService creates an AnalyticsService with a pinned clock,
// so "today" is deterministic across test runs.
func NewTestAnalyticsService(t *testing.T, db *sql.DB, client yahoo.Client, today time.Time) *service.AnalyticsService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)
	priceService := NewTestPriceService(t, db, client)

	return service.NewAnalyticsService(
		transactionRepo,
		priceService,
		func() time.Time { return today },
	)
}

// NewTestTransactionService creates a TransactionService backed by the
// given database.
func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)
	assetRepo := repository.NewAssetRepository(db)

	return service.NewTransactionService(
		transactionRepo,
		assetRepo,
	)
}

// NewTestAssetService creates an AssetService backed by the given database.
func NewTestAssetService(t *testing.T, db *sql.DB) *service.AssetService {
	t.Helper()

	assetRepo := repository.NewAssetRepository(db)

	return service.NewAssetService(assetRepo)
}

// NewTestSystemService creates a SystemService backed by the given database.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// Day returns midnight UTC of the given calendar day, the canonical date
// representation throughout the price and analytics code.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
