package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thomaswaltmans/marketvault/internal/model"
)

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	// Simple creation with defaults
//	asset := testutil.NewAsset().Build(t, db)
//
//	// Customized asset
//	asset := testutil.NewAsset().
//	    WithDataSymbol("VWCE.DE").
//	    WithAssetType(model.AssetTypeETF).
//	    Build(t, db)
type AssetBuilder struct {
	ID         string
	Ticker     string
	Name       string
	AssetType  string
	Currency   string
	Exchange   string
	DataSymbol string
}

// NewAsset creates an AssetBuilder with sensible defaults.
func NewAsset() *AssetBuilder {
	ticker := MakeSymbol("TST")
	return &AssetBuilder{
		ID:         MakeID(),
		Ticker:     ticker,
		Name:       "Test Asset " + ticker,
		AssetType:  model.AssetTypeStock,
		Currency:   "EUR",
		Exchange:   "XETRA",
		DataSymbol: ticker,
	}
}

// WithID sets a custom ID.
func (b *AssetBuilder) WithID(id string) *AssetBuilder {
	b.ID = id
	return b
}

// WithTicker sets a custom ticker.
func (b *AssetBuilder) WithTicker(ticker string) *AssetBuilder {
	b.Ticker = ticker
	return b
}

// WithAssetType sets a custom asset type.
func (b *AssetBuilder) WithAssetType(assetType string) *AssetBuilder {
	b.AssetType = assetType
	return b
}

// WithDataSymbol sets a custom provider symbol.
func (b *AssetBuilder) WithDataSymbol(symbol string) *AssetBuilder {
	b.DataSymbol = symbol
	return b
}

// Build inserts the asset and returns the resulting model.
func (b *AssetBuilder) Build(t *testing.T, db *sql.DB) model.Asset {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO asset (id, ticker, name, asset_type, currency, exchange, data_symbol)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.Ticker, b.Name, b.AssetType, b.Currency, b.Exchange, b.DataSymbol)
	if err != nil {
		t.Fatalf("Failed to insert test asset: %v", err)
	}

	return model.Asset{
		ID:         b.ID,
		Ticker:     b.Ticker,
		Name:       b.Name,
		AssetType:  b.AssetType,
		Currency:   b.Currency,
		Exchange:   b.Exchange,
		DataSymbol: b.DataSymbol,
	}
}

// TransactionBuilder provides a fluent interface for creating test
// transactions against an existing asset.
//
// Example usage:
//
//	testutil.NewTransaction(asset.ID).
//	    Buy(10, 100).
//	    On(testutil.Day(2026, 1, 5)).
//	    Build(t, db)
type TransactionBuilder struct {
	ID        string
	AssetID   string
	Type      string
	Quantity  *float64
	UnitPrice *float64
	DivAmount *float64
	Timestamp time.Time
}

// NewTransaction creates a TransactionBuilder for the given asset,
// defaulting to a buy of 1 share at 100.
func NewTransaction(assetID string) *TransactionBuilder {
	qty, price := 1.0, 100.0
	return &TransactionBuilder{
		ID:        MakeID(),
		AssetID:   assetID,
		Type:      model.TransactionBuy,
		Quantity:  &qty,
		UnitPrice: &price,
		Timestamp: time.Now().UTC(),
	}
}

// Buy configures the transaction as a buy.
func (b *TransactionBuilder) Buy(quantity, unitPrice float64) *TransactionBuilder {
	b.Type = model.TransactionBuy
	b.Quantity = &quantity
	b.UnitPrice = &unitPrice
	b.DivAmount = nil
	return b
}

// Sell configures the transaction as a sell.
func (b *TransactionBuilder) Sell(quantity, unitPrice float64) *TransactionBuilder {
	b.Type = model.TransactionSell
	b.Quantity = &quantity
	b.UnitPrice = &unitPrice
	b.DivAmount = nil
	return b
}

// Dividend configures the transaction as a dividend payout.
func (b *TransactionBuilder) Dividend(amount float64) *TransactionBuilder {
	b.Type = model.TransactionDividend
	b.Quantity = nil
	b.UnitPrice = nil
	b.DivAmount = &amount
	return b
}

// On sets the transaction timestamp.
func (b *TransactionBuilder) On(ts time.Time) *TransactionBuilder {
	b.Timestamp = ts
	return b
}

// Build inserts the transaction.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO "transaction" (id, asset_id, type, quantity, unit_price, div_amount, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.AssetID, b.Type, floatText(b.Quantity), floatText(b.UnitPrice), floatText(b.DivAmount), b.Timestamp.UTC().Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to insert test transaction: %v", err)
	}
}

// InsertPricePoint inserts a single close price for a symbol and day.
func InsertPricePoint(t *testing.T, db *sql.DB, symbol string, day time.Time, closePrice float64) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO price_point (id, symbol, date, close)
		VALUES (?, ?, ?, ?)
	`, MakeID(), symbol, day.UTC().Format("2006-01-02"), decimal.NewFromFloat(closePrice).String())
	if err != nil {
		t.Fatalf("Failed to insert test price point: %v", err)
	}
}

// InsertPriceRange inserts one close per calendar day in [start, end) at a
// constant price.
func InsertPriceRange(t *testing.T, db *sql.DB, symbol string, start, end time.Time, closePrice float64) {
	t.Helper()

	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		InsertPricePoint(t, db, symbol, day, closePrice)
	}
}

func floatText(v *float64) any {
	if v == nil {
		return nil
	}
	return decimal.NewFromFloat(*v).String()
}
