package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction type values as stored in the transaction table.
const (
	TransactionBuy      = "BUY"
	TransactionSell     = "SELL"
	TransactionDividend = "DIVIDEND"
)

// Transaction represents a single portfolio event in the transaction log.
// BUY and SELL carry Quantity and UnitPrice; DIVIDEND carries DivAmount.
// The shape rules are enforced at the API boundary (internal/validation),
// so downstream consumers can rely on the populated fields per type.
//
// Symbol and AssetType are joined in from the asset table when loading the
// log, so the analytics pipeline never needs a second lookup.
type Transaction struct {
	ID        string              `json:"id"`
	AssetID   string              `json:"assetId"`
	Symbol    string              `json:"symbol"`
	AssetType string              `json:"assetType"`
	Type      string              `json:"type"`
	Quantity  decimal.NullDecimal `json:"quantity"`
	UnitPrice decimal.NullDecimal `json:"unitPrice"`
	DivAmount decimal.NullDecimal `json:"divAmount"`
	Timestamp time.Time           `json:"timestamp"`
	CreatedAt time.Time           `json:"createdAt,omitempty"`
}

// Date returns the calendar day of the transaction, truncated to midnight UTC.
func (t Transaction) Date() time.Time {
	ts := t.Timestamp.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
