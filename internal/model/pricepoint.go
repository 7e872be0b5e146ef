package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is a single daily closing price for a provider symbol.
// Points are unique per (symbol, date), written once by the price cache
// after a successful fetch, and never mutated or deleted afterwards.
type PricePoint struct {
	ID     string
	Symbol string
	Date   time.Time
	Close  decimal.Decimal
}
