package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thomaswaltmans/marketvault/internal/model"
)

func buy(symbol string, ts time.Time, qty, price float64) model.Transaction {
	return model.Transaction{
		Symbol:    symbol,
		Type:      model.TransactionBuy,
		Quantity:  decimal.NewNullDecimal(decimal.NewFromFloat(qty)),
		UnitPrice: decimal.NewNullDecimal(decimal.NewFromFloat(price)),
		Timestamp: ts,
	}
}

func sell(symbol string, ts time.Time, qty, price float64) model.Transaction {
	t := buy(symbol, ts, qty, price)
	t.Type = model.TransactionSell
	return t
}

func dividend(symbol string, ts time.Time, amount float64) model.Transaction {
	return model.Transaction{
		Symbol:    symbol,
		Type:      model.TransactionDividend,
		DivAmount: decimal.NewNullDecimal(decimal.NewFromFloat(amount)),
		Timestamp: ts,
	}
}

// TestBuildHoldingsSeries tests the trade-log to daily-holdings derivation.
//
// WHY: Every analytics payload starts from this series. The rules under
// test: buys add, sells subtract, dividends leave holdings alone, days
// between trades carry the running total, and days before a symbol's first
// trade are zero.
func TestBuildHoldingsSeries(t *testing.T) {
	today := day(2026, 1, 10)

	t.Run("accumulates buys and sells per day", func(t *testing.T) {
		txs := []model.Transaction{
			buy("AAA", day(2026, 1, 5), 10, 100),
			buy("AAA", day(2026, 1, 7), 5, 110),
			sell("AAA", day(2026, 1, 9), 8, 120),
		}

		series := buildHoldingsSeries(txs, today)

		// Jan 5 through Jan 10 inclusive.
		if len(series.Dates) != 6 {
			t.Fatalf("Expected 6 days, got %d", len(series.Dates))
		}

		want := []float64{10, 10, 15, 15, 7, 7}
		column := series.Column("AAA")
		for i, v := range want {
			if column[i] != v {
				t.Errorf("Day %d: expected holdings %v, got %v", i, v, column[i])
			}
		}
	})

	t.Run("dividends do not move holdings", func(t *testing.T) {
		txs := []model.Transaction{
			buy("AAA", day(2026, 1, 5), 10, 100),
			dividend("AAA", day(2026, 1, 7), 25),
		}

		series := buildHoldingsSeries(txs, today)

		column := series.Column("AAA")
		for i, v := range column {
			if v != 10 {
				t.Errorf("Day %d: expected holdings 10, got %v", i, v)
			}
		}
	})

	t.Run("later symbols are zero before their first trade", func(t *testing.T) {
		txs := []model.Transaction{
			buy("AAA", day(2026, 1, 5), 10, 100),
			buy("BBB", day(2026, 1, 8), 3, 50),
		}

		series := buildHoldingsSeries(txs, today)

		column := series.Column("BBB")
		// Axis starts Jan 5; BBB holds nothing until Jan 8.
		for i := 0; i < 3; i++ {
			if column[i] != 0 {
				t.Errorf("Day %d: expected 0 before first trade, got %v", i, column[i])
			}
		}
		if column[3] != 3 {
			t.Errorf("Expected 3 from Jan 8, got %v", column[3])
		}
	})

	t.Run("no transactions yields an empty series", func(t *testing.T) {
		if series := buildHoldingsSeries(nil, today); !series.IsEmpty() {
			t.Error("Expected empty series")
		}
	})
}

// TestBuildInvestedSeries tests the signed cashflow accumulation.
func TestBuildInvestedSeries(t *testing.T) {
	today := day(2026, 1, 10)

	txs := []model.Transaction{
		buy("AAA", day(2026, 1, 5), 10, 100),   // +1000
		sell("AAA", day(2026, 1, 7), 4, 110),   // -440
		dividend("AAA", day(2026, 1, 9), 25),   // -25
	}

	series := buildInvestedSeries(txs, today)
	column := series.Column("AAA")

	want := []float64{1000, 1000, 560, 560, 535, 535}
	for i, v := range want {
		if column[i] != v {
			t.Errorf("Day %d: expected invested %v, got %v", i, v, column[i])
		}
	}
}

// TestAlignFilled tests resampling a filled series onto another axis.
func TestAlignFilled(t *testing.T) {
	dates := []time.Time{day(2026, 1, 5), day(2026, 1, 6)}
	values := []float64{100, 101}

	target := []time.Time{day(2026, 1, 4), day(2026, 1, 5), day(2026, 1, 6), day(2026, 1, 8)}
	got := alignFilled(dates, values, target)

	// Before the series the first value carries backward; after it the
	// last value carries forward.
	want := []float64{100, 100, 101, 101}
	for i, v := range want {
		if got[i] != v {
			t.Errorf("Index %d: expected %v, got %v", i, v, got[i])
		}
	}
}
