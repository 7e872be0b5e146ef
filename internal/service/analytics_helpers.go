package service

import (
	"sort"
	"time"

	"github.com/thomaswaltmans/marketvault/internal/model"
)

// dailySeries is a calendar-complete set of per-symbol daily values over a
// shared date axis. Used for both holdings and invested-capital series.
type dailySeries struct {
	Dates   []time.Time
	Symbols []string
	columns map[string][]float64
}

func (s dailySeries) IsEmpty() bool {
	return len(s.Dates) == 0 || len(s.Symbols) == 0
}

func (s dailySeries) Column(symbol string) []float64 {
	return s.columns[symbol]
}

// buildHoldingsSeries derives per-symbol daily holdings from the trade
// history: buys add quantity, sells subtract it, dividends leave holdings
// untouched. The series runs from the first transaction date through today
// inclusive, with zero holdings before a symbol's first trade.
// Transactions must be timestamp-ascending.
func buildHoldingsSeries(txs []model.Transaction, today time.Time) dailySeries {
	return buildCumulativeSeries(txs, today, func(t model.Transaction) (float64, bool) {
		switch t.Type {
		case model.TransactionBuy:
			return t.Quantity.Decimal.InexactFloat64(), true
		case model.TransactionSell:
			return -t.Quantity.Decimal.InexactFloat64(), true
		default:
			return 0, false
		}
	})
}

// buildInvestedSeries derives per-symbol daily net invested capital: buys
// add quantity times unit price, sells subtract it, dividends subtract the
// dividend amount. Transactions must be timestamp-ascending.
func buildInvestedSeries(txs []model.Transaction, today time.Time) dailySeries {
	return buildCumulativeSeries(txs, today, cashflow)
}

// cashflow returns a transaction's signed contribution to net invested
// capital.
func cashflow(t model.Transaction) (float64, bool) {
	switch t.Type {
	case model.TransactionBuy:
		return t.Quantity.Decimal.Mul(t.UnitPrice.Decimal).InexactFloat64(), true
	case model.TransactionSell:
		return -t.Quantity.Decimal.Mul(t.UnitPrice.Decimal).InexactFloat64(), true
	case model.TransactionDividend:
		return -t.DivAmount.Decimal.InexactFloat64(), true
	default:
		return 0, false
	}
}

// buildCumulativeSeries accumulates a per-transaction delta into
// per-symbol daily running totals over a calendar axis from the first
// transaction through today inclusive.
func buildCumulativeSeries(txs []model.Transaction, today time.Time, delta func(model.Transaction) (float64, bool)) dailySeries {
	if len(txs) == 0 {
		return dailySeries{}
	}

	today = dayUTC(today)
	first := txs[0].Date()
	if first.After(today) {
		return dailySeries{}
	}
	dates := calendarDays(first, today.AddDate(0, 0, 1))

	// Per-symbol daily deltas, then a cumulative sweep.
	deltasBySymbol := map[string]map[time.Time]float64{}
	var symbols []string
	for _, t := range txs {
		d, ok := delta(t)
		if !ok {
			continue
		}
		if _, seen := deltasBySymbol[t.Symbol]; !seen {
			deltasBySymbol[t.Symbol] = map[time.Time]float64{}
			symbols = append(symbols, t.Symbol)
		}
		deltasBySymbol[t.Symbol][t.Date()] += d
	}

	columns := make(map[string][]float64, len(symbols))
	for _, symbol := range symbols {
		column := make([]float64, len(dates))
		running := 0.0
		for i, day := range dates {
			running += deltasBySymbol[symbol][day]
			column[i] = running
		}
		columns[symbol] = column
	}

	return dailySeries{Dates: dates, Symbols: symbols, columns: columns}
}

// alignCumulative resamples a cumulative series onto a target date axis by
// carrying the last value at or before each target date forward. Target
// dates before the series start map to zero.
func alignCumulative(dates []time.Time, values []float64, target []time.Time) []float64 {
	out := make([]float64, len(target))
	i := 0
	last := 0.0
	for j, day := range target {
		for i < len(dates) && !dates[i].After(day) {
			last = values[i]
			i++
		}
		out[j] = last
	}
	return out
}

// valuationSeries computes the portfolio's daily market value as the sum
// over symbols of holdings times the aligned daily close.
func valuationSeries(holdings dailySeries, prices PriceMatrix) []float64 {
	out := make([]float64, len(holdings.Dates))
	for _, symbol := range holdings.Symbols {
		held := holdings.Column(symbol)
		priceColumn, ok := prices.Column(symbol)
		if !ok {
			continue
		}
		aligned := alignFilled(prices.Dates, priceColumn, holdings.Dates)
		for i := range out {
			out[i] += held[i] * aligned[i]
		}
	}
	return out
}

// alignFilled resamples an already gap-filled series onto a target axis,
// carrying the nearest earlier value forward and the first value backward.
func alignFilled(dates []time.Time, values []float64, target []time.Time) []float64 {
	out := make([]float64, len(target))
	if len(dates) == 0 {
		return out
	}
	i := 0
	last := values[0]
	for j, day := range target {
		for i < len(dates) && !dates[i].After(day) {
			last = values[i]
			i++
		}
		out[j] = last
	}
	return out
}

// ttmDividends sums dividend amounts in the trailing twelve months before
// now (365-day cutoff, inclusive of the cutoff day).
func ttmDividends(txs []model.Transaction, now time.Time) float64 {
	cutoff := dayUTC(now).AddDate(0, 0, -365)
	total := 0.0
	for _, t := range txs {
		if t.Type != model.TransactionDividend {
			continue
		}
		if t.Date().Before(cutoff) {
			continue
		}
		total += t.DivAmount.Decimal.InexactFloat64()
	}
	return total
}

// ttmDividendsBySymbol is ttmDividends broken down per symbol.
func ttmDividendsBySymbol(txs []model.Transaction, now time.Time) map[string]float64 {
	cutoff := dayUTC(now).AddDate(0, 0, -365)
	totals := map[string]float64{}
	for _, t := range txs {
		if t.Type != model.TransactionDividend {
			continue
		}
		if t.Date().Before(cutoff) {
			continue
		}
		totals[t.Symbol] += t.DivAmount.Decimal.InexactFloat64()
	}
	return totals
}

// assetTypesBySymbol maps each traded symbol to its asset type, defaulting
// to STOCK when the transaction carries none.
func assetTypesBySymbol(txs []model.Transaction) map[string]string {
	types := map[string]string{}
	for _, t := range txs {
		if _, seen := types[t.Symbol]; seen {
			continue
		}
		assetType := t.AssetType
		if assetType == "" {
			assetType = model.AssetTypeStock
		}
		types[t.Symbol] = assetType
	}
	return types
}

// assetInsights computes the per-symbol headline figures for the growth
// payload: best and worst performer by ROI and the top dividend payer by
// trailing yield. Symbols without a positive net investment or without a
// current value are skipped from ROI ranking; yield additionally needs a
// nonzero trailing dividend.
func assetInsights(txs []model.Transaction, holdings, invested dailySeries, prices PriceMatrix, now time.Time) (best, worst *model.Performer, topDividend *model.DividendLeader) {
	if holdings.IsEmpty() {
		return nil, nil, nil
	}

	divBySymbol := ttmDividendsBySymbol(txs, now)

	symbols := append([]string(nil), holdings.Symbols...)
	sort.Strings(symbols)

	lastIdx := len(holdings.Dates) - 1
	for _, symbol := range symbols {
		priceColumn, ok := prices.Column(symbol)
		if !ok {
			continue
		}
		price := alignFilled(prices.Dates, priceColumn, holdings.Dates)[lastIdx]
		value := holdings.Column(symbol)[lastIdx] * price
		netInvested := 0.0
		if column := invested.Column(symbol); column != nil {
			netInvested = column[len(column)-1]
		}

		if netInvested > 0 && value > 0 {
			roi := (value - netInvested) / netInvested * 100
			if best == nil || roi > best.ROIPct {
				best = &model.Performer{Symbol: symbol, ROIPct: roi}
			}
			if worst == nil || roi < worst.ROIPct {
				worst = &model.Performer{Symbol: symbol, ROIPct: roi}
			}
		}

		if div := divBySymbol[symbol]; div > 0 && value > 0 {
			yield := div / value * 100
			if topDividend == nil || yield > topDividend.DividendYieldTTMPct {
				topDividend = &model.DividendLeader{Symbol: symbol, DividendYieldTTMPct: yield}
			}
		}
	}

	return best, worst, topDividend
}

// nullFloat wraps a float in a pointer, the payload representation of a
// nullable figure.
func nullFloat(v float64) *float64 {
	return &v
}
