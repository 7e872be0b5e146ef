package service

import (
	"math"
	"time"

	"github.com/thomaswaltmans/marketvault/internal/model"
)

// PriceMatrix is a calendar-complete daily close price table: one row per
// calendar day in the requested range (not just trading days), one column
// per symbol that had any price data. Columns are forward-filled across
// weekends and holidays, then back-filled over leading gaps, so every cell
// holds a usable price. Symbols with no data at all carry no column.
type PriceMatrix struct {
	Dates   []time.Time
	Symbols []string

	columns map[string][]float64
}

// IsEmpty reports whether the matrix has no rows or no symbol columns.
func (m PriceMatrix) IsEmpty() bool {
	return len(m.Dates) == 0 || len(m.Symbols) == 0
}

// Column returns the close price series for a symbol, index-aligned with
// Dates. The second return is false when the symbol has no column.
func (m PriceMatrix) Column(symbol string) ([]float64, bool) {
	col, ok := m.columns[symbol]
	return col, ok
}

// Latest returns the last close in a symbol's column.
// The second return is false when the symbol has no column.
func (m PriceMatrix) Latest(symbol string) (float64, bool) {
	col, ok := m.columns[symbol]
	if !ok || len(col) == 0 {
		return 0, false
	}
	return col[len(col)-1], true
}

// newPriceMatrix assembles a matrix from stored price points.
// Requested symbols without any point in range are dropped rather than
// failing the request, which is how the cache degrades on bad symbols.
func newPriceMatrix(pointsBySymbol map[string][]model.PricePoint, symbols []string, start, end time.Time) PriceMatrix {
	dates := calendarDays(start, end)
	if len(dates) == 0 {
		return PriceMatrix{}
	}

	matrix := PriceMatrix{
		Dates:   dates,
		columns: make(map[string][]float64),
	}

	startDay := dates[0]
	for _, symbol := range symbols {
		points := pointsBySymbol[symbol]
		if len(points) == 0 {
			continue
		}

		column := make([]float64, len(dates))
		for i := range column {
			column[i] = math.NaN()
		}
		for _, p := range points {
			idx := int(p.Date.Sub(startDay).Hours() / 24)
			if idx < 0 || idx >= len(column) {
				continue
			}
			column[idx] = p.Close.InexactFloat64()
		}

		forwardFill(column)
		backFill(column)
		if math.IsNaN(column[0]) {
			// still empty after filling, drop the column
			continue
		}

		matrix.Symbols = append(matrix.Symbols, symbol)
		matrix.columns[symbol] = column
	}

	if len(matrix.Symbols) == 0 {
		return PriceMatrix{}
	}
	return matrix
}

// forwardFill carries the last known value across trailing NaN gaps.
func forwardFill(column []float64) {
	last := math.NaN()
	for i, v := range column {
		if math.IsNaN(v) {
			column[i] = last
		} else {
			last = v
		}
	}
}

// backFill propagates the first known value over a leading NaN gap.
func backFill(column []float64) {
	first := math.NaN()
	for _, v := range column {
		if !math.IsNaN(v) {
			first = v
			break
		}
	}
	for i := range column {
		if !math.IsNaN(column[i]) {
			break
		}
		column[i] = first
	}
}
