package request

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// PricesQuery is the parsed query for the price matrix endpoint.
// End is exclusive.
type PricesQuery struct {
	Symbols []string
	Start   time.Time
	End     time.Time
}

// ParsePricesQuery parses and normalizes the symbols, start and end query
// parameters. Symbols are comma-separated, trimmed and deduplicated in
// first-seen order; dates are YYYY-MM-DD.
func ParsePricesQuery(values url.Values) (PricesQuery, error) {
	var q PricesQuery

	seen := map[string]bool{}
	for _, raw := range strings.Split(values.Get("symbols"), ",") {
		symbol := strings.TrimSpace(raw)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		q.Symbols = append(q.Symbols, symbol)
	}
	if len(q.Symbols) == 0 {
		return PricesQuery{}, fmt.Errorf("symbols is required")
	}

	var err error
	q.Start, err = time.Parse("2006-01-02", values.Get("start"))
	if err != nil {
		return PricesQuery{}, fmt.Errorf("invalid start date: %w", err)
	}
	q.End, err = time.Parse("2006-01-02", values.Get("end"))
	if err != nil {
		return PricesQuery{}, fmt.Errorf("invalid end date: %w", err)
	}

	return q, nil
}
