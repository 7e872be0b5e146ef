package yahoo

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance
// chart API. Quote arrays use pointers because Yahoo emits JSON null for
// days without data (halts, partial listings).
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top-level chart envelope of a Response.
type Chart struct {
	Result []Result `json:"result"`
	Error  *string  `json:"error"`
}

// Result holds one symbol's metadata, timestamps and price indicators.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta carries symbol metadata returned alongside the price data.
type Meta struct {
	Currency         string `json:"currency"`
	Symbol           string `json:"symbol"`
	ExchangeName     string `json:"exchangeName"`
	FullExchangeName string `json:"fullExchangeName"`
	LongName         string `json:"longName"`
	Shortname        string `json:"shortName"`
}

// IndicatorsContainer wraps the quote arrays of a Result.
type IndicatorsContainer struct {
	Quote []Quote `json:"quote"`
}

// Quote holds the daily OHLCV arrays, index-aligned with Result.Timestamp.
type Quote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// PriceChart is the parsed, application-facing form of one symbol's chart:
// symbol metadata plus a date-ascending series of daily closes. Days where
// Yahoo returned null closes are omitted.
type PriceChart struct {
	Currency string       `json:"currency"`
	Symbol   string       `json:"symbol"`
	Closes   []DailyClose `json:"closes"`
}

// DailyClose is a single trading day's closing price.
// Date is truncated to midnight UTC.
type DailyClose struct {
	Date  time.Time
	Close float64
}
