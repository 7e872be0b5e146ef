package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thomaswaltmans/marketvault/internal/apperrors"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// CloseMatrix maps provider symbol -> calendar day (midnight UTC) -> close
// price. It contains only the dates the provider actually has; gap filling
// happens in the price cache, not here.
type CloseMatrix map[string]map[time.Time]float64

// IsEmpty reports whether the matrix contains no price at all.
func (m CloseMatrix) IsEmpty() bool {
	for _, column := range m {
		if len(column) > 0 {
			return false
		}
	}
	return true
}

// Client is the market-data contract consumed by the price cache.
// Implementations fetch daily closing prices for a symbol set over an
// end-exclusive date range. A symbol the provider has no data for is simply
// absent from the result; an error is returned only for transient provider
// failures, so callers can distinguish "retry later" from "no data".
type Client interface {
	FetchDailyCloses(ctx context.Context, symbols []string, start, end time.Time) (CloseMatrix, error)
}

// FinanceClient fetches daily closing prices from the Yahoo Finance chart
// API. It performs one HTTP request per symbol; batching of symbol lists is
// the caller's concern.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

var _ Client = (*FinanceClient)(nil)

// NewFinanceClient creates a new Yahoo Finance client with default HTTP settings.
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
	}
}

// NewFinanceClientWithBaseURL creates a client pointed at an alternative
// endpoint. Used in tests to target an httptest server.
func NewFinanceClientWithBaseURL(baseURL string) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{},
		baseURL:    baseURL,
	}
}

// FetchDailyCloses fetches daily closes for all symbols over [start, end).
//
// Symbols the provider reports no data for are skipped; any transport or
// HTTP-level failure aborts the whole call with an error, leaving retry
// policy to the caller.
func (c *FinanceClient) FetchDailyCloses(ctx context.Context, symbols []string, start, end time.Time) (CloseMatrix, error) {
	if len(symbols) == 0 {
		return CloseMatrix{}, nil
	}
	if !start.Before(end) {
		return nil, apperrors.ErrInvalidDateRange
	}

	matrix := make(CloseMatrix, len(symbols))

	for _, symbol := range symbols {
		chart, err := c.querySymbolByDateRange(ctx, symbol, start, end)
		if err != nil {
			if isNoData(err) {
				continue
			}
			return nil, fmt.Errorf("failed to fetch closes for %s: %w", symbol, err)
		}

		if len(chart.Closes) == 0 {
			continue
		}

		column := make(map[time.Time]float64, len(chart.Closes))
		for _, dc := range chart.Closes {
			column[dc.Date] = dc.Close
		}
		matrix[symbol] = column
	}

	return matrix, nil
}

// querySymbolByDateRange fetches and parses one symbol's daily chart using
// Yahoo's period-based query format with Unix timestamps.
func (c *FinanceClient) querySymbolByDateRange(ctx context.Context, symbol string, start, end time.Time) (PriceChart, error) {
	url := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL,
		symbol,
		start.Unix(),
		end.Unix(),
	)

	result, err := c.queryYahoo(ctx, url)
	if err != nil {
		return PriceChart{}, err
	}

	if len(result.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("%w: %s", apperrors.ErrNoProviderData, symbol)
	}

	return ParseChart(result)
}

// ParseChart converts a raw chart API response into a PriceChart.
// Timestamps are truncated to their calendar day in UTC; entries with null
// closes are dropped. Returns ErrNoProviderData when the response carries
// no usable close series at all.
func ParseChart(response Response) (PriceChart, error) {
	result := response.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no timestamps", apperrors.ErrNoProviderData)
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no close prices", apperrors.ErrNoProviderData)
	}
	if len(result.Indicators.Quote[0].Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	closes := make([]DailyClose, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closePrice := result.Indicators.Quote[0].Close[i]
		if closePrice == nil {
			continue
		}
		day := time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
		closes = append(closes, DailyClose{Date: day, Close: *closePrice})
	}

	return PriceChart{
		Currency: result.Meta.Currency,
		Symbol:   result.Meta.Symbol,
		Closes:   closes,
	}, nil
}

// queryYahoo executes one HTTP request against the chart API.
// The User-Agent header mimics a browser; Yahoo blocks default Go clients.
func (c *FinanceClient) queryYahoo(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return Response{}, apperrors.ErrNoProviderData
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("%w: status %d", apperrors.ErrProviderUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", apperrors.ErrProviderUnavailable, err)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, fmt.Errorf("failed to decode chart response: %w", err)
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("%w: %s", apperrors.ErrNoProviderData, *response.Chart.Error)
	}

	return response, nil
}

func isNoData(err error) bool {
	return errors.Is(err, apperrors.ErrNoProviderData)
}
