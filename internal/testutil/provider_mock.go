package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/thomaswaltmans/marketvault/internal/provider/yahoo"
)

// FetchRequest records one call to the mock provider client.
type FetchRequest struct {
	Symbols []string
	Start   time.Time
	End     time.Time
}

// MockMarketDataClient is a mock implementation of yahoo.Client for testing.
// It returns predefined close data instead of making actual API calls, and
// records every call so tests can assert on fetch windows and call counts.
// Safe for concurrent use, since fetch jobs run on a worker pool.
type MockMarketDataClient struct {
	mu sync.Mutex

	// Matrix holds the closes to serve, keyed by symbol and day.
	Matrix yahoo.CloseMatrix
	// Err, when set, is returned by every call.
	Err error
	// FailuresBeforeSuccess makes the first N calls fail with Err, then
	// serve Matrix. Used for retry tests.
	FailuresBeforeSuccess int

	calls    int
	requests []FetchRequest
}

// NewMockMarketDataClient creates a mock client with an empty matrix.
func NewMockMarketDataClient() *MockMarketDataClient {
	return &MockMarketDataClient{Matrix: yahoo.CloseMatrix{}}
}

// WithClose adds one close price to the served matrix.
func (m *MockMarketDataClient) WithClose(symbol string, day time.Time, closePrice float64) *MockMarketDataClient {
	if m.Matrix[symbol] == nil {
		m.Matrix[symbol] = map[time.Time]float64{}
	}
	m.Matrix[symbol][day] = closePrice
	return m
}

// WithCloseRange adds one close per calendar day in [start, end) at a
// constant price.
func (m *MockMarketDataClient) WithCloseRange(symbol string, start, end time.Time, closePrice float64) *MockMarketDataClient {
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		m.WithClose(symbol, day, closePrice)
	}
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockMarketDataClient) WithError(err error) *MockMarketDataClient {
	m.Err = err
	return m
}

// FetchDailyCloses serves the configured matrix, restricted to the
// requested symbols and window.
func (m *MockMarketDataClient) FetchDailyCloses(_ context.Context, symbols []string, start, end time.Time) (yahoo.CloseMatrix, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.requests = append(m.requests, FetchRequest{
		Symbols: append([]string(nil), symbols...),
		Start:   start,
		End:     end,
	})

	if m.Err != nil && (m.FailuresBeforeSuccess == 0 || m.calls <= m.FailuresBeforeSuccess) {
		return nil, m.Err
	}

	result := yahoo.CloseMatrix{}
	for _, symbol := range symbols {
		for day, closePrice := range m.Matrix[symbol] {
			if day.Before(start) || !day.Before(end) {
				continue
			}
			if result[symbol] == nil {
				result[symbol] = map[time.Time]float64{}
			}
			result[symbol][day] = closePrice
		}
	}

	return result, nil
}

// Calls returns how many times FetchDailyCloses was invoked.
func (m *MockMarketDataClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Requests returns a copy of the recorded calls in invocation order.
func (m *MockMarketDataClient) Requests() []FetchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchRequest(nil), m.requests...)
}
