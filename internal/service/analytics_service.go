package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/thomaswaltmans/marketvault/internal/model"
	"github.com/thomaswaltmans/marketvault/internal/repository"
)

const allocationPriceWindowDays = 30

// AnalyticsService derives portfolio-level figures from the transaction
// log and the price cache. All computations are day-granular: holdings and
// invested capital are rebuilt from the full log on every call, prices come
// through the caching PriceService.
//
// The clock is injected so "today" is a parameter of the computation, not
// an ambient dependency.
type AnalyticsService struct {
	transactionRepo *repository.TransactionRepository
	priceService    *PriceService
	now             func() time.Time
}

// NewAnalyticsService creates an AnalyticsService. A nil now falls back to
// time.Now.
func NewAnalyticsService(transactionRepo *repository.TransactionRepository, priceService *PriceService, now func() time.Time) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{
		transactionRepo: transactionRepo,
		priceService:    priceService,
		now:             now,
	}
}

// Growth computes the portfolio growth payload: daily portfolio value and
// net invested capital from the first transaction through today, trailing
// twelve month dividend figures and per-asset ROI and yield insights.
//
// A portfolio with no transactions, no holdings span or no price coverage
// yields the defined empty payload rather than an error.
func (s *AnalyticsService) Growth(ctx context.Context) (model.GrowthPayload, error) {
	txs, err := s.transactionRepo.GetTransactions()
	if err != nil {
		return model.GrowthPayload{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txs) == 0 {
		return model.EmptyGrowthPayload(), nil
	}

	today := dayUTC(s.now())
	holdings := buildHoldingsSeries(txs, today)
	if holdings.IsEmpty() {
		return model.EmptyGrowthPayload(), nil
	}
	invested := buildInvestedSeries(txs, today)

	prices, err := s.priceService.GetClosePrices(ctx, holdings.Symbols, holdings.Dates[0], today.AddDate(0, 0, 1))
	if err != nil {
		return model.GrowthPayload{}, fmt.Errorf("failed to load prices: %w", err)
	}
	if prices.IsEmpty() {
		return model.EmptyGrowthPayload(), nil
	}

	portfolioValue := valuationSeries(holdings, prices)
	investedTotal := make([]float64, len(invested.Dates))
	for _, symbol := range invested.Symbols {
		column := invested.Column(symbol)
		for i := range investedTotal {
			investedTotal[i] += column[i]
		}
	}

	payload := model.GrowthPayload{
		Dates:          formatDates(holdings.Dates),
		PortfolioValue: portfolioValue,
		Invested:       investedTotal,
		DividendsTTM:   ttmDividends(txs, today),
	}

	if value := portfolioValue[len(portfolioValue)-1]; value > 0 {
		payload.DividendYieldTTM = nullFloat(payload.DividendsTTM / value * 100)
	}

	payload.BestPerformer, payload.WorstPerformer, payload.TopDividendAsset = assetInsights(txs, holdings, invested, prices, today)

	return payload, nil
}

// Allocation computes the current allocation payload: each open position's
// market value from its latest close inside a short trailing price window.
// Positions without a positive value are dropped. Entries are ordered by
// asset type rank, then by value descending, then by symbol.
func (s *AnalyticsService) Allocation(ctx context.Context) (model.AllocationPayload, error) {
	txs, err := s.transactionRepo.GetTransactions()
	if err != nil {
		return model.AllocationPayload{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txs) == 0 {
		return model.EmptyAllocationPayload(), nil
	}

	today := dayUTC(s.now())
	holdings := buildHoldingsSeries(txs, today)
	if holdings.IsEmpty() {
		return model.EmptyAllocationPayload(), nil
	}

	prices, err := s.priceService.GetClosePrices(ctx, holdings.Symbols, today.AddDate(0, 0, -allocationPriceWindowDays), today.AddDate(0, 0, 1))
	if err != nil {
		return model.AllocationPayload{}, fmt.Errorf("failed to load prices: %w", err)
	}
	if prices.IsEmpty() {
		return model.EmptyAllocationPayload(), nil
	}

	types := assetTypesBySymbol(txs)
	lastIdx := len(holdings.Dates) - 1

	type position struct {
		symbol    string
		assetType string
		value     float64
	}
	var positions []position
	for _, symbol := range holdings.Symbols {
		price, ok := prices.Latest(symbol)
		if !ok {
			continue
		}
		value := holdings.Column(symbol)[lastIdx] * price
		if value <= 0 {
			continue
		}
		positions = append(positions, position{symbol: symbol, assetType: types[symbol], value: value})
	}

	sort.Slice(positions, func(i, j int) bool {
		pi, pj := model.AssetTypePriority(positions[i].assetType), model.AssetTypePriority(positions[j].assetType)
		if pi != pj {
			return pi < pj
		}
		if positions[i].value != positions[j].value {
			return positions[i].value > positions[j].value
		}
		return positions[i].symbol < positions[j].symbol
	})

	payload := model.EmptyAllocationPayload()
	for _, p := range positions {
		payload.Labels = append(payload.Labels, p.symbol)
		payload.Values = append(payload.Values, p.value)
		payload.AssetTypes = append(payload.AssetTypes, p.assetType)
	}

	return payload, nil
}

// AssetGrowth computes per-asset daily value and net-invested series over
// the shared holdings calendar. Symbols without any price coverage and
// symbols that never held value and never had capital invested are
// excluded; no price data at all yields the empty payload. Series are
// ordered by asset type rank, then by latest value descending, then by
// symbol.
func (s *AnalyticsService) AssetGrowth(ctx context.Context) (model.AssetGrowthPayload, error) {
	txs, err := s.transactionRepo.GetTransactions()
	if err != nil {
		return model.AssetGrowthPayload{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	if len(txs) == 0 {
		return model.EmptyAssetGrowthPayload(), nil
	}

	today := dayUTC(s.now())
	holdings := buildHoldingsSeries(txs, today)
	if holdings.IsEmpty() {
		return model.EmptyAssetGrowthPayload(), nil
	}
	invested := buildInvestedSeries(txs, today)

	prices, err := s.priceService.GetClosePrices(ctx, holdings.Symbols, holdings.Dates[0], today.AddDate(0, 0, 1))
	if err != nil {
		return model.AssetGrowthPayload{}, fmt.Errorf("failed to load prices: %w", err)
	}
	if prices.IsEmpty() {
		return model.EmptyAssetGrowthPayload(), nil
	}

	types := assetTypesBySymbol(txs)

	var series []model.AssetSeries
	for _, symbol := range holdings.Symbols {
		priceColumn, ok := prices.Column(symbol)
		if !ok {
			continue
		}
		held := holdings.Column(symbol)

		aligned := alignFilled(prices.Dates, priceColumn, holdings.Dates)
		value := make([]float64, len(holdings.Dates))
		for i := range value {
			value[i] = held[i] * aligned[i]
		}

		investedColumn := invested.Column(symbol)
		if investedColumn == nil {
			investedColumn = make([]float64, len(holdings.Dates))
		}

		if maxOf(value) <= 0 && maxOf(investedColumn) <= 0 {
			continue
		}

		series = append(series, model.AssetSeries{
			Symbol:    symbol,
			AssetType: types[symbol],
			Value:     value,
			Invested:  investedColumn,
		})
	}

	sort.Slice(series, func(i, j int) bool {
		pi, pj := model.AssetTypePriority(series[i].AssetType), model.AssetTypePriority(series[j].AssetType)
		if pi != pj {
			return pi < pj
		}
		vi, vj := lastOf(series[i].Value), lastOf(series[j].Value)
		if vi != vj {
			return vi > vj
		}
		return series[i].Symbol < series[j].Symbol
	})

	payload := model.EmptyAssetGrowthPayload()
	if len(series) == 0 {
		return payload, nil
	}
	payload.Dates = formatDates(holdings.Dates)
	payload.Series = series

	return payload, nil
}

func formatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format("2006-01-02")
	}
	return out
}

func lastOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
