package model

// Performer identifies the best or worst performing open position by ROI.
type Performer struct {
	Symbol string  `json:"symbol"`
	ROIPct float64 `json:"roi_pct"`
}

// DividendLeader identifies the open position with the highest trailing
// twelve month dividend yield.
type DividendLeader struct {
	Symbol              string  `json:"symbol"`
	DividendYieldTTMPct float64 `json:"dividend_yield_ttm_pct"`
}

// GrowthPayload is the portfolio growth chart payload: daily portfolio
// value and net invested capital over the holdings' calendar span, plus
// trailing-twelve-month dividend figures and per-asset insights.
//
// DividendYieldTTM and the insight pointers are nil when the metric is
// undefined (no value, no open positions, no defined ROI). Callers render
// nil as "no data", never as zero.
type GrowthPayload struct {
	Dates            []string        `json:"dates"`
	PortfolioValue   []float64       `json:"portfolio_value"`
	Invested         []float64       `json:"invested"`
	DividendsTTM     float64         `json:"dividends_ttm"`
	DividendYieldTTM *float64        `json:"dividend_yield_ttm"`
	BestPerformer    *Performer      `json:"best_performer"`
	WorstPerformer   *Performer      `json:"worst_performer"`
	TopDividendAsset *DividendLeader `json:"top_dividend_asset"`
}

// EmptyGrowthPayload returns the defined empty shape for a portfolio with
// no transactions, no holdings or no price coverage.
func EmptyGrowthPayload() GrowthPayload {
	return GrowthPayload{
		Dates:          []string{},
		PortfolioValue: []float64{},
		Invested:       []float64{},
	}
}

// AllocationPayload is the current-allocation pie chart payload. The three
// slices are parallel: labels[i] holds the symbol, values[i] its current
// position value and asset_types[i] its asset type.
type AllocationPayload struct {
	Labels     []string  `json:"labels"`
	Values     []float64 `json:"values"`
	AssetTypes []string  `json:"asset_types"`
}

// EmptyAllocationPayload returns the defined empty allocation shape.
func EmptyAllocationPayload() AllocationPayload {
	return AllocationPayload{
		Labels:     []string{},
		Values:     []float64{},
		AssetTypes: []string{},
	}
}

// AssetSeries is one symbol's daily value and net-invested series, aligned
// to the shared date index of an AssetGrowthPayload.
type AssetSeries struct {
	Symbol    string    `json:"symbol"`
	AssetType string    `json:"asset_type"`
	Value     []float64 `json:"value"`
	Invested  []float64 `json:"invested"`
}

// AssetGrowthPayload carries per-asset growth series for the asset
// drill-down chart.
type AssetGrowthPayload struct {
	Dates  []string      `json:"dates"`
	Series []AssetSeries `json:"series"`
}

// EmptyAssetGrowthPayload returns the defined empty asset-growth shape.
func EmptyAssetGrowthPayload() AssetGrowthPayload {
	return AssetGrowthPayload{
		Dates:  []string{},
		Series: []AssetSeries{},
	}
}
