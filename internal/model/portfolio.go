package model

import "time"

// Holding is a currently held symbol valued against a live quote.
// All values are derived on every request and never persisted.
type Holding struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Shares         float64 `json:"shares"`
	Price          float64 `json:"price"`
	PreviousClose  float64 `json:"previousClose"`
	AvgPrice       float64 `json:"avgPrice"`
	TotalValue     float64 `json:"totalValue"`
	CostBasis      float64 `json:"costBasis"`
	TotalPL        float64 `json:"totalPl"`
	TotalPLPct     float64 `json:"totalPlPct"`
	DailyPL        float64 `json:"dailyPl"`
	PriceChangeAbs float64 `json:"priceChangeAbs"`
	PriceChangePct float64 `json:"priceChangePct"`
}

// PortfolioTotals aggregates all successfully priced holdings.
type PortfolioTotals struct {
	GrandTotal      float64 `json:"grandTotal"`
	TotalPL         float64 `json:"totalPl"`
	TotalDailyPL    float64 `json:"totalDailyPl"`
	TotalInvested   float64 `json:"totalInvested"`
	TotalPLPct      float64 `json:"totalPlPct"`
	TotalDailyPLPct float64 `json:"totalDailyPlPct"`
}

// GrowthPoint is a single valued bucket of the growth curve.
type GrowthPoint struct {
	Date      time.Time `json:"date"`
	Value     float64   `json:"value"`
	CostBasis float64   `json:"costBasis"`
	GainPct   float64   `json:"gainPct"`
}

// GrowthSeries is the chart-ready form of the growth curve: parallel slices, one
// entry per valued bucket, strictly ascending by date.
type GrowthSeries struct {
	Labels    []string  `json:"labels"`
	ValuesAbs []float64 `json:"values_abs"`
	ValuesPct []float64 `json:"values_pct"`
}

// Len returns the number of points in the series.
func (g GrowthSeries) Len() int {
	return len(g.Labels)
}

// Distribution is the per-symbol split of current value.
type Distribution struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// ChartData is the payload consumed by the presentation layer.
type ChartData struct {
	Distribution Distribution `json:"distribution"`
	Growth       GrowthSeries `json:"growth"`
}

// PortfolioView is the complete valuation of a user's portfolio.
// Skipped lists held symbols left out because no quote was available.
type PortfolioView struct {
	Holdings []Holding       `json:"holdings"`
	Totals   PortfolioTotals `json:"totals"`
	Skipped  []string        `json:"skipped,omitempty"`
	Chart    ChartData       `json:"chart"`
}
