package service

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/clock"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
)

const labelLayout = "2006-01-02"

// Granularity is the sampling interval of the growth curve.
type Granularity int

const (
	Daily Granularity = iota
	Weekly
	Monthly
)

func (g Granularity) String() string {
	switch g {
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		return "daily"
	}
}

// Span thresholds in days above which the curve is sampled more coarsely.
const (
	monthlyAfterDays = 365 * 2
	weeklyAfterDays  = 90
)

// ChooseGranularity picks the bucket size for a span so the number of points
// stays bounded: monthly beyond two years, weekly beyond 90 days, else daily.
func ChooseGranularity(start, end time.Time) Granularity {
	days := int(dayOf(end).Sub(dayOf(start)).Hours() / 24)
	switch {
	case days > monthlyAfterDays:
		return Monthly
	case days > weeklyAfterDays:
		return Weekly
	default:
		return Daily
	}
}

// bucketKey identifies the bucket d falls in. Weekly buckets are ISO weeks.
func (g Granularity) bucketKey(d time.Time) string {
	switch g {
	case Monthly:
		return fmt.Sprintf("%04d-%02d", d.Year(), d.Month())
	case Weekly:
		y, w := d.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	default:
		return d.Format(labelLayout)
	}
}

// priceIndex is a date-sorted close series for one symbol.
type priceIndex struct {
	dates  []time.Time
	prices []float64
}

// newPriceIndex builds an index from a sparse series, dropping entries whose key
// is not a date or whose close is not positive.
func newPriceIndex(series model.HistoricalSeries) priceIndex {
	idx := priceIndex{
		dates:  make([]time.Time, 0, len(series)),
		prices: make([]float64, 0, len(series)),
	}

	keys := make([]string, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		d, err := time.Parse(labelLayout, k)
		if err != nil || series[k] <= 0 {
			continue
		}
		idx.dates = append(idx.dates, d)
		idx.prices = append(idx.prices, series[k])
	}
	return idx
}

// at returns the close on target or, failing that, the latest close before it.
// Closes dated before floor are never used.
func (p priceIndex) at(target, floor time.Time) (float64, bool) {
	i := sort.Search(len(p.dates), func(i int) bool { return p.dates[i].After(target) }) - 1
	if i < 0 || p.dates[i].Before(floor) {
		return 0, false
	}
	return p.prices[i], true
}

// GrowthService reconstructs the historical value curve of a portfolio.
type GrowthService struct {
	gateway quote.Gateway
	clock   clock.Clock
}

// NewGrowthService creates a new GrowthService.
func NewGrowthService(gateway quote.Gateway, clk clock.Clock) *GrowthService {
	return &GrowthService{gateway: gateway, clock: clk}
}

// Build returns the growth curve in chart form. See Points.
func (s *GrowthService) Build(ctx context.Context, transactions []model.Transaction, heldSymbols []string) model.GrowthSeries {
	points := s.Points(ctx, transactions, heldSymbols)

	series := model.GrowthSeries{
		Labels:    make([]string, 0, len(points)),
		ValuesAbs: make([]float64, 0, len(points)),
		ValuesPct: make([]float64, 0, len(points)),
	}
	for _, p := range points {
		series.Labels = append(series.Labels, p.Date.Format(labelLayout))
		series.ValuesAbs = append(series.ValuesAbs, p.Value)
		series.ValuesPct = append(series.ValuesPct, p.GainPct)
	}
	return series
}

// Points samples the portfolio value from the earliest transaction up to today.
//
// Only heldSymbols take part: their historical closes are fetched once, and
// ledger rows of any other symbol are ignored, cost basis included. Each bucket
// is sampled on the first calendar day that falls in it. A held symbol missing a
// close on that day uses its latest earlier close within the span. Buckets where
// no symbol could be priced are omitted.
//
// The cost basis of a sample is the sum of all buys up to that day; sales do not
// reduce it.
func (s *GrowthService) Points(ctx context.Context, transactions []model.Transaction, heldSymbols []string) []model.GrowthPoint {
	if len(transactions) == 0 || len(heldSymbols) == 0 {
		return nil
	}

	ledger := slices.Clone(transactions)
	slices.SortStableFunc(ledger, func(a, b model.Transaction) int {
		return dayOf(a.Date).Compare(dayOf(b.Date))
	})

	start := dayOf(ledger[0].Date)
	end := clock.Today(s.clock)
	if start.After(end) {
		return nil
	}

	prices := make(map[string]priceIndex, len(heldSymbols))
	for _, sym := range heldSymbols {
		prices[sym] = newPriceIndex(s.gateway.GetHistorical(ctx, sym))
	}

	granularity := ChooseGranularity(start, end)

	var (
		points    []model.GrowthPoint
		shares    = make(map[string]float64, len(heldSymbols))
		costBasis float64
		cursor    int
		lastKey   string
	)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := granularity.bucketKey(d)
		if key == lastKey {
			continue
		}
		lastKey = key

		for ; cursor < len(ledger) && !dayOf(ledger[cursor].Date).After(d); cursor++ {
			t := ledger[cursor]
			if _, ok := prices[t.Symbol]; !ok {
				continue
			}
			shares[t.Symbol] += t.Shares
			if t.IsBuy() {
				costBasis += t.Shares * t.Price
			}
		}

		var value float64
		for sym, n := range shares {
			if n <= 0 {
				continue
			}
			if price, ok := prices[sym].at(d, start); ok {
				value += n * price
			}
		}

		if value <= 0 {
			continue
		}

		points = append(points, model.GrowthPoint{
			Date:      d,
			Value:     round(value),
			CostBasis: round(costBasis),
			GainPct:   round(percentOrZero(value-costBasis, costBasis)),
		})
	}

	return points
}
