package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
)

// ValuationService values ledger positions against live quotes.
type ValuationService struct {
	gateway quote.Gateway
}

// NewValuationService creates a new ValuationService backed by gateway.
func NewValuationService(gateway quote.Gateway) *ValuationService {
	return &ValuationService{gateway: gateway}
}

// ValuationResult holds the valued holdings, their totals, and the symbols left
// out because no quote was available.
type ValuationResult struct {
	Holdings []model.Holding
	Totals   model.PortfolioTotals
	Skipped  []string
}

// Value prices every aggregate with a live quote.
//
// A symbol whose quote cannot be fetched is skipped entirely: it contributes to
// no total and is listed in Skipped. A held symbol without buy rows aborts the
// valuation with apperrors.ErrNoBuyHistory since its P&L cannot be computed.
//
// Totals are summed from unrounded per-holding values and rounded once, so the
// grand total equals the sum of holding values within rounding.
func (s *ValuationService) Value(ctx context.Context, aggregates []model.SymbolAggregate) (ValuationResult, error) {
	result := ValuationResult{Holdings: make([]model.Holding, 0, len(aggregates))}

	var grandTotal, totalPL, totalDailyPL, totalInvested float64

	for _, agg := range aggregates {
		if agg.NetShares <= 0 {
			continue
		}

		q, ok := s.gateway.GetQuote(ctx, agg.Symbol)
		if !ok {
			logrus.WithField("symbol", agg.Symbol).Warn("no quote available, holding skipped from valuation")
			result.Skipped = append(result.Skipped, agg.Symbol)
			continue
		}

		avg, err := AverageCost(agg)
		if err != nil {
			return ValuationResult{}, fmt.Errorf("failed to value %s: %w", agg.Symbol, err)
		}

		shares := agg.NetShares
		prev := q.PreviousCloseOrPrice()

		value := shares * q.Price
		costBasis := shares * avg
		pl := value - costBasis
		dailyPL := (q.Price - prev) * shares
		change := q.Price - prev

		grandTotal += value
		totalPL += pl
		totalDailyPL += dailyPL
		totalInvested += costBasis

		name := q.Name
		if name == "" {
			name = agg.Symbol
		}

		result.Holdings = append(result.Holdings, model.Holding{
			Symbol:         agg.Symbol,
			Name:           name,
			Shares:         shares,
			Price:          q.Price,
			PreviousClose:  prev,
			AvgPrice:       round(avg),
			TotalValue:     round(value),
			CostBasis:      round(costBasis),
			TotalPL:        round(pl),
			TotalPLPct:     round(percentOrZero(pl, costBasis)),
			DailyPL:        round(dailyPL),
			PriceChangeAbs: round(change),
			PriceChangePct: round(percentOrZero(change, prev)),
		})
	}

	result.Totals = model.PortfolioTotals{
		GrandTotal:      round(grandTotal),
		TotalPL:         round(totalPL),
		TotalDailyPL:    round(totalDailyPL),
		TotalInvested:   round(totalInvested),
		TotalPLPct:      round(percentOrZero(totalPL, totalInvested)),
		TotalDailyPLPct: round(percentOrZero(totalDailyPL, grandTotal-totalDailyPL)),
	}

	return result, nil
}
