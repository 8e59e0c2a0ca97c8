package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// PortfolioService assembles the complete portfolio view of a user.
type PortfolioService struct {
	ledger    *LedgerService
	valuation *ValuationService
	growth    *GrowthService
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(ledger *LedgerService, valuation *ValuationService, growth *GrowthService) *PortfolioService {
	return &PortfolioService{
		ledger:    ledger,
		valuation: valuation,
		growth:    growth,
	}
}

// View values the current holdings of userID and builds the chart payload.
// The growth curve only covers holdings that could be priced.
func (s *PortfolioService) View(ctx context.Context, userID string) (*model.PortfolioView, error) {
	aggregates, err := s.ledger.Aggregates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetPortfolio, err)
	}

	valued, err := s.valuation.Value(ctx, aggregates)
	if err != nil {
		return nil, err
	}

	distribution := model.Distribution{
		Labels: make([]string, 0, len(valued.Holdings)),
		Values: make([]float64, 0, len(valued.Holdings)),
	}
	priced := make([]string, 0, len(valued.Holdings))
	for _, h := range valued.Holdings {
		distribution.Labels = append(distribution.Labels, h.Symbol)
		distribution.Values = append(distribution.Values, h.TotalValue)
		priced = append(priced, h.Symbol)
	}

	growth := model.GrowthSeries{Labels: []string{}, ValuesAbs: []float64{}, ValuesPct: []float64{}}
	if len(priced) > 0 {
		transactions, err := s.ledger.Transactions(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetPortfolio, err)
		}
		growth = s.growth.Build(ctx, transactions, priced)
	}

	return &model.PortfolioView{
		Holdings: valued.Holdings,
		Totals:   valued.Totals,
		Skipped:  valued.Skipped,
		Chart: model.ChartData{
			Distribution: distribution,
			Growth:       growth,
		},
	}, nil
}

// HeldSymbols returns the symbols userID can sell.
func (s *PortfolioService) HeldSymbols(ctx context.Context, userID string) ([]string, error) {
	symbols, err := s.ledger.HeldSymbols(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetPortfolio, err)
	}
	return symbols, nil
}
