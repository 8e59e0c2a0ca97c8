package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
)

// LedgerService reads a user's transaction ledger and derives per-symbol positions.
type LedgerService struct {
	transactionRepo *repository.TransactionRepository
}

// NewLedgerService creates a new LedgerService with the provided repository.
func NewLedgerService(transactionRepo *repository.TransactionRepository) *LedgerService {
	return &LedgerService{transactionRepo: transactionRepo}
}

// Aggregates returns the currently held symbols of userID with their net shares and
// buy-only cost totals, sorted by symbol.
func (s *LedgerService) Aggregates(ctx context.Context, userID string) ([]model.SymbolAggregate, error) {
	return s.transactionRepo.GetAggregates(ctx, userID)
}

// SymbolAggregate returns the totals of one symbol, held or not.
func (s *LedgerService) SymbolAggregate(ctx context.Context, userID, symbol string) (model.SymbolAggregate, error) {
	return s.transactionRepo.GetSymbolAggregate(ctx, userID, symbol)
}

// NetShares returns the signed sum of all rows of symbol for userID.
func (s *LedgerService) NetShares(ctx context.Context, userID, symbol string) (float64, error) {
	agg, err := s.transactionRepo.GetSymbolAggregate(ctx, userID, symbol)
	if err != nil {
		return 0, err
	}
	return agg.NetShares, nil
}

// Transactions returns the full ledger of userID in execution order.
func (s *LedgerService) Transactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	return s.transactionRepo.GetTransactions(ctx, userID)
}

// HeldSymbols returns the symbols userID currently holds.
func (s *LedgerService) HeldSymbols(ctx context.Context, userID string) ([]string, error) {
	return s.transactionRepo.GetHeldSymbols(ctx, userID)
}

// AverageCost returns the all-time buy-weighted price per share of agg.
// Sales never change it. A symbol without buy rows has no average cost and
// yields apperrors.ErrNoBuyHistory.
func AverageCost(agg model.SymbolAggregate) (float64, error) {
	avg, ok := ratioOrUndefined(agg.TotalCost, agg.SharesBought)
	if !ok {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrNoBuyHistory, agg.Symbol)
	}
	return avg, nil
}
