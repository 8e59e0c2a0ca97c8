package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/clock"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/events"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/validation"
)

// PublishTimeout bounds how long a committed trade waits on the event broker.
var PublishTimeout = 2 * time.Second

// TransactionService records purchases and sales and manages the ledger.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	ledger          *LedgerService
	gateway         quote.Gateway
	publisher       events.Publisher
	clock           clock.Clock
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
// A nil publisher disables ledger events.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	ledger *LedgerService,
	gateway quote.Gateway,
	publisher events.Publisher,
	clk clock.Clock,
) *TransactionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		ledger:          ledger,
		gateway:         gateway,
		publisher:       publisher,
		clock:           clk,
	}
}

// Buy validates and records a purchase. The symbol must resolve to a live quote,
// otherwise apperrors.ErrInvalidSymbol is returned and nothing is written.
func (s *TransactionService) Buy(ctx context.Context, userID string, req request.BuyRequest) (*model.Transaction, error) {
	trade, err := validation.ValidateBuy(req, clock.Today(s.clock))
	if err != nil {
		return nil, err
	}

	if _, ok := s.gateway.GetQuote(ctx, trade.Symbol); !ok {
		return nil, apperrors.ErrInvalidSymbol
	}

	tx := &model.Transaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Symbol:    trade.Symbol,
		Shares:    trade.Shares,
		Price:     trade.Price,
		Date:      trade.Date,
		AssetType: trade.AssetType,
		CreatedAt: s.clock.Now(),
	}

	if err := s.transactionRepo.InsertTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordPurchase, err)
	}

	s.publish(ctx, events.FromTransaction(events.TypeBuy, tx, s.clock.Now()))
	return tx, nil
}

// Sell validates a sale, computes its realized P&L against the all-time average
// cost and appends a row with negative shares.
//
// Returns apperrors.ErrInsufficientShares when more shares are sold than held and
// apperrors.ErrNoBuyHistory when the symbol was never bought. In both cases the
// ledger is unchanged.
func (s *TransactionService) Sell(ctx context.Context, userID string, req request.SellRequest) (*model.SaleResult, error) {
	trade, err := validation.ValidateSell(req, clock.Today(s.clock))
	if err != nil {
		return nil, err
	}

	if _, ok := s.gateway.GetQuote(ctx, trade.Symbol); !ok {
		return nil, apperrors.ErrInvalidSymbol
	}

	agg, err := s.ledger.SymbolAggregate(ctx, userID, trade.Symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordSale, err)
	}

	avg, pnl, err := RealizedGainLoss(agg, trade.Shares, trade.Price)
	if err != nil {
		return nil, err
	}

	tx := &model.Transaction{
		ID:        uuid.New().String(),
		UserID:    userID,
		Symbol:    trade.Symbol,
		Shares:    -trade.Shares,
		Price:     trade.Price,
		Date:      trade.Date,
		CreatedAt: s.clock.Now(),
	}

	if err := s.transactionRepo.InsertTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRecordSale, err)
	}

	s.publish(ctx, events.FromTransaction(events.TypeSell, tx, s.clock.Now()))

	pnl = round(pnl)
	return &model.SaleResult{
		Transaction:      *tx,
		AverageCost:      round(avg),
		RealizedGainLoss: pnl,
		RemainingShares:  agg.NetShares - trade.Shares,
		Message:          SaleMessage(pnl),
	}, nil
}

// RealizedGainLoss checks that agg holds at least shares and returns the average
// cost together with shares × (price − average cost).
func RealizedGainLoss(agg model.SymbolAggregate, shares, price float64) (avgCost, pnl float64, err error) {
	if agg.NetShares < shares {
		return 0, 0, apperrors.ErrInsufficientShares
	}
	avgCost, err = AverageCost(agg)
	if err != nil {
		return 0, 0, err
	}
	return avgCost, shares * (price - avgCost), nil
}

// SaleMessage renders the realized P&L of a sale as a user-facing message.
func SaleMessage(pnl float64) string {
	amount := money.NewFromFloat(math.Abs(pnl), money.USD).Display()
	if pnl >= 0 {
		return "Sold successfully! Realized Profit: " + amount
	}
	return "Sold successfully! Realized Loss: " + amount
}

// Delete removes one ledger row of userID.
func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := validation.ValidateUUID(id); err != nil {
		return err
	}
	if err := s.transactionRepo.DeleteTransaction(ctx, id, userID); err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", apperrors.ErrFailedToDeleteTransaction, err)
	}

	s.publish(ctx, events.Event{
		Type:          events.TypeDelete,
		UserID:        userID,
		TransactionID: id,
		OccurredAt:    s.clock.Now().UTC(),
	})
	return nil
}

// Reset removes the whole ledger of userID and returns the number of rows removed.
func (s *TransactionService) Reset(ctx context.Context, userID string) (int64, error) {
	n, err := s.transactionRepo.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperrors.ErrFailedToResetPortfolio, err)
	}

	s.publish(ctx, events.Event{
		Type:       events.TypeReset,
		UserID:     userID,
		OccurredAt: s.clock.Now().UTC(),
	})
	return n, nil
}

// History returns the ledger of userID, newest first.
func (s *TransactionService) History(ctx context.Context, userID string) ([]model.Transaction, error) {
	txs, err := s.transactionRepo.GetHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	return txs, nil
}

// publish sends e and only logs failures. The ledger write has already
// committed, so the send is detached from the caller and bounded by
// PublishTimeout.
func (s *TransactionService) publish(ctx context.Context, e events.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, e); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"type":   e.Type,
			"userId": e.UserID,
		}).Warn("failed to publish ledger event")
	}
}
