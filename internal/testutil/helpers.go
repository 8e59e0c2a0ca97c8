package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/clock"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/events"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
)

// FixedNow is the wall-clock time of every test clock. FixedToday is its date.
var (
	FixedNow   = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	FixedToday = Date(2024, 6, 1)
)

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewTestClock returns a fake clock frozen at FixedNow.
func NewTestClock() *clock.Fake {
	return clock.NewFake(FixedNow)
}

// Services bundles the services wired the way the server wires them.
type Services struct {
	Ledger      *service.LedgerService
	Valuation   *service.ValuationService
	Growth      *service.GrowthService
	Transaction *service.TransactionService
	Portfolio   *service.PortfolioService
	Market      *service.MarketService
	System      *service.SystemService
}

// NewTestServices wires every service on db with gw as the quote gateway.
// publisher may be nil.
func NewTestServices(t *testing.T, db *sql.DB, gw *MockGateway, clk clock.Clock, publisher events.Publisher) *Services {
	t.Helper()

	transactionRepo := repository.NewTransactionRepository(db)
	ledger := service.NewLedgerService(transactionRepo)
	valuation := service.NewValuationService(gw)
	growth := service.NewGrowthService(gw, clk)

	return &Services{
		Ledger:      ledger,
		Valuation:   valuation,
		Growth:      growth,
		Transaction: service.NewTransactionService(transactionRepo, ledger, gw, publisher, clk),
		Portfolio:   service.NewPortfolioService(ledger, valuation, growth),
		Market:      service.NewMarketService(gw),
		System:      service.NewSystemService(db, nil),
	}
}

// NewTestLedgerService creates a LedgerService on db.
func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()
	return service.NewLedgerService(repository.NewTransactionRepository(db))
}

// NewTestTransactionService creates a TransactionService on db with the test clock.
func NewTestTransactionService(t *testing.T, db *sql.DB, gw *MockGateway) *service.TransactionService {
	t.Helper()
	return NewTestServices(t, db, gw, NewTestClock(), nil).Transaction
}

// NewTestPortfolioService creates a PortfolioService on db with the test clock.
func NewTestPortfolioService(t *testing.T, db *sql.DB, gw *MockGateway) *service.PortfolioService {
	t.Helper()
	return NewTestServices(t, db, gw, NewTestClock(), nil).Portfolio
}

// NewTestSystemService creates a SystemService on db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db, map[string]bool{"news": true})
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeUserID generates a unique user identifier for testing.
//
// Example usage:
//
//	userID := testutil.MakeUserID()
//	// Returns: "user-1A2B3C"
func MakeUserID() string {
	return "user-" + randomAlphanumeric(6)
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
