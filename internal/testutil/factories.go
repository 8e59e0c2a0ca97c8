package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// TransactionBuilder provides a fluent interface for creating ledger rows.
//
// Example usage:
//
//	// A buy of 10 AAPL at 100 with defaults
//	tx := testutil.NewTransaction(userID).Build(t, db)
//
//	// A sale of 4 shares at 130
//	tx := testutil.NewTransaction(userID).
//	    WithShares(4).
//	    WithPrice(130).
//	    Sell().
//	    Build(t, db)
type TransactionBuilder struct {
	ID        string
	UserID    string
	Symbol    string
	Shares    float64
	Price     float64
	Date      time.Time
	AssetType string
	CreatedAt time.Time
}

// NewTransaction creates a TransactionBuilder with defaults: a stock buy of
// 10 AAPL at 100 on FixedToday.
func NewTransaction(userID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:        MakeID(),
		UserID:    userID,
		Symbol:    "AAPL",
		Shares:    10,
		Price:     100,
		Date:      FixedToday,
		AssetType: model.AssetTypeStock,
		CreatedAt: FixedNow,
	}
}

// WithID sets a custom ID
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithSymbol sets the symbol
func (b *TransactionBuilder) WithSymbol(symbol string) *TransactionBuilder {
	b.Symbol = symbol
	return b
}

// WithShares sets the signed number of shares
func (b *TransactionBuilder) WithShares(shares float64) *TransactionBuilder {
	b.Shares = shares
	return b
}

// WithPrice sets the price per share
func (b *TransactionBuilder) WithPrice(price float64) *TransactionBuilder {
	b.Price = price
	return b
}

// WithDate sets the execution date
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.Date = date
	return b
}

// WithAssetType sets the asset type
func (b *TransactionBuilder) WithAssetType(assetType string) *TransactionBuilder {
	b.AssetType = assetType
	return b
}

// WithCreatedAt sets the insertion timestamp, used to order rows on the same date.
func (b *TransactionBuilder) WithCreatedAt(createdAt time.Time) *TransactionBuilder {
	b.CreatedAt = createdAt
	return b
}

// Sell turns the row into a sale by making its share count negative.
func (b *TransactionBuilder) Sell() *TransactionBuilder {
	if b.Shares > 0 {
		b.Shares = -b.Shares
	}
	b.AssetType = ""
	return b
}

// Model returns the transaction without writing it.
func (b *TransactionBuilder) Model() model.Transaction {
	return model.Transaction{
		ID:        b.ID,
		UserID:    b.UserID,
		Symbol:    b.Symbol,
		Shares:    b.Shares,
		Price:     b.Price,
		Date:      b.Date,
		AssetType: b.AssetType,
		CreatedAt: b.CreatedAt,
	}
}

// Build creates the transaction in the database
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO transactions (id, user_id, symbol, shares, price, date, asset_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var assetType any
	if b.AssetType != "" {
		assetType = b.AssetType
	}

	_, err := db.Exec(query,
		b.ID,
		b.UserID,
		b.Symbol,
		b.Shares,
		b.Price,
		b.Date.Format("2006-01-02"),
		assetType,
		b.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	return b.Model()
}

// Convenience functions

// CreateBuy records a buy of shares of symbol at price on date.
//
// Example usage:
//
//	testutil.CreateBuy(t, db, userID, "AAPL", 10, 100, testutil.Date(2024, 1, 2))
func CreateBuy(t *testing.T, db *sql.DB, userID, symbol string, shares, price float64, date time.Time) model.Transaction {
	t.Helper()
	return NewTransaction(userID).
		WithSymbol(symbol).
		WithShares(shares).
		WithPrice(price).
		WithDate(date).
		Build(t, db)
}

// CreateSell records a sale of shares of symbol at price on date.
func CreateSell(t *testing.T, db *sql.DB, userID, symbol string, shares, price float64, date time.Time) model.Transaction {
	t.Helper()
	return NewTransaction(userID).
		WithSymbol(symbol).
		WithShares(shares).
		WithPrice(price).
		WithDate(date).
		Sell().
		Build(t, db)
}
