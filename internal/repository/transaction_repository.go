package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// TransactionRepository provides data access methods for the transactions ledger.
// Rows are never updated: they are inserted, deleted one by one, or reset per user.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// InsertTransaction appends a row to the ledger.
func (r *TransactionRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO transactions (id, user_id, symbol, shares, price, date, asset_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var assetType sql.NullString
	if t.AssetType != "" {
		assetType = sql.NullString{String: t.AssetType, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Symbol,
		t.Shares,
		t.Price,
		t.Date.Format(dateLayout),
		assetType,
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes a single row owned by userID.
// Returns apperrors.ErrTransactionNotFound when no row matched.
func (r *TransactionRepository) DeleteTransaction(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// DeleteAllForUser removes every ledger row of userID and returns how many were removed.
func (r *TransactionRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to reset transactions: %w", err)
	}
	return result.RowsAffected()
}

// GetAggregates returns, per currently held symbol (net shares > 0), the net share count
// together with cost aggregates restricted to buy rows.
// Results are sorted by symbol.
func (r *TransactionRepository) GetAggregates(ctx context.Context, userID string) ([]model.SymbolAggregate, error) {
	query := `
		SELECT
			symbol,
			SUM(shares) AS net_shares,
			COALESCE(SUM(CASE WHEN shares > 0 THEN price * shares ELSE 0 END), 0) AS total_cost,
			COALESCE(SUM(CASE WHEN shares > 0 THEN shares ELSE 0 END), 0) AS shares_bought
		FROM transactions
		WHERE user_id = ?
		GROUP BY symbol
		HAVING net_shares > 0
		ORDER BY symbol ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query aggregates: %w", err)
	}
	defer rows.Close()

	aggregates := []model.SymbolAggregate{}
	for rows.Next() {
		var a model.SymbolAggregate
		if err := rows.Scan(&a.Symbol, &a.NetShares, &a.TotalCost, &a.SharesBought); err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}
		aggregates = append(aggregates, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aggregates: %w", err)
	}

	return aggregates, nil
}

// GetSymbolAggregate returns the ledger totals of a single symbol regardless of whether
// it is currently held. A symbol without rows yields a zero aggregate.
func (r *TransactionRepository) GetSymbolAggregate(ctx context.Context, userID, symbol string) (model.SymbolAggregate, error) {
	query := `
		SELECT
			COALESCE(SUM(shares), 0),
			COALESCE(SUM(CASE WHEN shares > 0 THEN price * shares ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN shares > 0 THEN shares ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = ? AND symbol = ?
	`

	a := model.SymbolAggregate{Symbol: symbol}
	err := r.db.QueryRowContext(ctx, query, userID, symbol).Scan(&a.NetShares, &a.TotalCost, &a.SharesBought)
	if err != nil {
		return model.SymbolAggregate{}, fmt.Errorf("failed to query symbol aggregate: %w", err)
	}
	return a, nil
}

// GetTransactions returns every ledger row of userID ordered by execution date
// ascending, ties broken by insertion time.
func (r *TransactionRepository) GetTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	return r.queryTransactions(ctx, `
		SELECT id, user_id, symbol, shares, price, date, asset_type, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY date ASC, created_at ASC
	`, userID)
}

// GetHistory returns every ledger row of userID, newest first.
func (r *TransactionRepository) GetHistory(ctx context.Context, userID string) ([]model.Transaction, error) {
	return r.queryTransactions(ctx, `
		SELECT id, user_id, symbol, shares, price, date, asset_type, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY date DESC, created_at DESC
	`, userID)
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var dateStr, createdAtStr string
		var assetType sql.NullString
		var t model.Transaction

		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Symbol,
			&t.Shares,
			&t.Price,
			&dateStr,
			&assetType,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		t.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, err
		}
		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}
		if assetType.Valid {
			t.AssetType = assetType.String
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// GetHeldSymbols returns the symbols with a positive net position for userID.
func (r *TransactionRepository) GetHeldSymbols(ctx context.Context, userID string) ([]string, error) {
	return r.querySymbols(ctx, `
		SELECT symbol
		FROM transactions
		WHERE user_id = ?
		GROUP BY symbol
		HAVING SUM(shares) > 0
		ORDER BY symbol ASC
	`, userID)
}

// GetAllHeldSymbols returns every symbol held by at least one user.
func (r *TransactionRepository) GetAllHeldSymbols(ctx context.Context) ([]string, error) {
	return r.querySymbols(ctx, `
		SELECT DISTINCT symbol FROM (
			SELECT symbol
			FROM transactions
			GROUP BY user_id, symbol
			HAVING SUM(shares) > 0
		)
		ORDER BY symbol ASC
	`)
}

func (r *TransactionRepository) querySymbols(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
