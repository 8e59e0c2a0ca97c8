package model

import "time"

// Asset types accepted on purchase.
const (
	AssetTypeStock  = "stock"
	AssetTypeCrypto = "crypto"
)

// Transaction represents a single ledger row for a user.
// Shares is signed: positive for a buy, negative for a sell of the same symbol,
// so that summing Shares per symbol yields the net position.
type Transaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Symbol    string    `json:"symbol"`
	Shares    float64   `json:"shares"`
	Price     float64   `json:"price"`
	Date      time.Time `json:"date"`
	AssetType string    `json:"assetType,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// IsBuy reports whether the row adds shares to the position.
func (t Transaction) IsBuy() bool {
	return t.Shares > 0
}

// SymbolAggregate holds the per-symbol ledger totals for one user.
// TotalCost and SharesBought are computed over buy rows only and are never
// reduced by sales.
type SymbolAggregate struct {
	Symbol       string  `json:"symbol"`
	NetShares    float64 `json:"netShares"`
	TotalCost    float64 `json:"totalCost"`
	SharesBought float64 `json:"sharesBought"`
}

// SaleResult is the informational outcome of recording a sale.
// RealizedGainLoss is reported to the caller and never persisted.
type SaleResult struct {
	Transaction      Transaction `json:"transaction"`
	AverageCost      float64     `json:"averageCost"`
	RealizedGainLoss float64     `json:"realizedGainLoss"`
	RemainingShares  float64     `json:"remainingShares"`
	Message          string      `json:"message"`
}

// IsProfit reports whether the sale booked a non-negative result.
func (r SaleResult) IsProfit() bool {
	return r.RealizedGainLoss >= 0
}
