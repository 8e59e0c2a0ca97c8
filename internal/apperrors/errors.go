package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist
	// for the requesting user.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no quote.
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientShares indicates that a sell transaction cannot be completed
	// because the user does not hold enough shares of the symbol.
	ErrInsufficientShares = errors.New("not enough shares to sell")

	// ErrInvalidSymbol indicates that a buy or sell could not be priced because the
	// quote provider does not know the symbol.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrMissingUser indicates that a request carried no user identifier.
	ErrMissingUser = errors.New("user ID is required")

	// ErrInvalidSymbolQuery indicates that a symbol path or query parameter was empty.
	ErrInvalidSymbolQuery = errors.New("symbol is required")
)

// Data integrity errors represent inconsistencies in the ledger.
var (
	// ErrNoBuyHistory indicates that a symbol has a positive net position or a pending
	// sale but no buy rows, which leaves the average cost undefined.
	ErrNoBuyHistory = errors.New("no buy history for symbol, average cost is undefined")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToGetPortfolio         = errors.New("failed to get portfolio")
	ErrFailedToRecordPurchase       = errors.New("failed to record purchase")
	ErrFailedToRecordSale           = errors.New("failed to record sale")
	ErrFailedToDeleteTransaction    = errors.New("failed to delete transaction")
	ErrFailedToResetPortfolio       = errors.New("failed to reset portfolio")
	ErrFailedToGetVersionInfo       = errors.New("failed to get version information")
)
