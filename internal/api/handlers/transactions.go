package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/middleware"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// ResetResponse reports how many ledger rows a reset removed.
type ResetResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

// History handles GET requests for the ledger of the current user, newest first.
//
// Endpoint: GET /api/transaction
// Response: 200 OK with array of Transaction
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.transactionService.History(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// Buy handles POST requests to log a purchase.
//
// Endpoint: POST /api/transaction/buy
// Request Body: BuyRequest (symbol, shares, price, date, assetType)
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or the symbol has no quote
// Error: 500 Internal Server Error if the row cannot be written
func (h *TransactionHandler) Buy(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.BuyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transaction, err := h.transactionService.Buy(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRecordPurchase.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// Sell handles POST requests to log a sale. The response carries the realized
// profit or loss, which is not stored.
//
// Endpoint: POST /api/transaction/sell
// Request Body: SellRequest (symbol, shares, price, date)
// Response: 201 Created with SaleResult
// Error: 400 Bad Request if validation fails, the symbol has no quote or not enough shares are held
// Error: 500 Internal Server Error if the row cannot be written
func (h *TransactionHandler) Sell(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SellRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.transactionService.Sell(r.Context(), middleware.UserID(r.Context()), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRecordSale.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, result)
}

// Delete handles DELETE requests to remove one transaction of the current user.
//
// Endpoint: DELETE /api/transaction/{uuid}
// Response: 204 No Content
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if the user has no such transaction
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	if err := h.transactionService.Delete(r.Context(), middleware.UserID(r.Context()), transactionID); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDeleteTransaction.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Reset handles POST requests to delete the whole ledger of the current user.
//
// Endpoint: POST /api/transaction/reset
// Response: 200 OK with ResetResponse
func (h *TransactionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	n, err := h.transactionService.Reset(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToResetPortfolio.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, ResetResponse{
		Message: "Your portfolio has been reset!",
		Deleted: n,
	})
}
