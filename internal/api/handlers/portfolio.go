package handlers

import (
	"net/http"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/middleware"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
)

// PortfolioHandler handles HTTP requests for the portfolio view.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// View handles GET requests for the valued portfolio of the current user.
// Holdings without a live quote are left out and listed under "skipped".
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with model.PortfolioView
// Error: 500 Internal Server Error if the ledger cannot be read
func (h *PortfolioHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.portfolioService.View(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPortfolio.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, view)
}

// Symbols handles GET requests for the symbols the current user can sell.
//
// Endpoint: GET /api/portfolio/symbols
// Response: 200 OK with array of symbols
func (h *PortfolioHandler) Symbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.portfolioService.HeldSymbols(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetPortfolio.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, symbols)
}
