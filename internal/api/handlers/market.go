package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
)

// MarketHandler handles symbol search and stock detail requests.
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// Search handles GET requests to look up symbols.
//
// Endpoint: GET /api/market/search?q=apple&type=stock
// Response: 200 OK with array of SymbolMatch
// Error: 400 Bad Request if q is empty
func (h *MarketHandler) Search(w http.ResponseWriter, r *http.Request) {
	matches, err := h.marketService.Search(r.Context(), r.URL.Query().Get("q"), r.URL.Query().Get("type"))
	if err != nil {
		respondServiceError(w, err, "failed to search symbols")
		return
	}

	response.RespondJSON(w, http.StatusOK, matches)
}

// Stock handles GET requests for the quote, history and news of one symbol.
//
// Endpoint: GET /api/market/stock/{symbol}
// Response: 200 OK with StockDetail
// Error: 404 Not Found if the symbol has no quote
func (h *MarketHandler) Stock(w http.ResponseWriter, r *http.Request) {
	detail, err := h.marketService.StockDetail(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, err, "failed to load stock details")
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}
