package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/handlers"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/testutil"
)

func TestMarketHandler_Search(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.Matches = []model.SymbolMatch{{Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD"}}
	handler := handlers.NewMarketHandler(service.NewMarketService(gw))

	t.Run("returns matches", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/market/search", map[string]string{"q": "apple"})
		w := httptest.NewRecorder()

		handler.Search(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var matches []model.SymbolMatch
		if err := json.NewDecoder(w.Body).Decode(&matches); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if len(matches) != 1 || matches[0].Symbol != "AAPL" {
			t.Errorf("Unexpected matches: %v", matches)
		}
	})

	t.Run("returns 400 without query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/market/search", nil)
		w := httptest.NewRecorder()

		handler.Search(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestMarketHandler_Stock(t *testing.T) {
	gw := testutil.NewMockGateway().
		WithQuote("AAPL", 120, 115).
		WithHistorical("AAPL", model.HistoricalSeries{"2024-05-31": 118})
	gw.Articles = []model.Article{{Source: "Reuters", Title: "Apple ships"}}
	handler := handlers.NewMarketHandler(service.NewMarketService(gw))

	t.Run("returns quote, history and news", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/market/stock/aapl", map[string]string{"symbol": "aapl"})
		w := httptest.NewRecorder()

		handler.Stock(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var detail model.StockDetail
		if err := json.NewDecoder(w.Body).Decode(&detail); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if detail.Quote.Price != 120 || len(detail.Historical) != 1 || len(detail.News) != 1 {
			t.Errorf("Unexpected detail: %+v", detail)
		}
	})

	t.Run("returns 404 for unknown symbol", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/market/stock/nope", map[string]string{"symbol": "nope"})
		w := httptest.NewRecorder()

		handler.Stock(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
