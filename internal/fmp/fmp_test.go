package fmp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
)

func newTestServer(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		//nolint:errcheck // Test server
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Quote(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/quote/AAPL":  `[{"symbol":"AAPL","name":"Apple Inc.","price":120.0,"previousClose":115.0}]`,
		"/quote/BTC":   `[{"symbol":"BTC","name":"Bitcoin","price":65000.5,"previousClose":null}]`,
		"/quote/EMPTY": `[]`,
		"/quote/NULL":  `[{"symbol":"NULL","name":"No Price","price":null}]`,
	})
	client := NewClient("test-key").WithBaseURL(srv.URL)
	ctx := context.Background()

	t.Run("parses price and previous close", func(t *testing.T) {
		q, err := client.Quote(ctx, "AAPL")
		if err != nil {
			t.Fatalf("Quote() returned unexpected error: %v", err)
		}
		if q.Name != "Apple Inc." || q.Price != 120 {
			t.Errorf("Unexpected quote: %+v", q)
		}
		if q.PreviousClose == nil || *q.PreviousClose != 115 {
			t.Errorf("Expected previous close 115, got %v", q.PreviousClose)
		}
	})

	t.Run("keeps missing previous close absent", func(t *testing.T) {
		q, err := client.Quote(ctx, "BTC")
		if err != nil {
			t.Fatalf("Quote() returned unexpected error: %v", err)
		}
		if q.PreviousClose != nil {
			t.Errorf("Expected nil previous close, got %v", *q.PreviousClose)
		}
		if q.PreviousCloseOrPrice() != 65000.5 {
			t.Errorf("Expected previous close to default to price, got %v", q.PreviousCloseOrPrice())
		}
	})

	t.Run("empty result and null price are not found", func(t *testing.T) {
		for _, symbol := range []string{"EMPTY", "NULL"} {
			if _, err := client.Quote(ctx, symbol); !errors.Is(err, quote.ErrNotFound) {
				t.Errorf("%s: expected ErrNotFound, got %v", symbol, err)
			}
		}
	})

	t.Run("http errors are returned", func(t *testing.T) {
		bad := NewClient("wrong-key").WithBaseURL(srv.URL)
		if _, err := bad.Quote(ctx, "AAPL"); err == nil {
			t.Error("Expected error for unauthorized request")
		}
	})
}

func TestClient_Historical(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/historical-price-full/AAPL": `{"symbol":"AAPL","historical":[{"date":"2024-05-31","close":192.25},{"date":"2024-05-30","close":191.29}]}`,
		"/historical-price-full/ETH":  `[{"date":"2024-05-31","close":3760.1},{"date":"","close":1},{"date":"2024-05-29"}]`,
	})
	client := NewClient("test-key").WithBaseURL(srv.URL)

	t.Run("object form", func(t *testing.T) {
		series, err := client.Historical(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Historical() returned unexpected error: %v", err)
		}
		if len(series) != 2 || series["2024-05-31"] != 192.25 {
			t.Errorf("Unexpected series: %v", series)
		}
	})

	t.Run("array form skips incomplete points", func(t *testing.T) {
		series, err := client.Historical(context.Background(), "ETH")
		if err != nil {
			t.Fatalf("Historical() returned unexpected error: %v", err)
		}
		if len(series) != 1 || series["2024-05-31"] != 3760.1 {
			t.Errorf("Unexpected series: %v", series)
		}
	})
}

func TestClient_Search(t *testing.T) {
	var gotExchange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotExchange = r.URL.Query().Get("exchange")
		//nolint:errcheck // Test server
		w.Write([]byte(`[
			{"symbol":"SHOP","name":"Shopify","currency":"USD","stockExchange":"NYSE","exchangeShortName":"NYSE"},
			{"symbol":"SHOP.TO","name":"Shopify","currency":"CAD","stockExchange":"TSX","exchangeShortName":"TSX"}
		]`))
	}))
	t.Cleanup(srv.Close)
	client := NewClient("test-key").WithBaseURL(srv.URL)

	t.Run("stock search keeps USD listings", func(t *testing.T) {
		matches, err := client.Search(context.Background(), "shop", "stock")
		if err != nil {
			t.Fatalf("Search() returned unexpected error: %v", err)
		}
		if len(matches) != 1 || matches[0].Symbol != "SHOP" {
			t.Errorf("Expected only SHOP, got %v", matches)
		}
		if gotExchange != "" {
			t.Errorf("Expected no exchange filter, got %q", gotExchange)
		}
	})

	t.Run("crypto search filters by exchange", func(t *testing.T) {
		matches, err := client.Search(context.Background(), "shop", "crypto")
		if err != nil {
			t.Fatalf("Search() returned unexpected error: %v", err)
		}
		if len(matches) != 2 {
			t.Errorf("Expected all matches for crypto, got %d", len(matches))
		}
		if gotExchange != "CRYPTO" {
			t.Errorf("Expected exchange=CRYPTO, got %q", gotExchange)
		}
	})
}
