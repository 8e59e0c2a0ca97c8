package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
)

const chartAAPL = `{"chart":{"result":[{
	"meta":{"currency":"USD","symbol":"AAPL","longName":"Apple Inc.","shortName":"Apple","regularMarketPrice":120.0,"chartPreviousClose":115.0},
	"timestamp":[1717113600,1717200000,1717286400],
	"indicators":{"quote":[{"close":[191.29,null,192.25]}]}
}],"error":null}}`

const chartNotFound = `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`

func newChartServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/AAPL"):
			//nolint:errcheck // Test server
			w.Write([]byte(chartAAPL))
		case strings.HasSuffix(r.URL.Path, "/BROKEN"):
			//nolint:errcheck // Test server
			w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusNotFound)
			//nolint:errcheck // Test server
			w.Write([]byte(chartNotFound))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFinanceClient_Quote(t *testing.T) {
	client := NewFinanceClient().WithBaseURL(newChartServer(t).URL)

	t.Run("reads price from chart meta", func(t *testing.T) {
		q, err := client.Quote(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Quote() returned unexpected error: %v", err)
		}
		if q.Price != 120 || q.Name != "Apple Inc." {
			t.Errorf("Unexpected quote: %+v", q)
		}
		if q.PreviousClose == nil || *q.PreviousClose != 115 {
			t.Errorf("Expected previous close 115, got %v", q.PreviousClose)
		}
	})

	t.Run("unknown symbol is not found", func(t *testing.T) {
		_, err := client.Quote(context.Background(), "NOPE")
		if !errors.Is(err, quote.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		_, err := client.Quote(context.Background(), "BROKEN")
		if err == nil || errors.Is(err, quote.ErrNotFound) {
			t.Errorf("Expected decode error, got %v", err)
		}
	})
}

func TestFinanceClient_Historical(t *testing.T) {
	client := NewFinanceClient().WithBaseURL(newChartServer(t).URL)

	series, err := client.Historical(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Historical() returned unexpected error: %v", err)
	}

	if len(series) != 2 {
		t.Fatalf("Expected 2 closes (null skipped), got %d: %v", len(series), series)
	}
	if series["2024-05-31"] != 191.29 {
		t.Errorf("Expected 191.29 on 2024-05-31, got %v", series["2024-05-31"])
	}
	if series["2024-06-02"] != 192.25 {
		t.Errorf("Expected 192.25 on 2024-06-02, got %v", series["2024-06-02"])
	}
}

func TestParseCloses(t *testing.T) {
	t.Run("mismatched lengths", func(t *testing.T) {
		one := 1.0
		_, err := ParseCloses(Result{
			Timestamp:  []int64{1, 2},
			Indicators: IndicatorsContainer{Quote: []Quote{{Close: []*float64{&one}}}},
		})
		if err == nil {
			t.Error("Expected error for mismatched lengths")
		}
	})

	t.Run("no quote series", func(t *testing.T) {
		if _, err := ParseCloses(Result{Timestamp: []int64{1}}); err == nil {
			t.Error("Expected error for missing close series")
		}
	})
}

func TestFinanceClient_Search(t *testing.T) {
	matches, err := NewFinanceClient().Search(context.Background(), "apple", "stock")
	if err != nil || len(matches) != 0 {
		t.Errorf("Expected empty search result, got %v, %v", matches, err)
	}
}
