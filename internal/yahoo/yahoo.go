// Package yahoo is a client for the Yahoo Finance chart API. It implements
// quote.Provider for deployments without an FMP key.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/quote"
)

// DefaultBaseURL is the production chart API root.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// FinanceClient provides methods for fetching financial data from Yahoo Finance API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new Yahoo Finance client with default HTTP settings.
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
	}
}

// WithBaseURL points the client at a different chart API root.
func (c *FinanceClient) WithBaseURL(baseURL string) *FinanceClient {
	c.baseURL = baseURL
	return c
}

// Quote returns the live price from the chart metadata of the last five days.
// The previous close falls back from previousClose to chartPreviousClose and is
// left absent when neither is set.
func (c *FinanceClient) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	result, err := c.queryChart(ctx, symbol, "5d")
	if err != nil {
		return model.Quote{}, err
	}

	meta := result.Meta
	if meta.RegularMarketPrice == nil {
		return model.Quote{}, fmt.Errorf("%w: %s", quote.ErrNotFound, symbol)
	}

	prev := meta.PreviousClose
	if prev == nil {
		prev = meta.ChartPreviousClose
	}

	return model.Quote{
		Symbol:        meta.Symbol,
		Name:          meta.Name(),
		Price:         *meta.RegularMarketPrice,
		PreviousClose: prev,
	}, nil
}

// Historical returns the full daily close history for symbol keyed by YYYY-MM-DD.
func (c *FinanceClient) Historical(ctx context.Context, symbol string) (model.HistoricalSeries, error) {
	result, err := c.queryChart(ctx, symbol, "max")
	if err != nil {
		return nil, err
	}
	return ParseCloses(result)
}

// Search is not offered by the chart API; it always returns no matches.
func (c *FinanceClient) Search(_ context.Context, _, _ string) ([]model.SymbolMatch, error) {
	return []model.SymbolMatch{}, nil
}

// ParseCloses converts the timestamp and close arrays of a chart result into a
// historical series. Null closes are skipped.
func ParseCloses(result Result) (model.HistoricalSeries, error) {
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no close prices returned")
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths")
	}

	series := make(model.HistoricalSeries, len(closes))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		series[time.Unix(ts, 0).UTC().Format("2006-01-02")] = *closes[i]
	}
	return series, nil
}

// queryChart fetches daily chart data for symbol over rng (for example "5d" or "max").
func (c *FinanceClient) queryChart(ctx context.Context, symbol, rng string) (Result, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=%s", c.baseURL, url.PathEscape(symbol), url.QueryEscape(rng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Result{}, fmt.Errorf("failed to decode yahoo response: %w", err)
	}

	if response.Chart.Error != nil {
		if response.Chart.Error.Code == "Not Found" {
			return Result{}, fmt.Errorf("%w: %s", quote.ErrNotFound, symbol)
		}
		return Result{}, fmt.Errorf("yahoo error: %s", response.Chart.Error.Description)
	}
	if len(response.Chart.Result) == 0 {
		return Result{}, fmt.Errorf("%w: %s", quote.ErrNotFound, symbol)
	}

	return response.Chart.Result[0], nil
}
