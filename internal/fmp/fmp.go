// Package fmp is a client for the Financial Modeling Prep market data API.
package fmp

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

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://financialmodelingprep.com/api/v3"

// searchLimit caps the number of symbol search results.
const searchLimit = 10

// Client fetches quotes, historical prices and symbol searches from FMP.
// It implements quote.Provider.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewClient creates a new FMP client for the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
	}
}

// WithBaseURL points the client at a different API root.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// Quote returns the live quote for symbol.
// Returns quote.ErrNotFound when the API has no entry or no price for the symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (model.Quote, error) {
	var results []quoteResponse
	if err := c.get(ctx, "/quote/"+url.PathEscape(symbol), nil, &results); err != nil {
		return model.Quote{}, err
	}
	if len(results) == 0 || results[0].Price == nil {
		return model.Quote{}, fmt.Errorf("%w: %s", quote.ErrNotFound, symbol)
	}

	r := results[0]
	return model.Quote{
		Symbol:        r.Symbol,
		Name:          r.Name,
		Price:         *r.Price,
		PreviousClose: r.PreviousClose,
	}, nil
}

// Historical returns the daily close series for symbol keyed by YYYY-MM-DD.
func (c *Client) Historical(ctx context.Context, symbol string) (model.HistoricalSeries, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/historical-price-full/"+url.PathEscape(symbol), nil, &raw); err != nil {
		return nil, err
	}

	points, err := parseHistorical(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse historical prices for %s: %w", symbol, err)
	}

	series := make(model.HistoricalSeries, len(points))
	for _, p := range points {
		if p.Date == "" || p.Close == nil {
			continue
		}
		series[p.Date] = *p.Close
	}
	return series, nil
}

// parseHistorical accepts both the object and the bare array response forms.
func parseHistorical(raw json.RawMessage) ([]historicalPoint, error) {
	var obj historicalResponse
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Historical, nil
	}

	var list []historicalPoint
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Search finds symbols matching query. Crypto searches are restricted to the
// CRYPTO exchange; stock searches keep only USD listings.
func (c *Client) Search(ctx context.Context, query, assetType string) ([]model.SymbolMatch, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", fmt.Sprint(searchLimit))
	if assetType == model.AssetTypeCrypto {
		params.Set("exchange", "CRYPTO")
	}

	var results []searchResult
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}

	matches := make([]model.SymbolMatch, 0, len(results))
	for _, r := range results {
		if assetType == model.AssetTypeStock && r.Currency != "USD" {
			continue
		}
		matches = append(matches, model.SymbolMatch{
			Symbol:            r.Symbol,
			Name:              r.Name,
			Currency:          r.Currency,
			StockExchange:     r.StockExchange,
			ExchangeShortName: r.ExchangeShortName,
		})
	}
	return matches, nil
}

// get performs a GET against path and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("fmp error: %s", resp.Status)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode fmp response: %w", err)
	}
	return nil
}
