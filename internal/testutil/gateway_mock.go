package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// MockGateway is an in-memory quote.Gateway for testing.
// Symbols without an entry in Quotes are reported as unavailable.
type MockGateway struct {
	mu sync.Mutex

	Quotes     map[string]model.Quote
	Historical map[string]model.HistoricalSeries
	Matches    []model.SymbolMatch
	Articles   []model.Article

	// QuoteCalls and HistoricalCalls count lookups per symbol
	QuoteCalls      map[string]int
	HistoricalCalls map[string]int
}

// NewMockGateway creates an empty MockGateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Quotes:          map[string]model.Quote{},
		Historical:      map[string]model.HistoricalSeries{},
		QuoteCalls:      map[string]int{},
		HistoricalCalls: map[string]int{},
	}
}

// WithQuote registers a quote with a previous close.
func (m *MockGateway) WithQuote(symbol string, price, previousClose float64) *MockGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Quotes[symbol] = model.Quote{Symbol: symbol, Name: symbol + " Inc.", Price: price, PreviousClose: &previousClose}
	return m
}

// WithQuoteNoPreviousClose registers a quote whose previous close is absent.
func (m *MockGateway) WithQuoteNoPreviousClose(symbol string, price float64) *MockGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Quotes[symbol] = model.Quote{Symbol: symbol, Name: symbol + " Inc.", Price: price}
	return m
}

// WithHistorical registers a date → close series for symbol.
func (m *MockGateway) WithHistorical(symbol string, series model.HistoricalSeries) *MockGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Historical[symbol] = series
	return m
}

// GetQuote implements quote.Gateway.
func (m *MockGateway) GetQuote(_ context.Context, symbol string) (model.Quote, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	symbol = strings.ToUpper(symbol)
	m.QuoteCalls[symbol]++
	q, ok := m.Quotes[symbol]
	return q, ok
}

// GetHistorical implements quote.Gateway.
func (m *MockGateway) GetHistorical(_ context.Context, symbol string) model.HistoricalSeries {
	m.mu.Lock()
	defer m.mu.Unlock()
	symbol = strings.ToUpper(symbol)
	m.HistoricalCalls[symbol]++
	if s, ok := m.Historical[symbol]; ok {
		return s
	}
	return model.HistoricalSeries{}
}

// SearchSymbols implements quote.Gateway.
func (m *MockGateway) SearchSymbols(_ context.Context, _, _ string) []model.SymbolMatch {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Matches == nil {
		return []model.SymbolMatch{}
	}
	return m.Matches
}

// GetNews implements quote.Gateway.
func (m *MockGateway) GetNews(_ context.Context, _ string) []model.Article {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Articles == nil {
		return []model.Article{}
	}
	return m.Articles
}
