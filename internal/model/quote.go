package model

import "time"

// Quote is a live price snapshot for a symbol.
// PreviousClose is nil when the provider omitted it; consumers must treat absence
// as equal to Price for change computations.
type Quote struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	PreviousClose *float64 `json:"previousClose,omitempty"`
}

// PreviousCloseOrPrice returns PreviousClose, defaulting to Price when absent.
func (q Quote) PreviousCloseOrPrice() float64 {
	if q.PreviousClose == nil {
		return q.Price
	}
	return *q.PreviousClose
}

// HistoricalSeries maps an ISO calendar date (YYYY-MM-DD) to the closing price for
// one symbol. It is sparse: weekends, holidays and provider gaps have no entry.
type HistoricalSeries map[string]float64

// SymbolMatch is a single symbol search result.
type SymbolMatch struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Currency          string `json:"currency"`
	StockExchange     string `json:"stockExchange"`
	ExchangeShortName string `json:"exchangeShortName"`
}

// Article is a news article about a company.
type Article struct {
	Source      string    `json:"source"`
	Author      string    `json:"author,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"urlToImage,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}

// StockDetail combines everything shown for a single symbol.
type StockDetail struct {
	Quote      Quote            `json:"quote"`
	Historical HistoricalSeries `json:"historical"`
	News       []Article        `json:"news"`
}
