package fmp

// quoteResponse is a single element of the /quote endpoint array.
// Price and PreviousClose are pointers because the API returns null for
// symbols without trading data.
type quoteResponse struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Price         *float64 `json:"price"`
	PreviousClose *float64 `json:"previousClose"`
}

// historicalPoint is one day of the /historical-price-full endpoint.
type historicalPoint struct {
	Date  string   `json:"date"`
	Close *float64 `json:"close"`
}

// historicalResponse is the object form of /historical-price-full. Some symbols
// return a bare array of points instead.
type historicalResponse struct {
	Symbol     string            `json:"symbol"`
	Historical []historicalPoint `json:"historical"`
}

// searchResult is a single element of the /search endpoint array.
type searchResult struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Currency          string `json:"currency"`
	StockExchange     string `json:"stockExchange"`
	ExchangeShortName string `json:"exchangeShortName"`
}
