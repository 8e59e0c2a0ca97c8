package request

import (
	"bytes"
	"encoding/json"
)

// Amount is a numeric form field. It accepts both a JSON string and a JSON number
// and keeps the raw text so that validation can report non-numeric input.
type Amount string

// UnmarshalJSON accepts "12.5", 12.5 and null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

// BuyRequest represents the request body for logging a purchase.
type BuyRequest struct {
	Symbol    string `json:"symbol"`
	Shares    Amount `json:"shares"`
	Price     Amount `json:"price"`
	Date      string `json:"date"`
	AssetType string `json:"assetType"`
}

// SellRequest represents the request body for logging a sale.
type SellRequest struct {
	Symbol string `json:"symbol"`
	Shares Amount `json:"shares"`
	Price  Amount `json:"price"`
	Date   string `json:"date"`
}
