package validation

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// Messages shown to the user when a trade is rejected.
const (
	MsgNotNumeric   = "shares and price must be numbers"
	MsgDateRequired = "must provide a transaction date"
	MsgDateFormat   = "date must be in YYYY-MM-DD format"
	MsgFutureDate   = "date cannot be in the future"
	MsgRequired     = "all fields are required"
	MsgAssetType    = "asset type must be stock or crypto"
	MsgTooLarge     = "shares and price must not exceed 1000000000"
)

// MaxAmount caps shares and price so that cost basis and market value stay finite.
const MaxAmount = 1e9

// ValidAssetType contains the allowed asset type values.
var ValidAssetType = map[string]bool{
	model.AssetTypeStock: true, model.AssetTypeCrypto: true,
}

// Trade is a validated buy or sell order.
type Trade struct {
	Symbol    string
	Shares    float64
	Price     float64
	Date      time.Time
	AssetType string
}

// ValidateBuy validates a purchase. Checks run in order and the first failure is
// returned: numeric shares and price, date present and well formed, date not after
// today, then all fields present and positive.
func ValidateBuy(req request.BuyRequest, today time.Time) (Trade, error) {
	shares, sharesErr := parseAmount(req.Shares)
	price, priceErr := parseAmount(req.Price)
	if sharesErr != nil || priceErr != nil {
		return Trade{}, fieldError("shares", MsgNotNumeric)
	}
	if shares > MaxAmount || price > MaxAmount {
		return Trade{}, fieldError("shares", MsgTooLarge)
	}

	date, err := validateDate(req.Date, today)
	if err != nil {
		return Trade{}, err
	}

	symbol := normalizeSymbol(req.Symbol)
	assetType := strings.ToLower(strings.TrimSpace(req.AssetType))
	if symbol == "" || shares <= 0 || price <= 0 || assetType == "" {
		return Trade{}, fieldError("form", MsgRequired)
	}
	if !ValidAssetType[assetType] {
		return Trade{}, fieldError("assetType", MsgAssetType)
	}

	return Trade{Symbol: symbol, Shares: shares, Price: price, Date: date, AssetType: assetType}, nil
}

// ValidateSell validates a sale. Shares must be a whole number.
func ValidateSell(req request.SellRequest, today time.Time) (Trade, error) {
	shares, sharesErr := strconv.Atoi(strings.TrimSpace(string(req.Shares)))
	price, priceErr := parseAmount(req.Price)
	if sharesErr != nil || priceErr != nil {
		return Trade{}, fieldError("shares", MsgNotNumeric)
	}
	if float64(shares) > MaxAmount || price > MaxAmount {
		return Trade{}, fieldError("shares", MsgTooLarge)
	}

	date, err := validateDate(req.Date, today)
	if err != nil {
		return Trade{}, err
	}

	symbol := normalizeSymbol(req.Symbol)
	if symbol == "" || shares <= 0 || price <= 0 {
		return Trade{}, fieldError("form", MsgRequired)
	}

	return Trade{Symbol: symbol, Shares: float64(shares), Price: price, Date: date}, nil
}

var errNotFinite = errors.New("amount is not a finite number")

// parseAmount parses a decimal amount. Values too large for a float64 are
// rejected as non-numeric.
func parseAmount(a request.Amount) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(string(a)))
	if err != nil {
		return 0, err
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errNotFinite
	}
	return f, nil
}

func validateDate(s string, today time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fieldError("date", MsgDateRequired)
	}
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fieldError("date", MsgDateFormat)
	}
	if date.After(today) {
		return time.Time{}, fieldError("date", MsgFutureDate)
	}
	return date, nil
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func fieldError(field, msg string) *Error {
	return &Error{Fields: map[string]string{field: msg}}
}
