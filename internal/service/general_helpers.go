package service

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// RoundingPrecision is the number of decimal places kept in monetary output.
const RoundingPrecision = 2

// round rounds a float64 value to two decimal places, half away from zero.
// All monetary values leaving the service layer pass through it.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(0.005)       // returns 0.01
//	round(1.994)       // returns 1.99
//
// Non-finite values round to 0.
func round(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(RoundingPrecision).InexactFloat64()
}

// ratioOrZero returns num/den, or 0 when den is not positive.
// Used for every percentage in the portfolio view, where an empty denominator
// means "nothing to compare against" rather than an error.
func ratioOrZero(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}

// percentOrZero returns num/den as a percentage, or 0 when den is not positive.
func percentOrZero(num, den float64) float64 {
	return ratioOrZero(num, den) * 100
}

// ratioOrUndefined returns num/den and false when den is not positive. Callers
// must treat the undefined case as a hard failure.
func ratioOrUndefined(num, den float64) (float64, bool) {
	if den <= 0 {
		return 0, false
	}
	return num / den, true
}

// dayOf truncates t to midnight UTC of its calendar date.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
