package domain

import (
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with two decimals, rounding half away from
// zero: 194.4183 -> "194.42".
func FormatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// RoundMoney rounds an amount to cents for display and export.
func RoundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
