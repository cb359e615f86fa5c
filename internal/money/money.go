// Package money formats amounts for display. Amounts are kept as float64 by the
// computation engine and rounded to two decimals only here.
package money

import (
	"github.com/shopspring/decimal"
)

// DefaultSymbol is the currency symbol used when none is configured.
const DefaultSymbol = "₹"

// Round returns amount rounded half away from zero to two decimals.
func Round(amount float64) decimal.Decimal {
	return decimal.NewFromFloat(amount).Round(2)
}

// Format renders amount with exactly two decimals, e.g. "350.50".
func Format(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Currency formats amounts with a currency symbol.
type Currency struct {
	Symbol string
}

// New returns a Currency using symbol, or DefaultSymbol when symbol is empty.
func New(symbol string) Currency {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return Currency{Symbol: symbol}
}

// Format renders amount as symbol plus two decimals. Negative amounts put the
// sign before the symbol.
func (c Currency) Format(amount float64) string {
	d := Round(amount)
	if d.IsNegative() {
		return "-" + c.Symbol + d.Neg().StringFixed(2)
	}
	return c.Symbol + d.StringFixed(2)
}

// Deduction renders amount as a subtracted line, e.g. "-₹12.50".
func (c Currency) Deduction(amount float64) string {
	return "-" + c.Symbol + Round(amount).Abs().StringFixed(2)
}

// Average returns total divided by count, or 0 when count is 0.
func Average(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return decimal.NewFromFloat(total).Div(decimal.NewFromInt(int64(count))).InexactFloat64()
}
