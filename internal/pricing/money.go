// Package pricing turns catalog products and a captured metal rate into priced
// invoice lines, invoice totals and stock valuation rollups.
//
// Every function here is pure: callers capture a domain.RateSnapshot once per
// pass and hand the same value to every call in that pass.
package pricing

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// roundMoney rounds to cents, half away from zero. Monetary outputs are never
// negative so this is round-half-up.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// percentOf returns amount * pct / 100 without a lossy division.
func percentOf(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Shift(-2)
}

func clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}
