package domain

import "github.com/shopspring/decimal"

const (
	// MoneyPrecision is the number of fractional digits kept for every posted amount.
	MoneyPrecision int32 = 2

	// RatePrecision is the number of fractional digits kept for derived exchange rates.
	RatePrecision int32 = 6
)

var (
	// BalanceTolerance is the largest debit/credit difference still considered balanced.
	BalanceTolerance = decimal.New(1, -2)

	// PennyBalanceThreshold bounds the automatic correction applied to opening balances.
	PennyBalanceThreshold = decimal.New(5, 0)
)

// Round rounds a monetary value to MoneyPrecision digits, half away from zero.
// Every monetary calculation in the engine goes through this function.
func Round(v decimal.Decimal) decimal.Decimal {
	return RoundTo(v, MoneyPrecision)
}

// RoundRate rounds a derived exchange rate to RatePrecision digits.
func RoundRate(v decimal.Decimal) decimal.Decimal {
	return RoundTo(v, RatePrecision)
}

// RoundTo rounds v to the given number of fractional digits using half-up
// (away from zero) rounding.
func RoundTo(v decimal.Decimal, places int32) decimal.Decimal {
	return v.Round(places)
}

// WithinTolerance reports whether a and b differ by at most BalanceTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(BalanceTolerance)
}
