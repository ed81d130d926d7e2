package money

import "github.com/shopspring/decimal"

// Amounts are carried as int64 minor units (cents). Fractional math
// runs on decimals and rounds half up back to cents at each line-item
// boundary, never on intermediate factors.

// Round converts a decimal cent amount to int64, rounding half away
// from zero.
func Round(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}

// MulRate multiplies a cent amount by a decimal rate and rounds.
func MulRate(cents int64, rate decimal.Decimal) int64 {
	return Round(decimal.NewFromInt(cents).Mul(rate))
}

// DivInt divides a cent amount by an integer divisor and rounds. A
// non-positive divisor yields zero rather than a panic.
func DivInt(cents int64, divisor int64) int64 {
	if divisor <= 0 {
		return 0
	}
	return Round(decimal.NewFromInt(cents).Div(decimal.NewFromInt(divisor)))
}

// HoursTimesRate computes hours x hourly rate x multiplier in cents.
func HoursTimesRate(hours decimal.Decimal, hourlyRateCents int64, multiplier decimal.Decimal) int64 {
	return Round(hours.
		Mul(decimal.NewFromInt(hourlyRateCents)).
		Mul(multiplier))
}
