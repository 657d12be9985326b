package gst

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds a money value to two decimal places, half away from zero.
// Every amount leaving this package passes through here exactly once, so
// recomputation is idempotent and no call site drifts on its own.
func Round(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// RoundWhole rounds to the nearest whole currency unit. Used only for the
// invoice-final amount; everything else stays at two decimals.
func RoundWhole(v decimal.Decimal) decimal.Decimal {
	return v.Round(0)
}

// FromFloat converts a float amount (as bound from JSON) to a decimal.
// Non-finite input maps to zero so a bad value clears the computation
// instead of panicking inside decimal.NewFromFloat.
func FromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}
