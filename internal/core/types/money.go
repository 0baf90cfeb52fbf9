// Package types provides the money type shared by every document.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// MoneyScale is the number of fractional digits kept at every computation boundary.
const MoneyScale int32 = 2

// RoundingTolerance is the largest difference treated as equal when comparing totals.
var RoundingTolerance = decimal.New(1, -MoneyScale)

var hundred = decimal.NewFromInt(100)

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	return Round(d), nil
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Round rounds half away from zero to MoneyScale digits.
func Round(m Money) Money {
	return m.Round(MoneyScale)
}

// LineAmount returns round(qty * price).
func LineAmount(qty int64, price Money) Money {
	return Round(price.Mul(decimal.NewFromInt(qty)))
}

// Percent returns round(amount * pct / 100).
func Percent(amount, pct Money) Money {
	return Round(amount.Mul(pct).Div(hundred))
}

// Discounted returns round(amount * (1 - pct/100)).
func Discounted(amount, pct Money) Money {
	factor := decimal.NewFromInt(1).Sub(pct.Div(hundred))
	return Round(amount.Mul(factor))
}

// Sum adds and rounds the given values.
func Sum(values ...Money) Money {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return Round(total)
}

// WithinTolerance reports whether |a-b| <= RoundingTolerance.
func WithinTolerance(a, b Money) bool {
	return a.Sub(b).Abs().LessThanOrEqual(RoundingTolerance)
}
