// Package money holds the monetary arithmetic for quotes. All amounts are
// decimals rounded to 2 places with half-away-from-zero rounding, which on the
// non-negative amounts this domain allows is plain half-up. Float drift is the
// main correctness risk here, so nothing in this package touches float64.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount flags a quantity ≤ 0 or a negative unit price.
var ErrInvalidAmount = errors.New("invalid amount")

var oneHundred = decimal.NewFromInt(100)

// Round2 rounds to 2 decimal places, half-up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineTotal computes round2(quantity * unitPrice).
func LineTotal(quantity int, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidAmount, quantity)
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: unit price must not be negative, got %s", ErrInvalidAmount, unitPrice)
	}
	return Round2(decimal.NewFromInt(int64(quantity)).Mul(unitPrice)), nil
}

// Line is a (quantity, unit price) pair.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotals computes each line's total and the rounded sum of the sequence.
func LineTotals(lines []Line) ([]decimal.Decimal, decimal.Decimal, error) {
	totals := make([]decimal.Decimal, 0, len(lines))
	sum := decimal.Zero
	for i, l := range lines {
		total, err := LineTotal(l.Quantity, l.UnitPrice)
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("line %d: %w", i, err)
		}
		totals = append(totals, total)
		sum = sum.Add(total)
	}
	return totals, Round2(sum), nil
}

// Sum adds already-computed totals and rounds the result.
func Sum(totals []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t)
	}
	return Round2(sum)
}

// VATAmount computes round2(net * rate / 100). VAT applies to the one-time
// total only; the monthly recurring total is quoted separately and never folds
// into the tax-inclusive total.
func VATAmount(net, rate decimal.Decimal) decimal.Decimal {
	return Round2(net.Mul(rate).Div(oneHundred))
}

// GrossTotal computes the tax-inclusive total from a net amount and its VAT.
func GrossTotal(net, vat decimal.Decimal) decimal.Decimal {
	return Round2(net.Add(vat))
}

// Deposit computes round2(gross * percent / 100).
func Deposit(gross, percent decimal.Decimal) decimal.Decimal {
	return Round2(gross.Mul(percent).Div(oneHundred))
}
