package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/webvision/quoting-api/internal/money"
)

// Violation is one broken invariant, reported with the field it concerns.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks every arithmetic invariant of the document and returns the
// violations found, nil when the document is well formed. Construction never
// validates; rendering a best-effort draft with inconsistent totals is
// legitimate, so validation stays an explicit separate step.
func (d QuoteDocument) Validate() []Violation {
	var violations []Violation

	violations = append(violations, validateItems("oneTimeItems", d.OneTimeItems)...)
	violations = append(violations, validateItems("monthlyItems", d.MonthlyItems)...)

	if !percentInRange(d.VATRate) {
		violations = append(violations, Violation{
			Field:   "vatRate",
			Message: fmt.Sprintf("must be between 0 and 100, got %s", d.VATRate),
		})
	}
	if !percentInRange(d.DepositPercent) {
		violations = append(violations, Violation{
			Field:   "depositPercent",
			Message: fmt.Sprintf("must be between 0 and 100, got %s", d.DepositPercent),
		})
	}

	if want := sumTotals(d.OneTimeItems); !d.OneTimeTotal.Equal(want) {
		violations = append(violations, Violation{
			Field:   "oneTimeTotal",
			Message: fmt.Sprintf("expected %s from item totals, got %s", want, d.OneTimeTotal),
		})
	}
	if want := sumTotals(d.MonthlyItems); !d.MonthlyTotal.Equal(want) {
		violations = append(violations, Violation{
			Field:   "monthlyTotal",
			Message: fmt.Sprintf("expected %s from item totals, got %s", want, d.MonthlyTotal),
		})
	}
	if want := money.VATAmount(d.OneTimeTotal, d.VATRate); !d.VATAmount.Equal(want) {
		violations = append(violations, Violation{
			Field:   "vatAmount",
			Message: fmt.Sprintf("expected %s at %s%% of one-time total, got %s", want, d.VATRate, d.VATAmount),
		})
	}
	if want := money.GrossTotal(d.OneTimeTotal, d.VATAmount); !d.TotalTTC.Equal(want) {
		violations = append(violations, Violation{
			Field:   "totalTtc",
			Message: fmt.Sprintf("expected %s, got %s", want, d.TotalTTC),
		})
	}
	if want := money.Deposit(d.TotalTTC, d.DepositPercent); !d.DepositAmount.Equal(want) {
		violations = append(violations, Violation{
			Field:   "depositAmount",
			Message: fmt.Sprintf("expected %s at %s%% of total TTC, got %s", want, d.DepositPercent, d.DepositAmount),
		})
	}

	return violations
}

func validateItems(field string, items []LineItem) []Violation {
	var violations []Violation
	for i, it := range items {
		prefix := fmt.Sprintf("%s[%d]", field, i)
		if it.Description == "" {
			violations = append(violations, Violation{
				Field:   prefix + ".description",
				Message: "must not be empty",
			})
		}
		if it.Quantity <= 0 {
			violations = append(violations, Violation{
				Field:   prefix + ".quantity",
				Message: fmt.Sprintf("must be positive, got %d", it.Quantity),
			})
		}
		if it.UnitPrice.IsNegative() {
			violations = append(violations, Violation{
				Field:   prefix + ".unitPrice",
				Message: fmt.Sprintf("must not be negative, got %s", it.UnitPrice),
			})
		}
		if it.Quantity > 0 && !it.UnitPrice.IsNegative() {
			want, err := money.LineTotal(it.Quantity, it.UnitPrice)
			if err == nil && !it.Total.Equal(want) {
				violations = append(violations, Violation{
					Field:   prefix + ".total",
					Message: fmt.Sprintf("expected %s for %d x %s, got %s", want, it.Quantity, it.UnitPrice, it.Total),
				})
			}
		}
	}
	return violations
}

func sumTotals(items []LineItem) decimal.Decimal {
	totals := make([]decimal.Decimal, len(items))
	for i, it := range items {
		totals[i] = it.Total
	}
	return money.Sum(totals)
}

func percentInRange(p decimal.Decimal) bool {
	return !p.IsNegative() && p.LessThanOrEqual(decimal.NewFromInt(100))
}
