package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/webvision/quoting-api/internal/money"
)

// LineItem is a single billable line of a quote. Total is caller-asserted:
// the renderer displays it as given, Validate reports when it disagrees with
// round2(quantity * unit price).
type LineItem struct {
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal
}

// Party identifies one side of the quote.
type Party struct {
	Name      string
	Company   string
	Address   string
	Email     string
	Phone     string
	VATNumber string
}

// Service describes the offering the quote is for.
type Service struct {
	Name            string
	PlanName        string
	PlanDescription string
}

// QuoteDocument is the canonical quote value. It is constructed once per quote
// revision and treated as immutable by the renderer. One-time and monthly
// items are billed on different cadences and are totaled and displayed
// separately; VAT and the deposit apply to the one-time portion only.
type QuoteDocument struct {
	QuoteNumber string
	QuoteDate   time.Time
	ValidUntil  time.Time

	Issuer  Party
	Client  Party
	Service Service

	OneTimeItems []LineItem
	MonthlyItems []LineItem

	OneTimeTotal   decimal.Decimal
	MonthlyTotal   decimal.Decimal
	VATRate        decimal.Decimal
	VATAmount      decimal.Decimal
	TotalTTC       decimal.Decimal
	DepositPercent decimal.Decimal
	DepositAmount  decimal.Decimal

	Notes        string
	PaymentTerms string
}

// ComputeTotals fills every item total and the aggregate totals from
// quantities, unit prices, VATRate and DepositPercent. Callers that already
// carry totals can skip it and rely on Validate to check consistency.
func (d *QuoteDocument) ComputeTotals() error {
	oneTime, err := computeItems(d.OneTimeItems)
	if err != nil {
		return err
	}
	monthly, err := computeItems(d.MonthlyItems)
	if err != nil {
		return err
	}
	d.OneTimeTotal = oneTime
	d.MonthlyTotal = monthly
	d.VATAmount = money.VATAmount(d.OneTimeTotal, d.VATRate)
	d.TotalTTC = money.GrossTotal(d.OneTimeTotal, d.VATAmount)
	d.DepositAmount = money.Deposit(d.TotalTTC, d.DepositPercent)
	return nil
}

func computeItems(items []LineItem) (decimal.Decimal, error) {
	lines := make([]money.Line, len(items))
	for i, it := range items {
		lines[i] = money.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	totals, sum, err := money.LineTotals(lines)
	if err != nil {
		return decimal.Zero, err
	}
	for i := range items {
		items[i].Total = totals[i]
	}
	return sum, nil
}

// ContractDocument is the contract variant of a quote: the same commercial
// content plus the legal identifiers the signed contract must carry.
type ContractDocument struct {
	QuoteDocument

	CompanyRCS string
	Signature  Signature
}
