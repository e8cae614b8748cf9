package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// sampleQuote mirrors a real quote of the live system.
func sampleQuote() QuoteDocument {
	return QuoteDocument{
		QuoteNumber: "DEV-202512-618",
		QuoteDate:   time.Date(2025, 12, 22, 0, 0, 0, 0, time.UTC),
		ValidUntil:  time.Date(2026, 1, 21, 0, 0, 0, 0, time.UTC),
		Issuer: Party{
			Name:      "RIVEGO Trade and Marketing Group S.à r.l.-S",
			Address:   "7, rue Jean-Pierre Sauvage, L-2514 Kirchberg",
			Email:     "formulaire@webvision.lu",
			VATNumber: "LU35916651",
		},
		Client: Party{
			Name:    "Jean Dupont",
			Company: "Restaurant Le Gourmet",
			Address: "123 Rue de la Gare, L-1234 Luxembourg",
			Email:   "contact@legourmet.lu",
			Phone:   "+352 123 456 789",
		},
		Service: Service{
			Name:            "WebVision",
			PlanName:        "Business",
			PlanDescription: "Site complet avec fonctionnalités avancées",
		},
		OneTimeItems: []LineItem{
			{Description: "Site Business", Quantity: 1, UnitPrice: dec("599"), Total: dec("599")},
			{Description: "Photos en présentiel", Quantity: 1, UnitPrice: dec("60"), Total: dec("60")},
			{Description: "Menu digital sur le site", Quantity: 1, UnitPrice: dec("40"), Total: dec("40")},
			{Description: "Site multi-langues", Quantity: 1, UnitPrice: dec("30"), Total: dec("30")},
			{Description: "Imprimante (reconditionné)", Quantity: 1, UnitPrice: dec("150"), Total: dec("150")},
			{Description: "Router pour imprimante", Quantity: 1, UnitPrice: dec("40"), Total: dec("40")},
		},
		MonthlyItems: []LineItem{
			{Description: "Hébergement & Maintenance (mensuel)", Quantity: 1, UnitPrice: dec("25"), Total: dec("25")},
			{Description: "Système commande en ligne (mensuel)", Quantity: 1, UnitPrice: dec("60"), Total: dec("60")},
			{Description: "Retouche photos qualité studio (IA) (mensuel)", Quantity: 1, UnitPrice: dec("60"), Total: dec("60")},
			{Description: "Réservation de table (mensuel)", Quantity: 1, UnitPrice: dec("10"), Total: dec("10")},
			{Description: "Chatbot site web (mensuel)", Quantity: 1, UnitPrice: dec("25"), Total: dec("25")},
			{Description: "Traduction avis & affichage (mensuel)", Quantity: 1, UnitPrice: dec("9"), Total: dec("9")},
		},
		OneTimeTotal:   dec("919"),
		MonthlyTotal:   dec("189"),
		VATRate:        dec("17"),
		VATAmount:      dec("156.23"),
		TotalTTC:       dec("1075.23"),
		DepositPercent: dec("50"),
		DepositAmount:  dec("537.62"),
		PaymentTerms:   "Acompte de 50% (537.62€) à la signature. Solde à la livraison.",
	}
}

func TestValidateWellFormed(t *testing.T) {
	assert.Empty(t, sampleQuote().Validate())
}

func TestValidateLineItemViolations(t *testing.T) {
	doc := sampleQuote()
	doc.OneTimeItems[0].Description = ""
	doc.OneTimeItems[1].Quantity = 0
	doc.OneTimeItems[2].UnitPrice = dec("-5")
	doc.OneTimeItems[3].Total = dec("31") // 1 x 30

	fields := violationFields(doc.Validate())
	assert.Contains(t, fields, "oneTimeItems[0].description")
	assert.Contains(t, fields, "oneTimeItems[1].quantity")
	assert.Contains(t, fields, "oneTimeItems[2].unitPrice")
	assert.Contains(t, fields, "oneTimeItems[3].total")
}

func TestValidateAggregateViolations(t *testing.T) {
	doc := sampleQuote()
	doc.OneTimeTotal = dec("920")

	// The VAT invariant is defined on the stated one-time total, so moving the
	// total breaks it too.
	fields := violationFields(doc.Validate())
	assert.Contains(t, fields, "oneTimeTotal")
	assert.Contains(t, fields, "vatAmount")
}

func TestValidateDerivedTotals(t *testing.T) {
	doc := sampleQuote()
	doc.VATAmount = dec("156.24")
	fields := violationFields(doc.Validate())
	assert.Contains(t, fields, "vatAmount")
	assert.Contains(t, fields, "totalTtc")

	doc = sampleQuote()
	doc.TotalTTC = dec("1075.25")
	fields = violationFields(doc.Validate())
	assert.Contains(t, fields, "totalTtc")
	assert.Contains(t, fields, "depositAmount")

	doc = sampleQuote()
	doc.DepositAmount = dec("537.61")
	fields = violationFields(doc.Validate())
	assert.Equal(t, []string{"depositAmount"}, fields)
}

func TestValidatePercentRanges(t *testing.T) {
	doc := sampleQuote()
	doc.VATRate = dec("101")
	assert.Contains(t, violationFields(doc.Validate()), "vatRate")

	doc = sampleQuote()
	doc.DepositPercent = dec("-1")
	assert.Contains(t, violationFields(doc.Validate()), "depositPercent")
}

func TestComputeTotals(t *testing.T) {
	doc := sampleQuote()
	// Strip everything derived and recompute from quantities and unit prices.
	doc.OneTimeTotal = decimal.Zero
	doc.MonthlyTotal = decimal.Zero
	doc.VATAmount = decimal.Zero
	doc.TotalTTC = decimal.Zero
	doc.DepositAmount = decimal.Zero
	for i := range doc.OneTimeItems {
		doc.OneTimeItems[i].Total = decimal.Zero
	}
	for i := range doc.MonthlyItems {
		doc.MonthlyItems[i].Total = decimal.Zero
	}

	require.NoError(t, doc.ComputeTotals())

	assert.True(t, doc.OneTimeTotal.Equal(dec("919")), "got %s", doc.OneTimeTotal)
	assert.True(t, doc.MonthlyTotal.Equal(dec("189")), "got %s", doc.MonthlyTotal)
	assert.True(t, doc.VATAmount.Equal(dec("156.23")), "got %s", doc.VATAmount)
	assert.True(t, doc.TotalTTC.Equal(dec("1075.23")), "got %s", doc.TotalTTC)
	assert.True(t, doc.DepositAmount.Equal(dec("537.62")), "got %s", doc.DepositAmount)
	assert.Empty(t, doc.Validate())
}

func TestComputeTotalsRejectsInvalidItems(t *testing.T) {
	doc := sampleQuote()
	doc.MonthlyItems[0].Quantity = 0
	require.Error(t, doc.ComputeTotals())
}

func TestSignatureVariants(t *testing.T) {
	unsigned := UnsignedSignature()
	assert.False(t, unsigned.IsSigned())
	assert.Equal(t, SignatureUnsigned, unsigned.State())
	assert.Nil(t, unsigned.Image())

	date := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	signed := SignedSignature([]byte{0x89, 0x50}, date)
	assert.True(t, signed.IsSigned())
	assert.Equal(t, SignatureSigned, signed.State())
	assert.Equal(t, []byte{0x89, 0x50}, signed.Image())
	assert.Equal(t, date, signed.Date())
}

func violationFields(violations []Violation) []string {
	fields := make([]string, len(violations))
	for i, v := range violations {
		fields[i] = v.Field
	}
	return fields
}
