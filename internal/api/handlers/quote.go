package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/webvision/quoting-api/internal/domain"
	"github.com/webvision/quoting-api/internal/money"
	"github.com/webvision/quoting-api/internal/pdf"
	apperrors "github.com/webvision/quoting-api/pkg/errors"
)

// QuotePayload represents a quote render/validate request. Dates use the
// fr-FR display format (dd/mm/yyyy). Totals are optional: when absent every
// total is computed server-side, when present they are trusted as given so
// drafts with caller-asserted numbers still render.
type QuotePayload struct {
	QuoteNumber string `json:"quoteNumber" binding:"required"`
	QuoteDate   string `json:"quoteDate" binding:"required"`
	ValidUntil  string `json:"validUntil" binding:"required"`

	Issuer  PartyPayload   `json:"issuer" binding:"required"`
	Client  PartyPayload   `json:"client" binding:"required"`
	Service ServicePayload `json:"service" binding:"required"`

	OneTimeItems []LineItemPayload `json:"oneTimeItems" binding:"required,min=1,dive"`
	MonthlyItems []LineItemPayload `json:"monthlyItems" binding:"dive"`

	VATRate        float64 `json:"vatRate" binding:"min=0,max=100"`
	DepositPercent float64 `json:"depositPercent" binding:"min=0,max=100"`

	Totals *TotalsPayload `json:"totals,omitempty"`

	PaymentTerms string `json:"paymentTerms"`
	Notes        string `json:"notes"`
}

type PartyPayload struct {
	Name      string `json:"name"`
	Company   string `json:"company,omitempty"`
	Address   string `json:"address"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	VATNumber string `json:"vatNumber,omitempty"`
}

type ServicePayload struct {
	Name            string `json:"name" binding:"required"`
	PlanName        string `json:"planName"`
	PlanDescription string `json:"planDescription"`
}

type LineItemPayload struct {
	Description string   `json:"description" binding:"required"`
	Quantity    int      `json:"quantity" binding:"required,min=1"`
	UnitPrice   float64  `json:"unitPrice" binding:"min=0"`
	Total       *float64 `json:"total,omitempty"`
}

type TotalsPayload struct {
	OneTimeTotal  float64 `json:"oneTimeTotal"`
	MonthlyTotal  float64 `json:"monthlyTotal"`
	VATAmount     float64 `json:"vatAmount"`
	TotalTTC      float64 `json:"totalTtc"`
	DepositAmount float64 `json:"depositAmount"`
}

// ContractPayload is the contract render request: the quote content plus the
// legal identifiers and the signature state. SignatureImage accepts raw
// base64 or a data URL; it and SignedDate come together or not at all.
type ContractPayload struct {
	QuotePayload

	CompanyRCS     string `json:"companyRcs"`
	SignatureImage string `json:"signatureImage,omitempty"`
	SignedDate     string `json:"signedDate,omitempty"`
}

// HandleRenderQuote handles POST /v1/quotes/render
func HandleRenderQuote(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload QuotePayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		doc, err := payload.toDocument()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		artifact, err := pdf.RenderQuote(doc)
		if err != nil {
			logger.Error("Failed to render quote", zap.Error(err), zap.String("quote_number", doc.QuoteNumber))
			c.JSON(statusForRenderError(err), gin.H{"error": err.Error()})
			return
		}

		sendPDF(c, pdf.QuoteFilename(doc), artifact)
	}
}

// HandleValidateQuote handles POST /v1/quotes/validate
func HandleValidateQuote(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload QuotePayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		doc, err := payload.toDocument()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		violations := doc.Validate()
		if violations == nil {
			violations = []domain.Violation{}
		}
		c.JSON(http.StatusOK, gin.H{
			"valid":      len(violations) == 0,
			"violations": violations,
		})
	}
}

// HandleRenderContract handles POST /v1/contracts/render
func HandleRenderContract(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload ContractPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		doc, err := payload.toContract()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		artifact, err := pdf.RenderContract(doc)
		if err != nil {
			logger.Error("Failed to render contract", zap.Error(err), zap.String("contract_number", doc.QuoteNumber))
			c.JSON(statusForRenderError(err), gin.H{"error": err.Error()})
			return
		}

		sendPDF(c, pdf.ContractFilename(doc), artifact)
	}
}

func sendPDF(c *gin.Context, filename string, artifact []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", artifact)
}

// statusForRenderError maps renderer failures to HTTP statuses. Amount
// errors never reach the renderer: toDocument reports them as 400 first.
func statusForRenderError(err error) int {
	var renderErr *apperrors.RenderError
	if errors.As(err, &renderErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (p QuotePayload) toDocument() (domain.QuoteDocument, error) {
	quoteDate, err := parseFrenchDate(p.QuoteDate)
	if err != nil {
		return domain.QuoteDocument{}, fmt.Errorf("quoteDate: %w", err)
	}
	validUntil, err := parseFrenchDate(p.ValidUntil)
	if err != nil {
		return domain.QuoteDocument{}, fmt.Errorf("validUntil: %w", err)
	}

	doc := domain.QuoteDocument{
		QuoteNumber:    p.QuoteNumber,
		QuoteDate:      quoteDate,
		ValidUntil:     validUntil,
		Issuer:         p.Issuer.toParty(),
		Client:         p.Client.toParty(),
		Service:        domain.Service(p.Service),
		OneTimeItems:   toLineItems(p.OneTimeItems),
		MonthlyItems:   toLineItems(p.MonthlyItems),
		VATRate:        decimal.NewFromFloat(p.VATRate),
		DepositPercent: decimal.NewFromFloat(p.DepositPercent),
		PaymentTerms:   p.PaymentTerms,
		Notes:          p.Notes,
	}

	if p.Totals == nil {
		if err := doc.ComputeTotals(); err != nil {
			return domain.QuoteDocument{}, err
		}
		return doc, nil
	}

	// Caller-asserted totals: fill in only the item totals the caller left
	// out, trust everything supplied.
	for _, items := range [][]domain.LineItem{doc.OneTimeItems, doc.MonthlyItems} {
		for i := range items {
			if items[i].Total.IsZero() && items[i].Quantity > 0 {
				total, err := money.LineTotal(items[i].Quantity, items[i].UnitPrice)
				if err != nil {
					return domain.QuoteDocument{}, err
				}
				items[i].Total = total
			}
		}
	}
	doc.OneTimeTotal = decimal.NewFromFloat(p.Totals.OneTimeTotal)
	doc.MonthlyTotal = decimal.NewFromFloat(p.Totals.MonthlyTotal)
	doc.VATAmount = decimal.NewFromFloat(p.Totals.VATAmount)
	doc.TotalTTC = decimal.NewFromFloat(p.Totals.TotalTTC)
	doc.DepositAmount = decimal.NewFromFloat(p.Totals.DepositAmount)
	return doc, nil
}

func (p ContractPayload) toContract() (domain.ContractDocument, error) {
	quote, err := p.QuotePayload.toDocument()
	if err != nil {
		return domain.ContractDocument{}, err
	}

	signature := domain.UnsignedSignature()
	if p.SignatureImage != "" || p.SignedDate != "" {
		if p.SignatureImage == "" || p.SignedDate == "" {
			return domain.ContractDocument{}, fmt.Errorf("signatureImage and signedDate must be supplied together")
		}
		image, err := decodeSignatureImage(p.SignatureImage)
		if err != nil {
			return domain.ContractDocument{}, fmt.Errorf("signatureImage: %w", err)
		}
		signedDate, err := parseFrenchDate(p.SignedDate)
		if err != nil {
			return domain.ContractDocument{}, fmt.Errorf("signedDate: %w", err)
		}
		signature = domain.SignedSignature(image, signedDate)
	}

	return domain.ContractDocument{
		QuoteDocument: quote,
		CompanyRCS:    p.CompanyRCS,
		Signature:     signature,
	}, nil
}

func (p PartyPayload) toParty() domain.Party {
	return domain.Party{
		Name:      p.Name,
		Company:   p.Company,
		Address:   p.Address,
		Email:     p.Email,
		Phone:     p.Phone,
		VATNumber: p.VATNumber,
	}
}

func toLineItems(payloads []LineItemPayload) []domain.LineItem {
	items := make([]domain.LineItem, len(payloads))
	for i, p := range payloads {
		items[i] = domain.LineItem{
			Description: p.Description,
			Quantity:    p.Quantity,
			UnitPrice:   decimal.NewFromFloat(p.UnitPrice),
		}
		if p.Total != nil {
			items[i].Total = decimal.NewFromFloat(*p.Total)
		}
	}
	return items
}

func parseFrenchDate(s string) (time.Time, error) {
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected dd/mm/yyyy, got %q", s)
	}
	return t, nil
}

// decodeSignatureImage accepts a PNG as raw base64 or as a data URL.
func decodeSignatureImage(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		_, data, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data URL")
		}
		s = data
	}
	return base64.StdEncoding.DecodeString(s)
}
