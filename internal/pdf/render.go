// Package pdf renders quote and contract documents as paginated A4 PDFs.
//
// Rendering is deterministic: the embedded creation date is pinned to the
// document's own quote date instead of being sampled, so identical input
// yields identical bytes and the visual layout can be regression-tested.
// The renderer displays whatever totals it is given, consistent or not;
// checking the arithmetic invariants is domain.Validate's job.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/webvision/quoting-api/internal/domain"
	apperrors "github.com/webvision/quoting-api/pkg/errors"
)

const (
	pageMargin   = 12.0
	contentWidth = 186.0 // A4 width minus both margins
	colWidth     = 90.0  // half-width boxes, with a 6mm gutter
)

// Palette of the document design.
var (
	navy     = rgb{26, 58, 92}
	teal     = rgb{13, 115, 119}
	paleGray = rgb{245, 247, 250}
	altRow   = rgb{250, 250, 250}
	ruleGray = rgb{232, 232, 232}
	ink      = rgb{51, 51, 51}
	mutedInk = rgb{102, 102, 102}
	faintInk = rgb{153, 153, 153}
	paleTeal = rgb{232, 244, 244}
	white    = rgb{255, 255, 255}
)

type rgb struct{ r, g, b int }

// RenderQuote renders a quote ("devis") with an unsigned signature block.
func RenderQuote(doc domain.QuoteDocument) ([]byte, error) {
	return render(doc, "DEVIS", "", domain.UnsignedSignature())
}

// RenderContract renders the contract variant: same commercial layout, legal
// identifiers in the party blocks, and a signature block that embeds the
// signature image and signing date when the contract is signed.
func RenderContract(doc domain.ContractDocument) ([]byte, error) {
	return render(doc.QuoteDocument, "CONTRAT", doc.CompanyRCS, doc.Signature)
}

// QuoteFilename is the suggested download name for a rendered quote.
func QuoteFilename(doc domain.QuoteDocument) string {
	return fmt.Sprintf("devis-%s.pdf", doc.QuoteNumber)
}

// ContractFilename is the suggested download name for a rendered contract.
func ContractFilename(doc domain.ContractDocument) string {
	return fmt.Sprintf("contrat-%s.pdf", doc.QuoteNumber)
}

func render(doc domain.QuoteDocument, title, companyRCS string, signature domain.Signature) ([]byte, error) {
	if doc.Issuer.Name == "" {
		return nil, &apperrors.RenderError{Field: "issuer.name"}
	}
	if doc.Client.Name == "" && doc.Client.Company == "" {
		return nil, &apperrors.RenderError{Field: "client.name"}
	}
	if doc.QuoteNumber == "" {
		return nil, &apperrors.RenderError{Field: "quoteNumber"}
	}

	f := fpdf.New("P", "mm", "A4", "")
	// Pin both embedded timestamps to the document's own date; sampling the
	// clock here would break byte-identical re-rendering.
	f.SetCreationDate(doc.QuoteDate)
	f.SetModificationDate(doc.QuoteDate)
	f.SetMargins(pageMargin, pageMargin, pageMargin)
	f.SetAutoPageBreak(true, 18)
	f.AddPage()

	r := &renderer{f: f, tr: f.UnicodeTranslatorFromDescriptor("")}

	r.header(doc, title)
	r.parties(doc, companyRCS)
	r.serviceBanner(doc.Service)
	r.itemsTable("Frais Uniques (Installation & Setup)", doc.OneTimeItems,
		"Total Unique HT:", r.money(doc.OneTimeTotal), navy)
	r.itemsTable("Frais Mensuels (Récurrents)", doc.MonthlyItems,
		"Total Mensuel:", r.money(doc.MonthlyTotal)+" / mois", teal)
	r.termsAndTotals(doc)
	r.signatures(doc, signature)
	r.footer(doc.Issuer)

	var buf bytes.Buffer
	if err := f.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type renderer struct {
	f  *fpdf.Fpdf
	tr func(string) string
}

func (r *renderer) money(d decimal.Decimal) string {
	return r.tr(d.StringFixed(2) + " €")
}

func percent(d decimal.Decimal) string {
	return d.Round(0).String() + "%"
}

func frDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func (r *renderer) setText(c rgb) { r.f.SetTextColor(c.r, c.g, c.b) }
func (r *renderer) setFill(c rgb) { r.f.SetFillColor(c.r, c.g, c.b) }
func (r *renderer) setDraw(c rgb) { r.f.SetDrawColor(c.r, c.g, c.b) }

func (r *renderer) header(doc domain.QuoteDocument, title string) {
	f := r.f

	f.SetFont("Helvetica", "B", 20)
	r.setText(navy)
	f.CellFormat(contentWidth/2, 9, r.tr(doc.Issuer.Name), "", 0, "L", false, 0, "")

	f.SetFont("Helvetica", "B", 16)
	r.setText(ink)
	f.CellFormat(contentWidth/2, 9, title, "", 1, "R", false, 0, "")

	if doc.Issuer.Company != "" {
		f.SetFont("Helvetica", "", 8)
		r.setText(teal)
		f.CellFormat(contentWidth/2, 4, r.tr(doc.Issuer.Company), "", 0, "L", false, 0, "")
	} else {
		f.CellFormat(contentWidth/2, 4, "", "", 0, "L", false, 0, "")
	}

	f.SetFont("Helvetica", "", 9)
	r.setText(mutedInk)
	f.CellFormat(contentWidth/2, 4, r.tr("N° ")+r.tr(doc.QuoteNumber), "", 1, "R", false, 0, "")

	f.CellFormat(contentWidth/2, 4, "", "", 0, "L", false, 0, "")
	f.SetFont("Helvetica", "", 8)
	f.CellFormat(contentWidth/2, 4, "Date: "+frDate(doc.QuoteDate), "", 1, "R", false, 0, "")
	f.CellFormat(contentWidth/2, 4, "", "", 0, "L", false, 0, "")
	f.CellFormat(contentWidth/2, 4, r.tr("Valide jusqu'au: ")+frDate(doc.ValidUntil), "", 1, "R", false, 0, "")

	r.setDraw(navy)
	f.SetLineWidth(0.7)
	y := f.GetY() + 2
	f.Line(pageMargin, y, pageMargin+contentWidth, y)
	f.SetY(y + 4)
}

// partyLines collects the displayable detail lines of a party.
func partyLines(p domain.Party, rcs string) []string {
	var lines []string
	if p.Address != "" {
		lines = append(lines, p.Address)
	}
	if p.Email != "" {
		lines = append(lines, p.Email)
	}
	if p.Phone != "" {
		lines = append(lines, p.Phone)
	}
	if rcs != "" {
		lines = append(lines, "RCS: "+rcs)
	}
	if p.VATNumber != "" {
		lines = append(lines, "TVA: "+p.VATNumber)
	}
	return lines
}

func (r *renderer) parties(doc domain.QuoteDocument, companyRCS string) {
	issuerLines := partyLines(doc.Issuer, companyRCS)

	clientName := doc.Client.Company
	clientLines := []string{}
	if clientName == "" {
		clientName = doc.Client.Name
	} else if doc.Client.Name != "" {
		clientLines = append(clientLines, doc.Client.Name)
	}
	clientLines = append(clientLines, partyLines(doc.Client, "")...)

	boxHeight := 14.0 + 4.0*float64(max(len(issuerLines), len(clientLines)))
	top := r.f.GetY()

	r.partyBox(pageMargin, top, boxHeight, "DE", doc.Issuer.Name, issuerLines)
	r.partyBox(pageMargin+colWidth+6, top, boxHeight, "À", clientName, clientLines)

	r.f.SetY(top + boxHeight + 5)
}

func (r *renderer) partyBox(x, y, height float64, label, name string, lines []string) {
	f := r.f
	r.setFill(paleGray)
	f.RoundedRect(x, y, colWidth, height, 1.5, "1234", "F")

	f.SetXY(x+4, y+3)
	f.SetFont("Helvetica", "B", 8)
	r.setText(teal)
	f.CellFormat(colWidth-8, 4, r.tr(label), "", 2, "L", false, 0, "")

	f.SetFont("Helvetica", "B", 10)
	r.setText(ink)
	f.CellFormat(colWidth-8, 5, r.tr(name), "", 2, "L", false, 0, "")

	f.SetFont("Helvetica", "", 8)
	r.setText(mutedInk)
	for _, line := range lines {
		f.CellFormat(colWidth-8, 4, r.tr(line), "", 2, "L", false, 0, "")
	}
}

func (r *renderer) serviceBanner(svc domain.Service) {
	f := r.f
	top := f.GetY()
	r.setFill(navy)
	f.RoundedRect(pageMargin, top, contentWidth, 13, 1.5, "1234", "F")

	f.SetXY(pageMargin+4, top+2.5)
	f.SetFont("Helvetica", "B", 11)
	r.setText(white)
	f.CellFormat(contentWidth-8, 5, r.tr(svc.Name+" - "+svc.PlanName), "", 2, "L", false, 0, "")

	f.SetFont("Helvetica", "", 8)
	f.CellFormat(contentWidth-8, 4, r.tr(svc.PlanDescription), "", 2, "L", false, 0, "")

	f.SetY(top + 17)
}

// itemsTable renders one billing-cadence section: title, header row, one row
// per item with alternating backgrounds, and a right-aligned totals row. An
// empty section still renders with its zero total so every quote shows both
// cadences (a deliberate choice; omitting the section would also be valid).
func (r *renderer) itemsTable(title string, items []domain.LineItem, totalLabel, totalValue string, totalColor rgb) {
	f := r.f
	widths := []float64{95, 24, 33.5, 33.5}
	headers := []string{"Description", "Qté", "Prix Unit.", "Total"}
	aligns := []string{"L", "C", "R", "R"}

	f.SetFont("Helvetica", "B", 9)
	r.setText(navy)
	f.CellFormat(contentWidth, 5, r.tr(title), "", 1, "L", false, 0, "")
	f.Ln(1)

	f.SetFont("Helvetica", "B", 8)
	r.setText(white)
	r.setFill(navy)
	for i, h := range headers {
		f.CellFormat(widths[i], 7, r.tr(h), "", 0, aligns[i], true, 0, "")
	}
	f.Ln(-1)

	f.SetFont("Helvetica", "", 9)
	r.setDraw(ruleGray)
	f.SetLineWidth(0.2)
	for i, it := range items {
		fill := i%2 != 0
		if fill {
			r.setFill(altRow)
		}
		r.setText(ink)
		f.CellFormat(widths[0], 7, r.tr(it.Description), "B", 0, "L", fill, 0, "")
		f.CellFormat(widths[1], 7, fmt.Sprintf("%d", it.Quantity), "B", 0, "C", fill, 0, "")
		f.CellFormat(widths[2], 7, r.money(it.UnitPrice), "B", 0, "R", fill, 0, "")
		f.SetFont("Helvetica", "B", 9)
		f.CellFormat(widths[3], 7, r.money(it.Total), "B", 1, "R", fill, 0, "")
		f.SetFont("Helvetica", "", 9)
	}

	f.SetFont("Helvetica", "", 9)
	r.setText(mutedInk)
	f.CellFormat(widths[0]+widths[1], 7, "", "", 0, "L", false, 0, "")
	f.CellFormat(widths[2], 7, r.tr(totalLabel), "", 0, "R", false, 0, "")
	f.SetFont("Helvetica", "B", 10)
	r.setText(totalColor)
	f.CellFormat(widths[3], 7, totalValue, "", 1, "R", false, 0, "")
	f.Ln(2)
}

func (r *renderer) termsAndTotals(doc domain.QuoteDocument) {
	f := r.f
	top := f.GetY()

	// Terms box, left column.
	r.setFill(paleGray)
	f.RoundedRect(pageMargin, top, colWidth, 32, 1.5, "1234", "F")
	f.SetXY(pageMargin+4, top+3)
	f.SetFont("Helvetica", "B", 9)
	r.setText(ink)
	f.CellFormat(colWidth-8, 5, "Conditions de paiement", "", 2, "L", false, 0, "")
	f.SetFont("Helvetica", "", 8)
	r.setText(mutedInk)
	f.MultiCell(colWidth-8, 4, r.tr(doc.PaymentTerms), "", "L", false)
	f.SetX(pageMargin + 4)
	f.SetFont("Helvetica", "I", 8)
	f.CellFormat(colWidth-8, 5, r.tr(fmt.Sprintf("TVA au taux de %s comprise.", percent(doc.VATRate))), "", 2, "L", false, 0, "")

	// Totals, right column.
	x := pageMargin + colWidth + 6
	f.SetXY(x, top)
	r.totalRow(x, "Sous-total Unique HT", r.money(doc.OneTimeTotal), 6)
	r.totalRow(x, fmt.Sprintf("TVA (%s)", percent(doc.VATRate)), r.money(doc.VATAmount), 6)

	y := f.GetY() + 1
	r.setFill(navy)
	f.RoundedRect(x, y, colWidth, 10, 1.5, "1234", "F")
	f.SetXY(x+3, y+2)
	f.SetFont("Helvetica", "B", 10)
	r.setText(white)
	f.CellFormat(colWidth/2, 6, "TOTAL UNIQUE TTC", "", 0, "L", false, 0, "")
	f.SetFont("Helvetica", "B", 12)
	f.CellFormat(colWidth/2-6, 6, r.money(doc.TotalTTC), "", 1, "R", false, 0, "")

	y += 11.5
	r.setFill(paleTeal)
	f.RoundedRect(x, y, colWidth, 8, 1.5, "1234", "F")
	f.SetXY(x+3, y+1.5)
	f.SetFont("Helvetica", "B", 9)
	r.setText(teal)
	f.CellFormat(colWidth/2, 5, r.tr(fmt.Sprintf("Acompte %s", percent(doc.DepositPercent))), "", 0, "L", false, 0, "")
	f.SetFont("Helvetica", "B", 10)
	f.CellFormat(colWidth/2-6, 5, r.money(doc.DepositAmount), "", 1, "R", false, 0, "")

	bottom := top + 32
	if f.GetY() > bottom {
		bottom = f.GetY()
	}
	f.SetY(bottom + 8)
}

func (r *renderer) totalRow(x float64, label, value string, height float64) {
	f := r.f
	f.SetX(x + 3)
	f.SetFont("Helvetica", "", 9)
	r.setText(mutedInk)
	f.CellFormat(colWidth/2, height, r.tr(label), "", 0, "L", false, 0, "")
	f.SetFont("Helvetica", "B", 9)
	r.setText(ink)
	f.CellFormat(colWidth/2-6, height, value, "", 1, "R", false, 0, "")
}

func (r *renderer) signatures(doc domain.QuoteDocument, signature domain.Signature) {
	f := r.f
	top := f.GetY()
	boxWidth := 84.0

	// Client block: embedded image and date when signed, a blank line and the
	// "Bon pour accord" placeholder otherwise.
	f.SetXY(pageMargin, top)
	f.SetFont("Helvetica", "B", 9)
	r.setText(ink)
	f.CellFormat(boxWidth, 5, "Signature client", "", 2, "L", false, 0, "")

	if signature.IsSigned() {
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		f.RegisterImageOptionsReader("client-signature", opts, bytes.NewReader(signature.Image()))
		f.ImageOptions("client-signature", pageMargin, f.GetY()+1, 0, 12, false, opts, 0, "")
		f.SetY(f.GetY() + 15)
		f.SetFont("Helvetica", "", 7)
		r.setText(faintInk)
		f.CellFormat(boxWidth, 4, r.tr("Signé le ")+frDate(signature.Date()), "", 2, "L", false, 0, "")
	} else {
		r.signatureLine(pageMargin, boxWidth)
		f.SetFont("Helvetica", "", 7)
		r.setText(faintInk)
		f.CellFormat(boxWidth, 4, r.tr(`Date et signature "Bon pour accord"`), "", 2, "L", false, 0, "")
	}

	// Issuer block always stays blank; the issuer countersigns on paper.
	x := pageMargin + contentWidth - boxWidth
	f.SetXY(x, top)
	f.SetFont("Helvetica", "B", 9)
	r.setText(ink)
	f.CellFormat(boxWidth, 5, r.tr("Pour "+doc.Issuer.Name), "", 2, "L", false, 0, "")
	r.signatureLine(x, boxWidth)
	f.SetFont("Helvetica", "", 7)
	r.setText(faintInk)
	f.SetX(x)
	f.CellFormat(boxWidth, 4, r.tr("Commercial autorisé"), "", 2, "L", false, 0, "")
}

func (r *renderer) signatureLine(x, width float64) {
	f := r.f
	y := f.GetY() + 14
	r.setDraw(ink)
	f.SetLineWidth(0.3)
	f.Line(x, y, x+width, y)
	f.SetXY(x, y+1)
}

func (r *renderer) footer(issuer domain.Party) {
	f := r.f
	f.SetY(-24)
	r.setDraw(ruleGray)
	f.SetLineWidth(0.2)
	f.Line(pageMargin, f.GetY(), pageMargin+contentWidth, f.GetY())
	f.Ln(2)
	f.SetFont("Helvetica", "", 7)
	r.setText(faintInk)

	parts := issuer.Name
	if issuer.Address != "" {
		parts += " | " + issuer.Address
	}
	if issuer.Email != "" {
		parts += " | " + issuer.Email
	}
	f.CellFormat(contentWidth, 4, r.tr(parts), "", 1, "C", false, 0, "")
}
