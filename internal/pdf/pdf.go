// Package pdf renders a document to PDF: one page for the document itself and,
// when terms are present, a second page for them.
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/lakbill/billing-app/internal/models"
	"github.com/lakbill/billing-app/internal/services"
)

// Input is everything the exporter consumes: the document, its computed
// totals and the grand total already rendered to words.
type Input struct {
	Doc           models.Document
	Totals        services.Totals
	AmountInWords string
}

// Render produces the PDF bytes. The caller is responsible for refusing
// export while the document fails its validity gate.
func Render(in Input) ([]byte, error) {
	doc := in.Doc
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	drawLogo(pdf, doc.CompanyDetails.LogoURL)

	title := "INVOICE"
	dateLabel, dueLabel := "Invoice Date", "Due Date"
	if doc.Type == models.TypeQuotation {
		title = "QUOTATION"
		dateLabel, dueLabel = "Quotation Date", "Valid Until"
	}
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "R", false, 0, "")
	if doc.Subtitle != "" {
		pdf.SetFont("Arial", "I", 11)
		pdf.CellFormat(0, 6, doc.Subtitle, "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// company and client blocks side by side
	top := pdf.GetY()
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 6, doc.CompanyDetails.Name, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(95, 4.5, doc.CompanyDetails.Address, "", "L", false)
	if doc.CompanyDetails.Phone != "" {
		pdf.CellFormat(95, 4.5, doc.CompanyDetails.Phone, "", 1, "L", false, 0, "")
	}
	if doc.CompanyDetails.Email != "" {
		pdf.CellFormat(95, 4.5, doc.CompanyDetails.Email, "", 1, "L", false, 0, "")
	}
	companyBottom := pdf.GetY()

	pdf.SetXY(115, top)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(85, 6, "Bill To:", "", 2, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetX(115)
	pdf.CellFormat(85, 4.5, doc.ClientDetails.Name, "", 2, "L", false, 0, "")
	pdf.SetX(115)
	pdf.MultiCell(85, 4.5, doc.ClientDetails.Address, "", "L", false)
	pdf.SetX(115)
	pdf.CellFormat(85, 4.5, doc.ClientDetails.Email, "", 1, "L", false, 0, "")
	if y := pdf.GetY(); y < companyBottom {
		pdf.SetY(companyBottom)
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("No: %s", doc.Number), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s", dateLabel, doc.IssueDate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s", dueLabel, doc.DueDate), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	drawItems(pdf, doc.Items)
	drawTotals(pdf, doc.TaxRate, in.Totals)

	if in.AmountInWords != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "BI", 9)
		pdf.MultiCell(0, 5, "Amount in words: "+in.AmountInWords, "", "L", false)
	}
	if doc.Notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 4.5, doc.Notes, "", "L", false)
	}

	if strings.TrimSpace(doc.Terms) != "" {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, "Terms & Conditions", "", 1, "L", false, 0, "")
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, doc.Terms, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

func drawItems(pdf *gofpdf.Fpdf, items []models.LineItem) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(80, 7, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 7, "Disc %", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 7, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, it := range items {
		gross := it.Quantity * it.UnitPrice
		amount := gross - gross*(it.DiscountPercentage/100)
		pdf.CellFormat(80, 6, it.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, trimZeros(it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, money(it.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 6, trimZeros(it.DiscountPercentage), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 6, money(amount), "1", 1, "R", false, 0, "")
	}
}

func drawTotals(pdf *gofpdf.Fpdf, taxRate float64, t services.Totals) {
	pdf.Ln(3)
	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(130, 6, "", "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, value, "", 1, "R", false, 0, "")
	}
	row("Gross Total", money(t.Gross), false)
	if t.Discount > 0 {
		row("Discount", "-"+money(t.Discount), false)
	}
	row("Net Amount", money(t.Net), false)
	if taxRate > 0 {
		row(fmt.Sprintf("Tax (%s%%)", trimZeros(taxRate)), money(t.Tax), false)
	}
	row("Grand Total", money(t.GrandTotal)+" LKR", true)
}

// drawLogo embeds a data-URL logo top-left; anything unparsable is skipped,
// the logo is optional decoration.
func drawLogo(pdf *gofpdf.Fpdf, dataURL string) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return
	}
	rest := strings.TrimPrefix(dataURL, "data:image/")
	semi := strings.Index(rest, ";base64,")
	if semi < 0 {
		return
	}
	kind := strings.ToUpper(rest[:semi])
	if kind == "JPEG" {
		kind = "JPG"
	}
	if kind != "PNG" && kind != "JPG" && kind != "GIF" {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(rest[semi+len(";base64,"):])
	if err != nil {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: kind}
	pdf.RegisterImageOptionsReader("company-logo", opts, bytes.NewReader(raw))
	if pdf.Ok() {
		pdf.ImageOptions("company-logo", 10, 10, 35, 0, false, opts, 0, "")
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}
