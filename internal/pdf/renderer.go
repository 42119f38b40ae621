// Package pdf renders quotations and invoices as printable A4 documents. The
// renderer reproduces the stored pricing block verbatim; totals are never
// recomputed at render time.
package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"urbill/internal/domain"
	"urbill/internal/port"
)

const (
	pageMargin      = 20.0
	lineHeight      = 6.0
	footerGuard     = 80.0
	tableRowPadding = 2.0
)

// Column widths of the items table in mm, summing to the printable width.
var itemCols = []float64{78, 22, 35, 35}

type renderer struct{}

// NewRenderer creates a gofpdf-backed DocumentRenderer.
func NewRenderer() port.DocumentRenderer {
	return &renderer{}
}

func (r *renderer) RenderQuotation(q *domain.Quotation, s *domain.BusinessSettings) ([]byte, error) {
	d := newDoc(s)
	d.header("QUOTATION", q.QuotationNumber)
	d.metaRow("Date", q.QuotationDate.Format("02 Jan 2006"))
	d.metaRow("Valid Until", q.ValidUntil.Format("02 Jan 2006"))
	d.clientBlock(q.ClientBlock)
	d.itemsTable(q.Items)
	d.totals(totalLines(q.PricingBlock, nil, nil, d.currency))
	d.terms(q.PaymentTerms, q.Notes)
	d.footer()
	return d.bytes()
}

func (r *renderer) RenderInvoice(inv *domain.Invoice, s *domain.BusinessSettings) ([]byte, error) {
	d := newDoc(s)
	d.header("INVOICE", inv.InvoiceNumber)
	d.metaRow("Date", inv.InvoiceDate.Format("02 Jan 2006"))
	d.metaRow("Due Date", inv.DueDate.Format("02 Jan 2006"))
	if inv.QuotationNumber != nil {
		d.metaRow("Quotation Ref", *inv.QuotationNumber)
	}
	d.clientBlock(inv.ClientBlock)
	d.itemsTable(inv.Items)
	d.totals(totalLines(inv.PricingBlock, &inv.AmountPaid, &inv.BalanceDue, d.currency))
	d.terms(inv.PaymentTerms, inv.Notes)
	if s.BankName != "" || s.UPIID != "" {
		d.bankDetails(s)
	}
	d.footer()
	return d.bytes()
}

// doc wraps a gofpdf instance with the layout helpers shared by both
// document kinds.
type doc struct {
	pdf      *gofpdf.Fpdf
	settings *domain.BusinessSettings
	currency string
	pageW    float64
	pageH    float64
}

func newDoc(s *domain.BusinessSettings) *doc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddPage()
	w, h := pdf.GetPageSize()
	return &doc{
		pdf:      pdf,
		settings: s,
		currency: currencyLabel(s),
		pageW:    w,
		pageH:    h,
	}
}

// currencyLabel returns a symbol the core PDF fonts can render, falling back
// to the ISO code when the configured symbol is outside cp1252.
func currencyLabel(s *domain.BusinessSettings) string {
	for _, r := range s.Currency {
		if r > 0xFF {
			return s.CurrencyCode + " "
		}
	}
	return s.Currency
}

func (d *doc) printableWidth() float64 {
	return d.pageW - 2*pageMargin
}

func (d *doc) header(title, number string) {
	d.pdf.SetTextColor(30, 41, 59)
	d.pdf.SetFont("Helvetica", "B", 20)
	d.pdf.CellFormat(d.printableWidth()/2, 10, d.settings.CompanyName, "", 0, "L", false, 0, "")

	d.pdf.SetTextColor(79, 70, 229)
	d.pdf.CellFormat(d.printableWidth()/2, 10, title, "", 1, "R", false, 0, "")

	d.pdf.SetTextColor(100, 116, 139)
	d.pdf.SetFont("Helvetica", "", 9)
	for _, line := range []string{d.settings.CompanyAddress, d.settings.CompanyPhone, d.settings.CompanyEmail, d.settings.CompanyWebsite} {
		if line != "" {
			d.pdf.CellFormat(d.printableWidth(), 4.5, line, "", 1, "L", false, 0, "")
		}
	}
	if d.settings.GSTNumber != "" {
		d.pdf.CellFormat(d.printableWidth(), 4.5, "GSTIN: "+d.settings.GSTNumber, "", 1, "L", false, 0, "")
	}

	d.pdf.Ln(2)
	d.pdf.SetTextColor(30, 41, 59)
	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.CellFormat(d.printableWidth(), 6, number, "", 1, "R", false, 0, "")
}

func (d *doc) metaRow(label, value string) {
	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.SetTextColor(100, 116, 139)
	d.pdf.CellFormat(d.printableWidth()-50, 5, "", "", 0, "L", false, 0, "")
	d.pdf.CellFormat(25, 5, label+":", "", 0, "R", false, 0, "")
	d.pdf.SetTextColor(30, 41, 59)
	d.pdf.CellFormat(25, 5, value, "", 1, "R", false, 0, "")
}

func (d *doc) clientBlock(c domain.ClientBlock) {
	d.pdf.Ln(4)
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetTextColor(100, 116, 139)
	d.pdf.CellFormat(d.printableWidth(), 5, "BILL TO", "", 1, "L", false, 0, "")

	d.pdf.SetTextColor(30, 41, 59)
	d.pdf.SetFont("Helvetica", "B", 11)
	d.pdf.CellFormat(d.printableWidth(), 6, c.ClientName, "", 1, "L", false, 0, "")

	d.pdf.SetFont("Helvetica", "", 9)
	for _, line := range []string{c.ClientBusinessName, c.ClientAddress, c.ClientPhone, c.ClientEmail} {
		if line != "" {
			d.pdf.CellFormat(d.printableWidth(), 4.5, line, "", 1, "L", false, 0, "")
		}
	}
	d.pdf.Ln(4)
}

func (d *doc) itemsTable(items []domain.LineItem) {
	d.tableHeader()
	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.SetTextColor(30, 41, 59)

	fill := false
	for _, item := range items {
		if d.pdf.GetY() > d.pageH-footerGuard {
			d.pdf.AddPage()
			d.tableHeader()
			d.pdf.SetFont("Helvetica", "", 9)
			d.pdf.SetTextColor(30, 41, 59)
		}

		name := item.ServiceName
		if item.Description != "" {
			name = name + " - " + item.Description
		}

		d.pdf.SetFillColor(248, 250, 252)
		h := lineHeight + tableRowPadding
		d.pdf.CellFormat(itemCols[0], h, truncate(name, 58), "", 0, "L", fill, 0, "")
		d.pdf.CellFormat(itemCols[1], h, strconv.Itoa(item.Quantity), "", 0, "C", fill, 0, "")
		d.pdf.CellFormat(itemCols[2], h, d.currency+item.Rate.StringFixed(2), "", 0, "R", fill, 0, "")
		d.pdf.CellFormat(itemCols[3], h, d.currency+item.Amount.StringFixed(2), "", 1, "R", fill, 0, "")
		fill = !fill
	}
	d.pdf.Ln(2)
}

func (d *doc) tableHeader() {
	d.pdf.SetFillColor(79, 70, 229)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont("Helvetica", "B", 9)
	h := lineHeight + tableRowPadding
	d.pdf.CellFormat(itemCols[0], h, "SERVICE", "", 0, "L", true, 0, "")
	d.pdf.CellFormat(itemCols[1], h, "QTY", "", 0, "C", true, 0, "")
	d.pdf.CellFormat(itemCols[2], h, "RATE", "", 0, "R", true, 0, "")
	d.pdf.CellFormat(itemCols[3], h, "AMOUNT", "", 1, "R", true, 0, "")
}

// totalLine is one row of the totals block.
type totalLine struct {
	label string
	value string
	bold  bool
}

// totalLines reproduces the stored amounts. Discount and tax rows appear only
// when their stored amounts are non-zero; paid and balance rows only on
// invoices.
func totalLines(p domain.PricingBlock, amountPaid, balanceDue *decimal.Decimal, currency string) []totalLine {
	lines := []totalLine{{label: "Subtotal", value: currency + p.Subtotal.StringFixed(2)}}

	if !p.DiscountAmount.IsZero() {
		label := "Discount"
		if p.DiscountType == domain.DiscountPercentage {
			label = fmt.Sprintf("Discount (%s%%)", p.DiscountValue.String())
		}
		lines = append(lines, totalLine{label: label, value: "-" + currency + p.DiscountAmount.StringFixed(2)})
	}
	if !p.GSTAmount.IsZero() {
		lines = append(lines, totalLine{
			label: fmt.Sprintf("GST (%s%%)", p.GSTPercentage.String()),
			value: currency + p.GSTAmount.StringFixed(2),
		})
	}

	lines = append(lines, totalLine{label: "Grand Total", value: currency + p.GrandTotal.StringFixed(2), bold: true})

	if amountPaid != nil && !amountPaid.IsZero() {
		lines = append(lines, totalLine{label: "Amount Paid", value: currency + amountPaid.StringFixed(2)})
	}
	if balanceDue != nil {
		lines = append(lines, totalLine{label: "Balance Due", value: currency + balanceDue.StringFixed(2), bold: true})
	}
	return lines
}

func (d *doc) totals(lines []totalLine) {
	if d.pdf.GetY() > d.pageH-footerGuard {
		d.pdf.AddPage()
	}

	labelW := d.printableWidth() - 70
	for _, line := range lines {
		if line.bold {
			d.pdf.SetFont("Helvetica", "B", 10)
			d.pdf.SetTextColor(79, 70, 229)
		} else {
			d.pdf.SetFont("Helvetica", "", 9)
			d.pdf.SetTextColor(30, 41, 59)
		}
		d.pdf.CellFormat(labelW, 6, "", "", 0, "L", false, 0, "")
		d.pdf.CellFormat(35, 6, line.label, "", 0, "R", false, 0, "")
		d.pdf.CellFormat(35, 6, line.value, "", 1, "R", false, 0, "")
	}
	d.pdf.Ln(4)
}

func (d *doc) terms(paymentTerms, notes string) {
	if paymentTerms != "" {
		d.pdf.SetFont("Helvetica", "B", 9)
		d.pdf.SetTextColor(100, 116, 139)
		d.pdf.CellFormat(d.printableWidth(), 5, "PAYMENT TERMS", "", 1, "L", false, 0, "")
		d.pdf.SetFont("Helvetica", "", 9)
		d.pdf.SetTextColor(30, 41, 59)
		d.pdf.MultiCell(d.printableWidth(), 4.5, paymentTerms, "", "L", false)
		d.pdf.Ln(2)
	}
	if notes != "" {
		d.pdf.SetFont("Helvetica", "B", 9)
		d.pdf.SetTextColor(100, 116, 139)
		d.pdf.CellFormat(d.printableWidth(), 5, "NOTES", "", 1, "L", false, 0, "")
		d.pdf.SetFont("Helvetica", "", 9)
		d.pdf.SetTextColor(30, 41, 59)
		d.pdf.MultiCell(d.printableWidth(), 4.5, notes, "", "L", false)
		d.pdf.Ln(2)
	}
}

func (d *doc) bankDetails(s *domain.BusinessSettings) {
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetTextColor(100, 116, 139)
	d.pdf.CellFormat(d.printableWidth(), 5, "PAYMENT DETAILS", "", 1, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.SetTextColor(30, 41, 59)
	if s.BankName != "" {
		d.pdf.CellFormat(d.printableWidth(), 4.5, "Bank: "+s.BankName, "", 1, "L", false, 0, "")
	}
	if s.BankAccountNumber != "" {
		d.pdf.CellFormat(d.printableWidth(), 4.5, "Account: "+s.BankAccountNumber, "", 1, "L", false, 0, "")
	}
	if s.BankIFSC != "" {
		d.pdf.CellFormat(d.printableWidth(), 4.5, "IFSC: "+s.BankIFSC, "", 1, "L", false, 0, "")
	}
	if s.UPIID != "" {
		d.pdf.CellFormat(d.printableWidth(), 4.5, "UPI: "+s.UPIID, "", 1, "L", false, 0, "")
	}
	d.pdf.Ln(2)
}

func (d *doc) footer() {
	d.pdf.SetY(d.pageH - pageMargin - 10)
	d.pdf.SetFont("Helvetica", "I", 9)
	d.pdf.SetTextColor(100, 116, 139)
	d.pdf.CellFormat(d.printableWidth(), 5, "Thank you for your business!", "", 1, "C", false, 0, "")
}

func (d *doc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate shortens s to at most max characters, counting runes so a
// multi-byte name is never cut mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
