// Package billing implements the pure money and tax calculations shared by the
// quotation and invoice lifecycles. All arithmetic uses decimal values rounded
// half-up to 2 places; derived amounts are computed deliberately after every
// mutation rather than as a rendering side effect.
package billing

import (
	"github.com/shopspring/decimal"

	"urbill/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Options selects how discount and tax apply to a document.
type Options struct {
	DiscountEnabled bool
	DiscountType    domain.DiscountType
	DiscountValue   decimal.Decimal
	TaxEnabled      bool
	TaxPercentage   decimal.Decimal
}

// Totals holds the derived pricing block of a document.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxAmount      decimal.Decimal
	GrandTotal     decimal.Decimal
}

// Compute derives totals from the given item list and options. It sums each
// item's stored amount; it does not re-derive amount from quantity and rate,
// so callers must normalize items first (see NormalizeItems). Recomputation is
// idempotent and total.
func Compute(items []domain.LineItem, opts Options) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	subtotal = subtotal.Round(2)

	discount := decimal.Zero
	if opts.DiscountEnabled {
		if opts.DiscountType == domain.DiscountPercentage {
			discount = subtotal.Mul(opts.DiscountValue).Div(hundred).Round(2)
		} else {
			discount = opts.DiscountValue.Round(2)
		}
	}

	taxable := subtotal.Sub(discount)

	tax := decimal.Zero
	if opts.TaxEnabled {
		tax = taxable.Mul(opts.TaxPercentage).Div(hundred).Round(2)
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discount,
		TaxableAmount:  taxable,
		TaxAmount:      tax,
		GrandTotal:     taxable.Add(tax),
	}
}

// BalanceDue returns the outstanding amount on an invoice, floored at zero so
// an overpayment never yields a negative balance.
func BalanceDue(grandTotal, amountPaid decimal.Decimal) decimal.Decimal {
	balance := grandTotal.Sub(amountPaid)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// NormalizeItems re-derives each item's amount from quantity and rate and
// reassigns sort order from list position. The item list of a document is
// replaced wholesale on every save, so positions are authoritative.
func NormalizeItems(items []domain.LineItem) []domain.LineItem {
	normalized := make([]domain.LineItem, len(items))
	for i, item := range items {
		item.Amount = item.Rate.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		item.SortOrder = i
		normalized[i] = item
	}
	return normalized
}

// ApplyTo copies the computed totals into a document's pricing block,
// preserving the caller-supplied discount type/value and tax percentage.
func (t Totals) ApplyTo(p *domain.PricingBlock) {
	p.Subtotal = t.Subtotal
	p.DiscountAmount = t.DiscountAmount
	p.TaxableAmount = t.TaxableAmount
	p.GSTAmount = t.TaxAmount
	p.GrandTotal = t.GrandTotal
}
