package domain

// QuotationStatus represents the lifecycle state of a quotation.
type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "draft"
	QuotationSent     QuotationStatus = "sent"
	QuotationAccepted QuotationStatus = "accepted"
	QuotationRejected QuotationStatus = "rejected"
	QuotationExpired  QuotationStatus = "expired"
)

// quotationTransitions maps each quotation status to the statuses it may move to.
// Accepted, rejected and expired are terminal.
var quotationTransitions = map[QuotationStatus][]QuotationStatus{
	QuotationDraft: {QuotationSent, QuotationAccepted, QuotationRejected},
	QuotationSent:  {QuotationAccepted, QuotationRejected, QuotationExpired},
}

// Valid reports whether s is a known quotation status.
func (s QuotationStatus) Valid() bool {
	switch s {
	case QuotationDraft, QuotationSent, QuotationAccepted, QuotationRejected, QuotationExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether a quotation in status s may move to target.
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	for _, t := range quotationTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// InvoiceStatus represents the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePending   InvoiceStatus = "pending"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

// invoiceTransitions maps each invoice status to the statuses it may move to.
// Cancellation is allowed from any non-paid state; paid and cancelled are terminal.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:   {InvoiceSent, InvoicePending, InvoiceCancelled},
	InvoiceSent:    {InvoicePending, InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoicePending: {InvoicePaid, InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue: {InvoicePaid, InvoiceCancelled},
}

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePending, InvoicePaid, InvoiceOverdue, InvoiceCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an invoice in status s may move to target.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	for _, t := range invoiceTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// DiscountType selects how a document-level discount is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Valid reports whether d is a known discount type.
func (d DiscountType) Valid() bool {
	return d == DiscountPercentage || d == DiscountFixed
}

// DocType distinguishes the two billing document kinds for numbering and exports.
type DocType string

const (
	DocTypeQuotation DocType = "quotation"
	DocTypeInvoice   DocType = "invoice"
)

// UserRole defines the role of a back-office user.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
)
