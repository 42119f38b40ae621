package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminUser represents a back-office user allowed to manage billing documents.
type AdminUser struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// BusinessSettings is the singleton describing the issuing company. Exactly one
// logical row exists; document creation flows read it for defaults.
type BusinessSettings struct {
	ID                  uuid.UUID       `db:"id" json:"id"`
	CompanyName         string          `db:"company_name" json:"company_name"`
	CompanyAddress      string          `db:"company_address" json:"company_address"`
	CompanyPhone        string          `db:"company_phone" json:"company_phone"`
	CompanyEmail        string          `db:"company_email" json:"company_email"`
	CompanyWebsite      string          `db:"company_website" json:"company_website"`
	Currency            string          `db:"currency" json:"currency"`
	CurrencyCode        string          `db:"currency_code" json:"currency_code"`
	GSTNumber           string          `db:"gst_number" json:"gst_number"`
	GSTPercentage       decimal.Decimal `db:"gst_percentage" json:"gst_percentage"`
	EnableGST           bool            `db:"enable_gst" json:"enable_gst"`
	EnableDiscount      bool            `db:"enable_discount" json:"enable_discount"`
	DefaultPaymentTerms string          `db:"default_payment_terms" json:"default_payment_terms"`
	DefaultValidityDays int             `db:"default_validity_days" json:"default_validity_days"`
	BankName            string          `db:"bank_name" json:"bank_name"`
	BankAccountNumber   string          `db:"bank_account_number" json:"bank_account_number"`
	BankIFSC            string          `db:"bank_ifsc" json:"bank_ifsc"`
	UPIID               string          `db:"upi_id" json:"upi_id"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
}

// DefaultBusinessSettings returns the settings used before the singleton has
// been configured. Document creation falls back to these; PDF rendering and
// sending require a configured row.
func DefaultBusinessSettings() *BusinessSettings {
	return &BusinessSettings{
		Currency:            "₹",
		CurrencyCode:        "INR",
		GSTPercentage:       decimal.NewFromInt(18),
		EnableGST:           true,
		EnableDiscount:      true,
		DefaultPaymentTerms: "50% advance, balance on delivery",
		DefaultValidityDays: 15,
	}
}

// ClientBlock holds the client contact fields shared by quotations and invoices.
type ClientBlock struct {
	ClientName         string `db:"client_name" json:"client_name"`
	ClientBusinessName string `db:"client_business_name" json:"client_business_name"`
	ClientPhone        string `db:"client_phone" json:"client_phone"`
	ClientEmail        string `db:"client_email" json:"client_email"`
	ClientAddress      string `db:"client_address" json:"client_address"`
}

// PricingBlock holds the derived pricing fields shared by quotations and invoices.
// All amounts are computed by the billing calculator and stored as-is; the PDF
// renderer reproduces them without recomputation.
type PricingBlock struct {
	Subtotal       decimal.Decimal `db:"subtotal" json:"subtotal"`
	DiscountType   DiscountType    `db:"discount_type" json:"discount_type"`
	DiscountValue  decimal.Decimal `db:"discount_value" json:"discount_value"`
	DiscountAmount decimal.Decimal `db:"discount_amount" json:"discount_amount"`
	TaxableAmount  decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`
	GSTPercentage  decimal.Decimal `db:"gst_percentage" json:"gst_percentage"`
	GSTAmount      decimal.Decimal `db:"gst_amount" json:"gst_amount"`
	GrandTotal     decimal.Decimal `db:"grand_total" json:"grand_total"`
}

// LineItem is one billable row belonging to a quotation or an invoice. Amount
// always equals Quantity x Rate; the item set of a parent document is fully
// replaced on every save and SortOrder is reassigned from list position.
type LineItem struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	ParentID    uuid.UUID       `db:"parent_id" json:"parent_id"`
	ServiceName string          `db:"service_name" json:"service_name"`
	Description string          `db:"description" json:"description"`
	Quantity    int             `db:"quantity" json:"quantity"`
	Rate        decimal.Decimal `db:"rate" json:"rate"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	SortOrder   int             `db:"sort_order" json:"sort_order"`
}

// Quotation represents a proposal to a client.
type Quotation struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	QuotationNumber string          `db:"quotation_number" json:"quotation_number"`
	QuotationDate   time.Time       `db:"quotation_date" json:"quotation_date"`
	ValidityDays    int             `db:"validity_days" json:"validity_days"`
	ValidUntil      time.Time       `db:"valid_until" json:"valid_until"`
	ClientBlock
	PricingBlock
	PaymentTerms       string          `db:"payment_terms" json:"payment_terms"`
	Notes              string          `db:"notes" json:"notes"`
	Status             QuotationStatus `db:"status" json:"status"`
	SentAt             *time.Time      `db:"sent_at" json:"sent_at,omitempty"`
	AcceptedAt         *time.Time      `db:"accepted_at" json:"accepted_at,omitempty"`
	ConvertedToInvoice bool            `db:"converted_to_invoice" json:"converted_to_invoice"`
	InvoiceID          *uuid.UUID      `db:"invoice_id" json:"invoice_id,omitempty"`
	CreatedBy          uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`

	// Items is populated on reads and supplied on writes; it is not a column.
	Items []LineItem `db:"-" json:"items"`
}

// Invoice represents a billable claim, optionally linked to its source quotation.
type Invoice struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	InvoiceNumber   string     `db:"invoice_number" json:"invoice_number"`
	InvoiceDate     time.Time  `db:"invoice_date" json:"invoice_date"`
	DueDate         time.Time  `db:"due_date" json:"due_date"`
	QuotationID     *uuid.UUID `db:"quotation_id" json:"quotation_id,omitempty"`
	QuotationNumber *string    `db:"quotation_number" json:"quotation_number,omitempty"`
	ClientBlock
	PricingBlock
	AmountPaid   decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	BalanceDue   decimal.Decimal `db:"balance_due" json:"balance_due"`
	PaymentTerms string          `db:"payment_terms" json:"payment_terms"`
	Notes        string          `db:"notes" json:"notes"`
	Status       InvoiceStatus   `db:"status" json:"status"`
	SentAt       *time.Time      `db:"sent_at" json:"sent_at,omitempty"`
	PaidAt       *time.Time      `db:"paid_at" json:"paid_at,omitempty"`
	CreatedBy    uuid.UUID       `db:"created_by" json:"created_by"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`

	Items []LineItem `db:"-" json:"items"`
}

// BillingStats aggregates dashboard counters over all invoices and quotations.
type BillingStats struct {
	TotalQuotations    int             `db:"total_quotations" json:"total_quotations"`
	QuotationsAccepted int             `db:"quotations_accepted" json:"quotations_accepted"`
	QuotationsPending  int             `db:"quotations_pending" json:"quotations_pending"`
	TotalInvoices      int             `db:"total_invoices" json:"total_invoices"`
	InvoicesPending    int             `db:"invoices_pending" json:"invoices_pending"`
	InvoicesPaid       int             `db:"invoices_paid" json:"invoices_paid"`
	InvoicesOverdue    int             `db:"invoices_overdue" json:"invoices_overdue"`
	TotalRevenue       decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	PendingAmount      decimal.Decimal `db:"pending_amount" json:"pending_amount"`
}

// ServicePreset is a quick-pick line item template offered by the editor UI.
type ServicePreset struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
