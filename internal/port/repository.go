package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"urbill/internal/domain"
)

// AdminUserRepository defines the contract for back-office user persistence.
type AdminUserRepository interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
}

// QuotationFilter narrows quotation listings.
type QuotationFilter struct {
	Status *domain.QuotationStatus
	Search string
	Offset int
	Limit  int
}

// QuotationRepository defines the contract for quotation persistence. Create
// and Replace write the header and the full item set in a single transaction;
// items are never diffed incrementally.
type QuotationRepository interface {
	Create(ctx context.Context, q *domain.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)
	List(ctx context.Context, filter QuotationFilter) ([]domain.Quotation, int, error)
	// Update persists the header and, when replaceItems is true, deletes and
	// reinserts the item set in the same transaction. When expectedUpdatedAt is
	// non-nil the write fails with domain.ErrConflict unless the stored row
	// still carries that timestamp.
	Update(ctx context.Context, q *domain.Quotation, replaceItems bool, expectedUpdatedAt *time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus, sentAt, acceptedAt *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	// MarkExpired moves every sent quotation whose validity window has passed
	// to expired, returning the number of rows affected.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

// InvoiceFilter narrows invoice listings.
type InvoiceFilter struct {
	Status *domain.InvoiceStatus
	Search string
	Offset int
	Limit  int
}

// InvoiceRepository defines the contract for invoice persistence.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, int, error)
	Update(ctx context.Context, inv *domain.Invoice, replaceItems bool, expectedUpdatedAt *time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus, sentAt, paidAt *time.Time) error
	// RecordPayment persists the new amount_paid/balance_due/status after a
	// payment has been applied by the service layer.
	RecordPayment(ctx context.Context, inv *domain.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	// CreateFromQuotation inserts the invoice with its items and stamps the
	// source quotation converted in one transaction, so a partial failure can
	// never leave the conversion half-applied.
	CreateFromQuotation(ctx context.Context, inv *domain.Invoice, quotationID uuid.UUID) error
	// MarkOverdue moves every sent or pending invoice past its due date with an
	// outstanding balance to overdue, returning the number of rows affected.
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
}

// SettingsRepository defines the contract for the business settings singleton.
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.BusinessSettings, error)
	Upsert(ctx context.Context, s *domain.BusinessSettings) error
}

// SequenceRepository reserves unique, human-readable document numbers. The
// backing store enforces uniqueness; two concurrent callers never receive the
// same value.
type SequenceRepository interface {
	NextQuotationNumber(ctx context.Context) (string, error)
	NextInvoiceNumber(ctx context.Context) (string, error)
}

// StatsRepository provides aggregate statistics queries for the dashboard.
type StatsRepository interface {
	GetBillingStats(ctx context.Context) (*domain.BillingStats, error)
}

// RegisterRow is one line of the billing register export, covering both
// document types.
type RegisterRow struct {
	DocType        domain.DocType
	DocumentNumber string
	DocumentDate   time.Time
	ClientName     string
	BusinessName   string
	Status         string
	Subtotal       string
	DiscountAmount string
	TaxAmount      string
	GrandTotal     string
	AmountPaid     string
	BalanceDue     string
}

// ReportRepository provides the flattened rows behind register exports.
// from is an inclusive lower bound on document_date; to is an exclusive
// upper bound. Either may be nil for an open range.
type ReportRepository interface {
	BillingRegister(ctx context.Context, from, to *time.Time) ([]RegisterRow, error)
}
