package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"urbill/internal/billing"
	"urbill/internal/domain"
	"urbill/internal/port"
)

// InvoiceInput is the DTO for creating or replacing an invoice. Optional
// fields fall back to business settings defaults when nil.
type InvoiceInput struct {
	InvoiceDate   *time.Time       `json:"invoice_date"`
	DueDate       *time.Time       `json:"due_date"`
	Client        ClientInput      `json:"client"`
	Items         []LineItemInput  `json:"items"`
	DiscountType  *string          `json:"discount_type"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	PaymentTerms  *string          `json:"payment_terms"`
	Notes         string           `json:"notes"`
}

// PaymentInput records a payment against an invoice.
type PaymentInput struct {
	Amount decimal.Decimal `json:"amount"`
}

// ListInvoicesInput narrows and pages invoice listings.
type ListInvoicesInput struct {
	Status string `form:"status"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// InvoiceService defines the business logic contract for invoices.
type InvoiceService interface {
	Create(ctx context.Context, input InvoiceInput, createdBy uuid.UUID) (*domain.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, input ListInvoicesInput) ([]domain.Invoice, int, error)
	Update(ctx context.Context, id uuid.UUID, input InvoiceInput, expectedUpdatedAt *time.Time) (*domain.Invoice, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, target domain.InvoiceStatus) (*domain.Invoice, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// RecordPayment applies a positive payment, clamping the balance at zero
	// and moving the invoice to paid once nothing is outstanding.
	RecordPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*domain.Invoice, error)
	// CreateFromQuotation converts an accepted, unconverted quotation into a
	// draft invoice, copying client, items and pricing verbatim.
	CreateFromQuotation(ctx context.Context, quotationID uuid.UUID, createdBy uuid.UUID) (*domain.Invoice, error)
	Send(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
}

type invoiceService struct {
	repo          port.InvoiceRepository
	quotationRepo port.QuotationRepository
	seqRepo       port.SequenceRepository
	settingsRepo  port.SettingsRepository
	renderer      port.DocumentRenderer
	sender        port.EmailSender
	archiver      *DocumentArchiver
}

// NewInvoiceService creates a new InvoiceService implementation. archiver may
// be nil when PDF archival is not configured.
func NewInvoiceService(
	repo port.InvoiceRepository,
	quotationRepo port.QuotationRepository,
	seqRepo port.SequenceRepository,
	settingsRepo port.SettingsRepository,
	renderer port.DocumentRenderer,
	sender port.EmailSender,
	archiver *DocumentArchiver,
) InvoiceService {
	return &invoiceService{
		repo:          repo,
		quotationRepo: quotationRepo,
		seqRepo:       seqRepo,
		settingsRepo:  settingsRepo,
		renderer:      renderer,
		sender:        sender,
		archiver:      archiver,
	}
}

func (s *invoiceService) Create(ctx context.Context, input InvoiceInput, createdBy uuid.UUID) (*domain.Invoice, error) {
	settings, err := settingsOrDefaults(ctx, s.settingsRepo)
	if err != nil {
		return nil, err
	}

	inv := &domain.Invoice{}
	if err := s.applyInput(inv, input, settings); err != nil {
		return nil, err
	}

	number, err := s.seqRepo.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	inv.ID = uuid.New()
	inv.InvoiceNumber = number
	inv.Status = domain.InvoiceDraft
	inv.AmountPaid = decimal.Zero
	inv.BalanceDue = inv.GrandTotal
	inv.CreatedBy = createdBy

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, inv.ID)
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *invoiceService) List(ctx context.Context, input ListInvoicesInput) ([]domain.Invoice, int, error) {
	filter := port.InvoiceFilter{Search: strings.TrimSpace(input.Search)}
	if input.Status != "" {
		status := domain.InvoiceStatus(input.Status)
		if !status.Valid() {
			ve := &domain.ValidationError{}
			ve.Add("status", "unknown invoice status")
			return nil, 0, ve
		}
		filter.Status = &status
	}
	filter.Offset, filter.Limit = pageToRange(input.Page, input.Limit)
	return s.repo.List(ctx, filter)
}

func (s *invoiceService) Update(ctx context.Context, id uuid.UUID, input InvoiceInput, expectedUpdatedAt *time.Time) (*domain.Invoice, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.InvoiceDraft && existing.Status != domain.InvoiceSent {
		return nil, fmt.Errorf("%w: %s invoices cannot be edited", domain.ErrInvalidStatusTransition, existing.Status)
	}

	settings, err := settingsOrDefaults(ctx, s.settingsRepo)
	if err != nil {
		return nil, err
	}

	replaceItems := len(input.Items) > 0
	if !replaceItems {
		input.Items = itemsToInputs(existing.Items)
	}
	if err := s.applyInput(existing, input, settings); err != nil {
		return nil, err
	}

	// A replaced item set changes the grand total, so the outstanding balance
	// must be re-derived against what has already been paid.
	existing.BalanceDue = billing.BalanceDue(existing.GrandTotal, existing.AmountPaid)

	if err := s.repo.Update(ctx, existing, replaceItems, expectedUpdatedAt); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *invoiceService) ChangeStatus(ctx context.Context, id uuid.UUID, target domain.InvoiceStatus) (*domain.Invoice, error) {
	if !target.Valid() {
		ve := &domain.ValidationError{}
		ve.Add("status", "unknown invoice status")
		return nil, ve
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, inv.Status, target)
	}

	now := time.Now()
	sentAt, paidAt := inv.SentAt, inv.PaidAt
	switch target {
	case domain.InvoiceSent:
		if sentAt == nil {
			sentAt = &now
		}
	case domain.InvoicePaid:
		if paidAt == nil {
			paidAt = &now
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, target, sentAt, paidAt); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *invoiceService) RecordPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*domain.Invoice, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidPaymentAmount
	}

	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch inv.Status {
	case domain.InvoiceSent, domain.InvoicePending, domain.InvoiceOverdue:
	default:
		return nil, fmt.Errorf("%w: status %s", domain.ErrInvoiceNotPayable, inv.Status)
	}

	inv.AmountPaid = inv.AmountPaid.Add(input.Amount).Round(2)
	inv.BalanceDue = billing.BalanceDue(inv.GrandTotal, inv.AmountPaid)

	if inv.BalanceDue.IsZero() {
		inv.Status = domain.InvoicePaid
		if inv.PaidAt == nil {
			now := time.Now()
			inv.PaidAt = &now
		}
	} else if inv.Status == domain.InvoiceSent {
		inv.Status = domain.InvoicePending
	}

	if err := s.repo.RecordPayment(ctx, inv); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *invoiceService) CreateFromQuotation(ctx context.Context, quotationID uuid.UUID, createdBy uuid.UUID) (*domain.Invoice, error) {
	q, err := s.quotationRepo.GetByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if q.Status != domain.QuotationAccepted {
		return nil, domain.ErrQuotationNotAccepted
	}
	if q.ConvertedToInvoice {
		return nil, domain.ErrQuotationConverted
	}

	settings, err := settingsOrDefaults(ctx, s.settingsRepo)
	if err != nil {
		return nil, err
	}

	number, err := s.seqRepo.NextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	paymentDays := settings.DefaultValidityDays
	items := make([]domain.LineItem, len(q.Items))
	for i, item := range q.Items {
		items[i] = domain.LineItem{
			ServiceName: item.ServiceName,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
			SortOrder:   item.SortOrder,
		}
	}

	inv := &domain.Invoice{
		ID:              uuid.New(),
		InvoiceNumber:   number,
		InvoiceDate:     now,
		DueDate:         now.AddDate(0, 0, paymentDays),
		QuotationID:     &q.ID,
		QuotationNumber: &q.QuotationNumber,
		ClientBlock:     q.ClientBlock,
		PricingBlock:    q.PricingBlock,
		AmountPaid:      decimal.Zero,
		BalanceDue:      q.GrandTotal,
		PaymentTerms:    q.PaymentTerms,
		Notes:           q.Notes,
		Status:          domain.InvoiceDraft,
		CreatedBy:       createdBy,
		Items:           items,
	}

	if err := s.repo.CreateFromQuotation(ctx, inv, q.ID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, inv.ID)
}

func (s *invoiceService) Send(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.ClientEmail == "" {
		ve := &domain.ValidationError{}
		ve.Add("client_email", "client email is required to send the invoice")
		return nil, ve
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := s.renderer.RenderInvoice(inv, settings)
	if err != nil {
		return nil, fmt.Errorf("rendering invoice %s: %w", inv.InvoiceNumber, err)
	}

	downloadURL := s.archiver.archive(ctx, domain.DocTypeInvoice, inv.InvoiceNumber, pdfBytes)

	email := port.DocumentEmail{
		ToEmail:        inv.ClientEmail,
		ToName:         inv.ClientName,
		DocumentKind:   "Invoice",
		DocumentNumber: inv.InvoiceNumber,
		GrandTotal:     inv.GrandTotal.StringFixed(2),
		Currency:       settings.Currency,
		CompanyName:    settings.CompanyName,
		DueBy:          inv.DueDate.Format("02 Jan 2006"),
		DownloadURL:    downloadURL,
	}
	if err := s.sender.SendDocument(ctx, email); err != nil {
		return nil, fmt.Errorf("sending invoice %s: %w", inv.InvoiceNumber, err)
	}

	if inv.Status == domain.InvoiceDraft {
		return s.ChangeStatus(ctx, id, domain.InvoiceSent)
	}
	return inv, nil
}

func (s *invoiceService) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := s.renderer.RenderInvoice(inv, settings)
	if err != nil {
		return nil, "", fmt.Errorf("rendering invoice %s: %w", inv.InvoiceNumber, err)
	}
	return pdfBytes, inv.InvoiceNumber + ".pdf", nil
}

// applyInput validates the input, resolves defaults from settings and writes
// the resulting header fields, items and recomputed totals into inv.
func (s *invoiceService) applyInput(inv *domain.Invoice, input InvoiceInput, settings *domain.BusinessSettings) error {
	ve := &domain.ValidationError{}

	client := domain.ClientBlock{
		ClientName:         strings.TrimSpace(input.Client.ClientName),
		ClientBusinessName: strings.TrimSpace(input.Client.ClientBusinessName),
		ClientPhone:        strings.TrimSpace(input.Client.ClientPhone),
		ClientEmail:        strings.TrimSpace(input.Client.ClientEmail),
		ClientAddress:      strings.TrimSpace(input.Client.ClientAddress),
	}
	validateClient(ve, client)

	items := make([]domain.LineItem, len(input.Items))
	for i, in := range input.Items {
		items[i] = domain.LineItem{
			ServiceName: strings.TrimSpace(in.ServiceName),
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			Rate:        in.Rate,
		}
	}
	validateItems(ve, items)

	discountType := domain.DiscountPercentage
	discountValue := decimal.Zero
	if settings.EnableDiscount {
		if input.DiscountType != nil {
			discountType = domain.DiscountType(*input.DiscountType)
		}
		if input.DiscountValue != nil {
			discountValue = *input.DiscountValue
		}
		validateDiscount(ve, discountType, discountValue)
	}

	validateTaxRate(ve, settings.GSTPercentage)

	// Omitted dates keep the stored ones on updates; only a brand new invoice
	// defaults to today and the settings-derived payment window.
	invoiceDate := inv.InvoiceDate
	if input.InvoiceDate != nil {
		invoiceDate = *input.InvoiceDate
	} else if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}
	dueDate := inv.DueDate
	if input.DueDate != nil {
		dueDate = *input.DueDate
	} else if dueDate.IsZero() {
		dueDate = invoiceDate.AddDate(0, 0, settings.DefaultValidityDays)
	}
	if dueDate.Before(invoiceDate) {
		ve.Add("due_date", "due date cannot be before the invoice date")
	}

	if ve.HasErrors() {
		return ve
	}

	paymentTerms := settings.DefaultPaymentTerms
	if input.PaymentTerms != nil {
		paymentTerms = *input.PaymentTerms
	}

	normalized := billing.NormalizeItems(items)
	totals := billing.Compute(normalized, billing.Options{
		DiscountEnabled: settings.EnableDiscount,
		DiscountType:    discountType,
		DiscountValue:   discountValue,
		TaxEnabled:      settings.EnableGST,
		TaxPercentage:   settings.GSTPercentage,
	})

	inv.InvoiceDate = invoiceDate
	inv.DueDate = dueDate
	inv.ClientBlock = client
	inv.DiscountType = discountType
	inv.DiscountValue = discountValue
	inv.GSTPercentage = settings.GSTPercentage
	inv.PaymentTerms = paymentTerms
	inv.Notes = strings.TrimSpace(input.Notes)
	inv.Items = normalized
	totals.ApplyTo(&inv.PricingBlock)
	return nil
}
