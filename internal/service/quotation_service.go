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

// LineItemInput is one requested line item. Amount is always re-derived from
// quantity and rate; a client-supplied amount is ignored.
type LineItemInput struct {
	ServiceName string          `json:"service_name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

// ClientInput carries the client contact fields of a document request.
type ClientInput struct {
	ClientName         string `json:"client_name"`
	ClientBusinessName string `json:"client_business_name"`
	ClientPhone        string `json:"client_phone"`
	ClientEmail        string `json:"client_email"`
	ClientAddress      string `json:"client_address"`
}

// QuotationInput is the DTO for creating or replacing a quotation. Optional
// fields fall back to business settings defaults when nil.
type QuotationInput struct {
	QuotationDate *time.Time       `json:"quotation_date"`
	ValidityDays  *int             `json:"validity_days"`
	Client        ClientInput      `json:"client"`
	Items         []LineItemInput  `json:"items"`
	DiscountType  *string          `json:"discount_type"`
	DiscountValue *decimal.Decimal `json:"discount_value"`
	PaymentTerms  *string          `json:"payment_terms"`
	Notes         string           `json:"notes"`
}

// ListQuotationsInput narrows and pages quotation listings.
type ListQuotationsInput struct {
	Status string `form:"status"`
	Search string `form:"search"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// QuotationService defines the business logic contract for quotations.
type QuotationService interface {
	Create(ctx context.Context, input QuotationInput, createdBy uuid.UUID) (*domain.Quotation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)
	List(ctx context.Context, input ListQuotationsInput) ([]domain.Quotation, int, error)
	// Update replaces the header and the full item set. An empty item list
	// keeps the stored items (header-only update). A non-nil
	// expectedUpdatedAt makes the write conditional on the stored timestamp.
	Update(ctx context.Context, id uuid.UUID, input QuotationInput, expectedUpdatedAt *time.Time) (*domain.Quotation, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, target domain.QuotationStatus) (*domain.Quotation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Send emails the rendered quotation to the client and moves a draft to
	// sent. Requires configured business settings and a client email.
	Send(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)
	// RenderPDF returns the printable document and its download filename.
	RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error)
	ServicePresets() []domain.ServicePreset
}

type quotationService struct {
	repo         port.QuotationRepository
	seqRepo      port.SequenceRepository
	settingsRepo port.SettingsRepository
	renderer     port.DocumentRenderer
	sender       port.EmailSender
	archiver     *DocumentArchiver
}

// NewQuotationService creates a new QuotationService implementation. archiver
// may be nil when PDF archival is not configured.
func NewQuotationService(
	repo port.QuotationRepository,
	seqRepo port.SequenceRepository,
	settingsRepo port.SettingsRepository,
	renderer port.DocumentRenderer,
	sender port.EmailSender,
	archiver *DocumentArchiver,
) QuotationService {
	return &quotationService{
		repo:         repo,
		seqRepo:      seqRepo,
		settingsRepo: settingsRepo,
		renderer:     renderer,
		sender:       sender,
		archiver:     archiver,
	}
}

func (s *quotationService) Create(ctx context.Context, input QuotationInput, createdBy uuid.UUID) (*domain.Quotation, error) {
	settings, err := settingsOrDefaults(ctx, s.settingsRepo)
	if err != nil {
		return nil, err
	}

	q := &domain.Quotation{}
	if err := s.applyInput(q, input, settings); err != nil {
		return nil, err
	}

	number, err := s.seqRepo.NextQuotationNumber(ctx)
	if err != nil {
		return nil, err
	}

	q.ID = uuid.New()
	q.QuotationNumber = number
	q.Status = domain.QuotationDraft
	q.CreatedBy = createdBy

	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, q.ID)
}

func (s *quotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *quotationService) List(ctx context.Context, input ListQuotationsInput) ([]domain.Quotation, int, error) {
	filter := port.QuotationFilter{Search: strings.TrimSpace(input.Search)}
	if input.Status != "" {
		status := domain.QuotationStatus(input.Status)
		if !status.Valid() {
			ve := &domain.ValidationError{}
			ve.Add("status", "unknown quotation status")
			return nil, 0, ve
		}
		filter.Status = &status
	}
	filter.Offset, filter.Limit = pageToRange(input.Page, input.Limit)
	return s.repo.List(ctx, filter)
}

func (s *quotationService) Update(ctx context.Context, id uuid.UUID, input QuotationInput, expectedUpdatedAt *time.Time) (*domain.Quotation, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.ConvertedToInvoice {
		return nil, domain.ErrQuotationConverted
	}
	if existing.Status != domain.QuotationDraft && existing.Status != domain.QuotationSent {
		return nil, fmt.Errorf("%w: %s quotations cannot be edited", domain.ErrInvalidStatusTransition, existing.Status)
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

	if err := s.repo.Update(ctx, existing, replaceItems, expectedUpdatedAt); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *quotationService) ChangeStatus(ctx context.Context, id uuid.UUID, target domain.QuotationStatus) (*domain.Quotation, error) {
	if !target.Valid() {
		ve := &domain.ValidationError{}
		ve.Add("status", "unknown quotation status")
		return nil, ve
	}

	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidStatusTransition, q.Status, target)
	}

	now := time.Now()
	sentAt, acceptedAt := q.SentAt, q.AcceptedAt
	switch target {
	case domain.QuotationSent:
		if sentAt == nil {
			sentAt = &now
		}
	case domain.QuotationAccepted:
		if acceptedAt == nil {
			acceptedAt = &now
		}
	}

	if err := s.repo.UpdateStatus(ctx, id, target, sentAt, acceptedAt); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *quotationService) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q.ConvertedToInvoice {
		return domain.ErrQuotationConverted
	}
	return s.repo.Delete(ctx, id)
}

func (s *quotationService) Send(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.ClientEmail == "" {
		ve := &domain.ValidationError{}
		ve.Add("client_email", "client email is required to send the quotation")
		return nil, ve
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := s.renderer.RenderQuotation(q, settings)
	if err != nil {
		return nil, fmt.Errorf("rendering quotation %s: %w", q.QuotationNumber, err)
	}

	downloadURL := s.archiver.archive(ctx, domain.DocTypeQuotation, q.QuotationNumber, pdfBytes)

	email := port.DocumentEmail{
		ToEmail:        q.ClientEmail,
		ToName:         q.ClientName,
		DocumentKind:   "Quotation",
		DocumentNumber: q.QuotationNumber,
		GrandTotal:     q.GrandTotal.StringFixed(2),
		Currency:       settings.Currency,
		CompanyName:    settings.CompanyName,
		DueBy:          q.ValidUntil.Format("02 Jan 2006"),
		DownloadURL:    downloadURL,
	}
	if err := s.sender.SendDocument(ctx, email); err != nil {
		return nil, fmt.Errorf("sending quotation %s: %w", q.QuotationNumber, err)
	}

	if q.Status == domain.QuotationDraft {
		return s.ChangeStatus(ctx, id, domain.QuotationSent)
	}
	return q, nil
}

func (s *quotationService) RenderPDF(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := s.renderer.RenderQuotation(q, settings)
	if err != nil {
		return nil, "", fmt.Errorf("rendering quotation %s: %w", q.QuotationNumber, err)
	}
	return pdfBytes, q.QuotationNumber + ".pdf", nil
}

func (s *quotationService) ServicePresets() []domain.ServicePreset {
	return domain.ServicePresets
}

// applyInput validates the input, resolves defaults from settings and writes
// the resulting header fields, items and recomputed totals into q.
func (s *quotationService) applyInput(q *domain.Quotation, input QuotationInput, settings *domain.BusinessSettings) error {
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

	validityDays := settings.DefaultValidityDays
	if input.ValidityDays != nil {
		validityDays = *input.ValidityDays
	}
	if validityDays <= 0 {
		ve.Add("validity_days", "validity days must be a positive integer")
	}

	validateTaxRate(ve, settings.GSTPercentage)

	if ve.HasErrors() {
		return ve
	}

	// An omitted date keeps the stored one on updates; only a brand new
	// quotation defaults to today.
	quotationDate := q.QuotationDate
	if input.QuotationDate != nil {
		quotationDate = *input.QuotationDate
	} else if quotationDate.IsZero() {
		quotationDate = time.Now()
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

	q.QuotationDate = quotationDate
	q.ValidityDays = validityDays
	q.ValidUntil = quotationDate.AddDate(0, 0, validityDays)
	q.ClientBlock = client
	q.DiscountType = discountType
	q.DiscountValue = discountValue
	q.GSTPercentage = settings.GSTPercentage
	q.PaymentTerms = paymentTerms
	q.Notes = strings.TrimSpace(input.Notes)
	q.Items = normalized
	totals.ApplyTo(&q.PricingBlock)
	return nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NormalizePage clamps 1-based page/limit query values to the effective
// values list operations apply, so callers can report them back accurately.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// pageToRange converts 1-based page/limit query values to offset/limit.
func pageToRange(page, limit int) (int, int) {
	page, limit = NormalizePage(page, limit)
	return (page - 1) * limit, limit
}
