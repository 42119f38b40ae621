package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"urbill/internal/domain"
	"urbill/internal/port"
	"urbill/internal/service"
	"urbill/mocks"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func testSettings() *domain.BusinessSettings {
	return &domain.BusinessSettings{
		ID:                  uuid.New(),
		CompanyName:         "URDIGIX",
		Currency:            "₹",
		CurrencyCode:        "INR",
		GSTPercentage:       dec("18"),
		EnableGST:           true,
		EnableDiscount:      true,
		DefaultPaymentTerms: "50% advance, balance on delivery",
		DefaultValidityDays: 15,
	}
}

func validQuotationInput() service.QuotationInput {
	return service.QuotationInput{
		Client: service.ClientInput{
			ClientName:  "Asha Traders",
			ClientEmail: "asha@example.com",
		},
		Items: []service.LineItemInput{
			{ServiceName: "Website Development", Quantity: 1, Rate: dec("2500")},
			{ServiceName: "SEO Optimization", Quantity: 1, Rate: dec("2500")},
		},
	}
}

type quotationDeps struct {
	repo         *mocks.MockQuotationRepo
	seqRepo      *mocks.MockSequenceRepo
	settingsRepo *mocks.MockSettingsRepo
	renderer     *mocks.MockDocumentRenderer
	sender       *mocks.MockEmailSender
}

func newQuotationService() (service.QuotationService, quotationDeps) {
	deps := quotationDeps{
		repo:         new(mocks.MockQuotationRepo),
		seqRepo:      new(mocks.MockSequenceRepo),
		settingsRepo: new(mocks.MockSettingsRepo),
		renderer:     new(mocks.MockDocumentRenderer),
		sender:       new(mocks.MockEmailSender),
	}
	svc := service.NewQuotationService(deps.repo, deps.seqRepo, deps.settingsRepo, deps.renderer, deps.sender, nil)
	return svc, deps
}

func TestQuotationService_Create_ComputesTotalsAndValidity(t *testing.T) {
	svc, deps := newQuotationService()

	deps.settingsRepo.On("Get", mock.Anything).Return(testSettings(), nil)
	deps.seqRepo.On("NextQuotationNumber", mock.Anything).Return("QUO-2026-0001", nil)

	var stored *domain.Quotation
	deps.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Quotation")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Quotation) }).
		Return(nil)
	deps.repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.Quotation{}, nil)

	_, err := svc.Create(context.Background(), validQuotationInput(), uuid.New())

	assert.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Equal(t, "QUO-2026-0001", stored.QuotationNumber)
	assert.Equal(t, domain.QuotationDraft, stored.Status)
	assert.True(t, stored.Subtotal.Equal(dec("5000")), "subtotal %s", stored.Subtotal)
	assert.True(t, stored.GSTAmount.Equal(dec("900")))
	assert.True(t, stored.GrandTotal.Equal(dec("5900")))
	assert.Equal(t, 15, stored.ValidityDays)
	assert.Equal(t, stored.QuotationDate.AddDate(0, 0, 15), stored.ValidUntil)
	assert.Len(t, stored.Items, 2)
	assert.Equal(t, 1, stored.Items[1].SortOrder)

	deps.repo.AssertExpectations(t)
	deps.seqRepo.AssertExpectations(t)
}

func TestQuotationService_Create_CollectsEveryViolation(t *testing.T) {
	svc, deps := newQuotationService()

	deps.settingsRepo.On("Get", mock.Anything).Return(testSettings(), nil)

	input := service.QuotationInput{
		Client: service.ClientInput{
			ClientName:  "  ",
			ClientEmail: "not-an-address",
		},
		Items: []service.LineItemInput{
			{ServiceName: "", Quantity: 0, Rate: dec("-5")},
		},
	}

	_, err := svc.Create(context.Background(), input, uuid.New())

	ve, ok := domain.AsValidationError(err)
	assert.True(t, ok, "expected validation error, got %v", err)

	fields := make(map[string]bool)
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["client_name"])
	assert.True(t, fields["client_email"])
	assert.True(t, fields["items[0].service_name"])
	assert.True(t, fields["items[0].quantity"])
	assert.True(t, fields["items[0].rate"])

	// Nothing is persisted and no number is consumed on validation failure.
	deps.seqRepo.AssertNotCalled(t, "NextQuotationNumber", mock.Anything)
	deps.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestQuotationService_Create_NumberGenerationFailureAborts(t *testing.T) {
	svc, deps := newQuotationService()

	deps.settingsRepo.On("Get", mock.Anything).Return(testSettings(), nil)
	deps.seqRepo.On("NextQuotationNumber", mock.Anything).Return("", domain.ErrNumberGeneration)

	_, err := svc.Create(context.Background(), validQuotationInput(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNumberGeneration)
	deps.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestQuotationService_Create_FallsBackToDefaultSettings(t *testing.T) {
	svc, deps := newQuotationService()

	deps.settingsRepo.On("Get", mock.Anything).Return(nil, domain.ErrSettingsNotConfigured)
	deps.seqRepo.On("NextQuotationNumber", mock.Anything).Return("QUO-2026-0002", nil)

	var stored *domain.Quotation
	deps.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Quotation")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Quotation) }).
		Return(nil)
	deps.repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.Quotation{}, nil)

	_, err := svc.Create(context.Background(), validQuotationInput(), uuid.New())

	assert.NoError(t, err)
	// Shipped defaults apply: 18% GST and 15 day validity.
	assert.True(t, stored.GSTAmount.Equal(dec("900")))
	assert.Equal(t, 15, stored.ValidityDays)
}

func TestQuotationService_ChangeStatus_RejectsInvalidTransition(t *testing.T) {
	svc, deps := newQuotationService()

	id := uuid.New()
	deps.repo.On("GetByID", mock.Anything, id).
		Return(&domain.Quotation{ID: id, Status: domain.QuotationAccepted}, nil)

	_, err := svc.ChangeStatus(context.Background(), id, domain.QuotationSent)

	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	deps.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestQuotationService_ChangeStatus_StampsSentAt(t *testing.T) {
	svc, deps := newQuotationService()

	id := uuid.New()
	deps.repo.On("GetByID", mock.Anything, id).
		Return(&domain.Quotation{ID: id, Status: domain.QuotationDraft}, nil)

	var sentAt *time.Time
	deps.repo.On("UpdateStatus", mock.Anything, id, domain.QuotationSent, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sentAt, _ = args.Get(3).(*time.Time) }).
		Return(nil)

	_, err := svc.ChangeStatus(context.Background(), id, domain.QuotationSent)

	assert.NoError(t, err)
	assert.NotNil(t, sentAt)
	deps.repo.AssertExpectations(t)
}

func TestQuotationService_Update_RejectsConverted(t *testing.T) {
	svc, deps := newQuotationService()

	id := uuid.New()
	deps.repo.On("GetByID", mock.Anything, id).
		Return(&domain.Quotation{ID: id, Status: domain.QuotationAccepted, ConvertedToInvoice: true}, nil)

	_, err := svc.Update(context.Background(), id, validQuotationInput(), nil)

	assert.ErrorIs(t, err, domain.ErrQuotationConverted)
}

func TestQuotationService_Update_PropagatesConflict(t *testing.T) {
	svc, deps := newQuotationService()

	id := uuid.New()
	deps.settingsRepo.On("Get", mock.Anything).Return(testSettings(), nil)
	deps.repo.On("GetByID", mock.Anything, id).
		Return(&domain.Quotation{ID: id, Status: domain.QuotationDraft}, nil)

	expected := time.Now().Add(-time.Minute)
	deps.repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Quotation"), true, &expected).
		Return(domain.ErrConflict)

	_, err := svc.Update(context.Background(), id, validQuotationInput(), &expected)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestQuotationService_Update_EmptyItemsKeepsStoredItems(t *testing.T) {
	svc, deps := newQuotationService()

	id := uuid.New()
	stored := &domain.Quotation{ID: id, Status: domain.QuotationDraft}
	stored.ClientName = "Asha Traders"
	stored.Items = []domain.LineItem{
		{ServiceName: "Logo Design", Quantity: 2, Rate: dec("2500"), Amount: dec("5000"), SortOrder: 0},
	}
	deps.settingsRepo.On("Get", mock.Anything).Return(testSettings(), nil)
	deps.repo.On("GetByID", mock.Anything, id).Return(stored, nil)

	var saved *domain.Quotation
	deps.repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Quotation"), false, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Quotation) }).
		Return(nil)

	input := validQuotationInput()
	input.Items = nil

	_, err := svc.Update(context.Background(), id, input, nil)

	assert.NoError(t, err)
	assert.Len(t, saved.Items, 1)
	assert.Equal(t, "Logo Design", saved.Items[0].ServiceName)
	assert.True(t, saved.Subtotal.Equal(dec("5000")))
	deps.repo.AssertExpectations(t)
}

func TestQuotationService_Update_OmittedDateKeepsStoredDate(t *testing.T) {
	svc, deps := newQuotationService()

	id := uuid.New()
	stored := &domain.Quotation{ID: id, Status: domain.QuotationDraft}
	stored.QuotationDate = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	deps.settingsRepo.On("Get", mock.Anything).Return(testSettings(), nil)
	deps.repo.On("GetByID", mock.Anything, id).Return(stored, nil)

	var saved *domain.Quotation
	deps.repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Quotation"), true, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Quotation) }).
		Return(nil)

	input := validQuotationInput()

	_, err := svc.Update(context.Background(), id, input, nil)

	assert.NoError(t, err)
	assert.True(t, saved.QuotationDate.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))
	// Validity still derives from the kept date, not from today.
	assert.True(t, saved.ValidUntil.Equal(time.Date(2026, 8, 16, 0, 0, 0, 0, time.UTC)))
}

func TestQuotationService_Send_RequiresClientEmail(t *testing.T) {
	svc, deps := newQuotationService()

	id := uuid.New()
	deps.repo.On("GetByID", mock.Anything, id).
		Return(&domain.Quotation{ID: id, Status: domain.QuotationDraft}, nil)

	_, err := svc.Send(context.Background(), id)

	_, ok := domain.AsValidationError(err)
	assert.True(t, ok)
	deps.sender.AssertNotCalled(t, "SendDocument", mock.Anything, mock.Anything)
}

func TestQuotationService_Send_MovesDraftToSent(t *testing.T) {
	svc, deps := newQuotationService()

	id := uuid.New()
	q := &domain.Quotation{
		ID:              id,
		QuotationNumber: "QUO-2026-0007",
		Status:          domain.QuotationDraft,
		ValidUntil:      time.Now().AddDate(0, 0, 15),
	}
	q.ClientName = "Asha Traders"
	q.ClientEmail = "asha@example.com"
	q.GrandTotal = dec("5900")

	deps.repo.On("GetByID", mock.Anything, id).Return(q, nil)
	deps.settingsRepo.On("Get", mock.Anything).Return(testSettings(), nil)
	deps.renderer.On("RenderQuotation", q, mock.Anything).Return([]byte("%PDF-1.4"), nil)
	deps.sender.On("SendDocument", mock.Anything, mock.AnythingOfType("port.DocumentEmail")).Return(nil)
	deps.repo.On("UpdateStatus", mock.Anything, id, domain.QuotationSent, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Send(context.Background(), id)

	assert.NoError(t, err)
	deps.sender.AssertExpectations(t)
	deps.repo.AssertExpectations(t)
}

func TestQuotationService_Send_EmailsArchiveDownloadLink(t *testing.T) {
	repo := new(mocks.MockQuotationRepo)
	settingsRepo := new(mocks.MockSettingsRepo)
	renderer := new(mocks.MockDocumentRenderer)
	sender := new(mocks.MockEmailSender)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewQuotationService(repo, new(mocks.MockSequenceRepo), settingsRepo, renderer, sender,
		service.NewDocumentArchiver(storage, "urbill-documents", "documents"))

	id := uuid.New()
	q := &domain.Quotation{
		ID:              id,
		QuotationNumber: "QUO-2026-0007",
		Status:          domain.QuotationSent,
		ValidUntil:      time.Now().AddDate(0, 0, 15),
	}
	q.ClientEmail = "asha@example.com"
	q.GrandTotal = dec("5900")

	repo.On("GetByID", mock.Anything, id).Return(q, nil)
	settingsRepo.On("Get", mock.Anything).Return(testSettings(), nil)
	renderer.On("RenderQuotation", q, mock.Anything).Return([]byte("%PDF-1.4"), nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "urbill-documents" && in.Key == "documents/quotation/QUO-2026-0007.pdf"
	})).Return(&port.UploadOutput{}, nil)
	storage.On("GetPresignedURL", mock.Anything, "urbill-documents", "documents/quotation/QUO-2026-0007.pdf", mock.AnythingOfType("int64")).
		Return("https://s3.example.com/signed/QUO-2026-0007.pdf", nil)

	var sent port.DocumentEmail
	sender.On("SendDocument", mock.Anything, mock.AnythingOfType("port.DocumentEmail")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(port.DocumentEmail) }).
		Return(nil)

	_, err := svc.Send(context.Background(), id)

	assert.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/signed/QUO-2026-0007.pdf", sent.DownloadURL)
	storage.AssertExpectations(t)
	sender.AssertExpectations(t)
}
