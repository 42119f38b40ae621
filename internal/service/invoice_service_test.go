package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"urbill/internal/domain"
	"urbill/internal/service"
	"urbill/mocks"
)

type invoiceDeps struct {
	repo          *mocks.MockInvoiceRepo
	quotationRepo *mocks.MockQuotationRepo
	seqRepo       *mocks.MockSequenceRepo
	settingsRepo  *mocks.MockSettingsRepo
	renderer      *mocks.MockDocumentRenderer
	sender        *mocks.MockEmailSender
}

func newInvoiceService() (service.InvoiceService, invoiceDeps) {
	deps := invoiceDeps{
		repo:          new(mocks.MockInvoiceRepo),
		quotationRepo: new(mocks.MockQuotationRepo),
		seqRepo:       new(mocks.MockSequenceRepo),
		settingsRepo:  new(mocks.MockSettingsRepo),
		renderer:      new(mocks.MockDocumentRenderer),
		sender:        new(mocks.MockEmailSender),
	}
	svc := service.NewInvoiceService(deps.repo, deps.quotationRepo, deps.seqRepo, deps.settingsRepo, deps.renderer, deps.sender, nil)
	return svc, deps
}

func pendingInvoice(id uuid.UUID, grand, paid string) *domain.Invoice {
	inv := &domain.Invoice{ID: id, Status: domain.InvoicePending}
	inv.GrandTotal = dec(grand)
	inv.AmountPaid = dec(paid)
	inv.BalanceDue = dec(grand).Sub(dec(paid))
	return inv
}

func TestInvoiceService_RecordPayment_Partial(t *testing.T) {
	svc, deps := newInvoiceService()

	id := uuid.New()
	deps.repo.On("GetByID", mock.Anything, id).Return(pendingInvoice(id, "5900", "0"), nil)

	var saved *domain.Invoice
	deps.repo.On("RecordPayment", mock.Anything, mock.AnythingOfType("*domain.Invoice")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Invoice) }).
		Return(nil)

	_, err := svc.RecordPayment(context.Background(), id, service.PaymentInput{Amount: dec("2000")})

	assert.NoError(t, err)
	assert.True(t, saved.AmountPaid.Equal(dec("2000")))
	assert.True(t, saved.BalanceDue.Equal(dec("3900")))
	assert.Equal(t, domain.InvoicePending, saved.Status)
	assert.Nil(t, saved.PaidAt)
}

func TestInvoiceService_RecordPayment_FullSettlesInvoice(t *testing.T) {
	svc, deps := newInvoiceService()

	id := uuid.New()
	deps.repo.On("GetByID", mock.Anything, id).Return(pendingInvoice(id, "5900", "2000"), nil)

	var saved *domain.Invoice
	deps.repo.On("RecordPayment", mock.Anything, mock.AnythingOfType("*domain.Invoice")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Invoice) }).
		Return(nil)

	_, err := svc.RecordPayment(context.Background(), id, service.PaymentInput{Amount: dec("3900")})

	assert.NoError(t, err)
	assert.True(t, saved.BalanceDue.IsZero())
	assert.Equal(t, domain.InvoicePaid, saved.Status)
	assert.NotNil(t, saved.PaidAt)
}

func TestInvoiceService_RecordPayment_OverpaymentClampsBalance(t *testing.T) {
	svc, deps := newInvoiceService()

	id := uuid.New()
	deps.repo.On("GetByID", mock.Anything, id).Return(pendingInvoice(id, "1000", "0"), nil)

	var saved *domain.Invoice
	deps.repo.On("RecordPayment", mock.Anything, mock.AnythingOfType("*domain.Invoice")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Invoice) }).
		Return(nil)

	_, err := svc.RecordPayment(context.Background(), id, service.PaymentInput{Amount: dec("1500")})

	assert.NoError(t, err)
	// Amount paid keeps the real figure; the balance never goes negative.
	assert.True(t, saved.AmountPaid.Equal(dec("1500")))
	assert.True(t, saved.BalanceDue.IsZero())
	assert.Equal(t, domain.InvoicePaid, saved.Status)
}

func TestInvoiceService_RecordPayment_RejectsNonPositive(t *testing.T) {
	svc, deps := newInvoiceService()

	_, err := svc.RecordPayment(context.Background(), uuid.New(), service.PaymentInput{Amount: dec("0")})
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentAmount)

	_, err = svc.RecordPayment(context.Background(), uuid.New(), service.PaymentInput{Amount: dec("-10")})
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentAmount)

	deps.repo.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything)
}

func TestInvoiceService_RecordPayment_RejectsDraftAndTerminal(t *testing.T) {
	svc, deps := newInvoiceService()

	for _, status := range []domain.InvoiceStatus{domain.InvoiceDraft, domain.InvoicePaid, domain.InvoiceCancelled} {
		id := uuid.New()
		inv := pendingInvoice(id, "1000", "0")
		inv.Status = status
		deps.repo.On("GetByID", mock.Anything, id).Return(inv, nil)

		_, err := svc.RecordPayment(context.Background(), id, service.PaymentInput{Amount: dec("100")})
		assert.ErrorIs(t, err, domain.ErrInvoiceNotPayable, "status %s", status)
	}
}

func TestInvoiceService_RecordPayment_MarksSentPending(t *testing.T) {
	svc, deps := newInvoiceService()

	id := uuid.New()
	inv := pendingInvoice(id, "5000", "0")
	inv.Status = domain.InvoiceSent
	deps.repo.On("GetByID", mock.Anything, id).Return(inv, nil)

	var saved *domain.Invoice
	deps.repo.On("RecordPayment", mock.Anything, mock.AnythingOfType("*domain.Invoice")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Invoice) }).
		Return(nil)

	_, err := svc.RecordPayment(context.Background(), id, service.PaymentInput{Amount: dec("1000")})

	assert.NoError(t, err)
	assert.Equal(t, domain.InvoicePending, saved.Status)
}

func acceptedQuotation(id uuid.UUID) *domain.Quotation {
	q := &domain.Quotation{
		ID:              id,
		QuotationNumber: "QUO-2026-0003",
		Status:          domain.QuotationAccepted,
		PaymentTerms:    "50% advance, balance on delivery",
		Items: []domain.LineItem{
			{ServiceName: "Website Development", Quantity: 1, Rate: dec("5000"), Amount: dec("5000")},
		},
	}
	q.ClientName = "Asha Traders"
	q.Subtotal = dec("5000")
	q.GSTPercentage = dec("18")
	q.GSTAmount = dec("900")
	q.GrandTotal = dec("5900")
	return q
}

func TestInvoiceService_CreateFromQuotation_CopiesPricingVerbatim(t *testing.T) {
	svc, deps := newInvoiceService()

	qid := uuid.New()
	q := acceptedQuotation(qid)
	deps.quotationRepo.On("GetByID", mock.Anything, qid).Return(q, nil)
	deps.settingsRepo.On("Get", mock.Anything).Return(testSettings(), nil)
	deps.seqRepo.On("NextInvoiceNumber", mock.Anything).Return("INV-2026-0001", nil)

	var created *domain.Invoice
	deps.repo.On("CreateFromQuotation", mock.Anything, mock.AnythingOfType("*domain.Invoice"), qid).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Invoice) }).
		Return(nil)
	deps.repo.On("GetByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.Invoice{}, nil)

	_, err := svc.CreateFromQuotation(context.Background(), qid, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, "INV-2026-0001", created.InvoiceNumber)
	assert.Equal(t, domain.InvoiceDraft, created.Status)
	assert.Equal(t, &qid, created.QuotationID)
	assert.Equal(t, "QUO-2026-0003", *created.QuotationNumber)
	assert.Equal(t, "Asha Traders", created.ClientName)
	// Pricing is carried over untouched, not recomputed.
	assert.True(t, created.GrandTotal.Equal(dec("5900")))
	assert.True(t, created.BalanceDue.Equal(dec("5900")))
	assert.True(t, created.AmountPaid.IsZero())
	assert.Len(t, created.Items, 1)
}

func TestInvoiceService_CreateFromQuotation_RequiresAccepted(t *testing.T) {
	svc, deps := newInvoiceService()

	qid := uuid.New()
	q := acceptedQuotation(qid)
	q.Status = domain.QuotationSent
	deps.quotationRepo.On("GetByID", mock.Anything, qid).Return(q, nil)

	_, err := svc.CreateFromQuotation(context.Background(), qid, uuid.New())

	assert.ErrorIs(t, err, domain.ErrQuotationNotAccepted)
	deps.seqRepo.AssertNotCalled(t, "NextInvoiceNumber", mock.Anything)
}

func TestInvoiceService_CreateFromQuotation_RejectsDoubleConversion(t *testing.T) {
	svc, deps := newInvoiceService()

	qid := uuid.New()
	q := acceptedQuotation(qid)
	q.ConvertedToInvoice = true
	deps.quotationRepo.On("GetByID", mock.Anything, qid).Return(q, nil)

	_, err := svc.CreateFromQuotation(context.Background(), qid, uuid.New())

	assert.ErrorIs(t, err, domain.ErrQuotationConverted)
	deps.repo.AssertNotCalled(t, "CreateFromQuotation", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Update_RederivesBalance(t *testing.T) {
	svc, deps := newInvoiceService()

	id := uuid.New()
	existing := pendingInvoice(id, "5900", "2000")
	existing.Status = domain.InvoiceSent
	deps.repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	deps.settingsRepo.On("Get", mock.Anything).Return(testSettings(), nil)

	var saved *domain.Invoice
	deps.repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Invoice"), true, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Invoice) }).
		Return(nil)

	input := service.InvoiceInput{
		Client: service.ClientInput{ClientName: "Asha Traders"},
		Items: []service.LineItemInput{
			{ServiceName: "Landing Page", Quantity: 1, Rate: dec("1000")},
		},
	}

	_, err := svc.Update(context.Background(), id, input, nil)

	assert.NoError(t, err)
	// New grand total is 1180 (18% GST); 2000 already paid, so nothing is due.
	assert.True(t, saved.GrandTotal.Equal(dec("1180")))
	assert.True(t, saved.BalanceDue.IsZero())
}

func TestInvoiceService_Update_OmittedDatesKeepStoredDates(t *testing.T) {
	svc, deps := newInvoiceService()

	id := uuid.New()
	existing := pendingInvoice(id, "1180", "0")
	existing.Status = domain.InvoiceDraft
	existing.InvoiceDate = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	existing.DueDate = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	deps.repo.On("GetByID", mock.Anything, id).Return(existing, nil)
	deps.settingsRepo.On("Get", mock.Anything).Return(testSettings(), nil)

	var saved *domain.Invoice
	deps.repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Invoice"), true, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Invoice) }).
		Return(nil)

	input := service.InvoiceInput{
		Client: service.ClientInput{ClientName: "Asha Traders"},
		Items: []service.LineItemInput{
			{ServiceName: "Landing Page", Quantity: 1, Rate: dec("1000")},
		},
	}

	_, err := svc.Update(context.Background(), id, input, nil)

	assert.NoError(t, err)
	assert.True(t, saved.InvoiceDate.Equal(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, saved.DueDate.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)))
}

func TestInvoiceService_ChangeStatus_RejectsPaidToCancelled(t *testing.T) {
	svc, deps := newInvoiceService()

	id := uuid.New()
	inv := pendingInvoice(id, "1000", "1000")
	inv.Status = domain.InvoicePaid
	deps.repo.On("GetByID", mock.Anything, id).Return(inv, nil)

	_, err := svc.ChangeStatus(context.Background(), id, domain.InvoiceCancelled)

	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
}
