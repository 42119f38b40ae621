package handler_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"urbill/internal/domain"
	"urbill/internal/handler"
	"urbill/internal/service"
	"urbill/mocks"
)

func invoiceRouter(svc *mocks.MockInvoiceService, userID uuid.UUID) *gin.Engine {
	h := handler.NewInvoiceHandler(svc)
	r := gin.New()
	g := r.Group("/api/v1", authAs(userID))
	g.POST("/invoices", h.Create)
	g.GET("/invoices/:id", h.Get)
	g.POST("/invoices/:id/payments", h.RecordPayment)
	g.POST("/quotations/:id/convert", h.CreateFromQuotation)
	g.GET("/invoices/:id/pdf", h.DownloadPDF)
	return r
}

func TestInvoiceHandler_RecordPayment_Success(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	id := uuid.New()
	paid := &domain.Invoice{
		ID:            id,
		InvoiceNumber: "INV-2026-0007",
		Status:        domain.InvoicePaid,
		AmountPaid:    decimal.RequireFromString("5900.00"),
		BalanceDue:    decimal.Zero,
	}
	svc.On("RecordPayment", mock.Anything, id, mock.MatchedBy(func(in service.PaymentInput) bool {
		return in.Amount.Equal(decimal.RequireFromString("5900"))
	})).Return(paid, nil)

	rec := doJSON(invoiceRouter(svc, uuid.New()), http.MethodPost, "/api/v1/invoices/"+id.String()+"/payments",
		map[string]string{"amount": "5900"}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	svc.AssertExpectations(t)
}

func TestInvoiceHandler_RecordPayment_NonPositiveAmount(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	id := uuid.New()
	svc.On("RecordPayment", mock.Anything, id, mock.Anything).Return(nil, domain.ErrInvalidPaymentAmount)

	rec := doJSON(invoiceRouter(svc, uuid.New()), http.MethodPost, "/api/v1/invoices/"+id.String()+"/payments",
		map[string]string{"amount": "0"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_PAYMENT_AMOUNT", env.Error.Code)
}

func TestInvoiceHandler_RecordPayment_NotPayable(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	id := uuid.New()
	svc.On("RecordPayment", mock.Anything, id, mock.Anything).Return(nil, domain.ErrInvoiceNotPayable)

	rec := doJSON(invoiceRouter(svc, uuid.New()), http.MethodPost, "/api/v1/invoices/"+id.String()+"/payments",
		map[string]string{"amount": "100"}, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "INVOICE_NOT_PAYABLE", env.Error.Code)
}

func TestInvoiceHandler_Convert_Success(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	userID := uuid.New()
	quotationID := uuid.New()
	inv := &domain.Invoice{ID: uuid.New(), InvoiceNumber: "INV-2026-0008", Status: domain.InvoiceDraft}
	svc.On("CreateFromQuotation", mock.Anything, quotationID, userID).Return(inv, nil)

	rec := doJSON(invoiceRouter(svc, userID), http.MethodPost, "/api/v1/quotations/"+quotationID.String()+"/convert", nil, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestInvoiceHandler_Convert_RequiresAcceptedQuotation(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	quotationID := uuid.New()
	svc.On("CreateFromQuotation", mock.Anything, quotationID, mock.Anything).Return(nil, domain.ErrQuotationNotAccepted)

	rec := doJSON(invoiceRouter(svc, uuid.New()), http.MethodPost, "/api/v1/quotations/"+quotationID.String()+"/convert", nil, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "QUOTATION_NOT_ACCEPTED", env.Error.Code)
}

func TestInvoiceHandler_DownloadPDF_SetsAttachmentHeaders(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	id := uuid.New()
	svc.On("RenderPDF", mock.Anything, id).Return([]byte("%PDF-1.4 fake"), "INV-2026-0007.pdf", nil)

	rec := doJSON(invoiceRouter(svc, uuid.New()), http.MethodGet, "/api/v1/invoices/"+id.String()+"/pdf", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="INV-2026-0007.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 fake", rec.Body.String())
}

func TestInvoiceHandler_DownloadPDF_SettingsNotConfigured(t *testing.T) {
	svc := new(mocks.MockInvoiceService)
	id := uuid.New()
	svc.On("RenderPDF", mock.Anything, id).Return(nil, "", domain.ErrSettingsNotConfigured)

	rec := doJSON(invoiceRouter(svc, uuid.New()), http.MethodGet, "/api/v1/invoices/"+id.String()+"/pdf", nil, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "SETTINGS_NOT_CONFIGURED", env.Error.Code)
}
