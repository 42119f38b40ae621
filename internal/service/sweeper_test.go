package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"urbill/internal/service"
	"urbill/mocks"
)

func TestStatusSweeper_Sweep_TouchesBothDocumentTypes(t *testing.T) {
	quotationRepo := new(mocks.MockQuotationRepo)
	invoiceRepo := new(mocks.MockInvoiceRepo)
	sweeper := service.NewStatusSweeper(quotationRepo, invoiceRepo, time.Hour)

	quotationRepo.On("MarkExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(2), nil)
	invoiceRepo.On("MarkOverdue", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(1), nil)

	sweeper.Sweep(context.Background())

	quotationRepo.AssertExpectations(t)
	invoiceRepo.AssertExpectations(t)
}

func TestStatusSweeper_Sweep_QuotationFailureDoesNotSkipInvoices(t *testing.T) {
	quotationRepo := new(mocks.MockQuotationRepo)
	invoiceRepo := new(mocks.MockInvoiceRepo)
	sweeper := service.NewStatusSweeper(quotationRepo, invoiceRepo, time.Hour)

	quotationRepo.On("MarkExpired", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), errors.New("db down"))
	invoiceRepo.On("MarkOverdue", mock.Anything, mock.AnythingOfType("time.Time")).Return(int64(0), nil)

	sweeper.Sweep(context.Background())

	invoiceRepo.AssertExpectations(t)
}
