package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"urbill/internal/domain"
)

func TestQuotationStatusTransitions(t *testing.T) {
	assert.True(t, domain.QuotationDraft.CanTransitionTo(domain.QuotationSent))
	assert.True(t, domain.QuotationDraft.CanTransitionTo(domain.QuotationAccepted))
	assert.True(t, domain.QuotationSent.CanTransitionTo(domain.QuotationExpired))

	// Draft cannot expire; only sent quotations age out.
	assert.False(t, domain.QuotationDraft.CanTransitionTo(domain.QuotationExpired))

	// Terminal states allow nothing.
	for _, terminal := range []domain.QuotationStatus{domain.QuotationAccepted, domain.QuotationRejected, domain.QuotationExpired} {
		for _, target := range []domain.QuotationStatus{domain.QuotationDraft, domain.QuotationSent, domain.QuotationAccepted, domain.QuotationRejected, domain.QuotationExpired} {
			assert.False(t, terminal.CanTransitionTo(target), "%s -> %s", terminal, target)
		}
	}
}

func TestInvoiceStatusTransitions(t *testing.T) {
	assert.True(t, domain.InvoiceDraft.CanTransitionTo(domain.InvoiceSent))
	assert.True(t, domain.InvoiceSent.CanTransitionTo(domain.InvoicePaid))
	assert.True(t, domain.InvoicePending.CanTransitionTo(domain.InvoiceOverdue))
	// The overdue sweep moves both sent and pending invoices past their due date.
	assert.True(t, domain.InvoiceSent.CanTransitionTo(domain.InvoiceOverdue))
	assert.True(t, domain.InvoiceOverdue.CanTransitionTo(domain.InvoicePaid))
	assert.True(t, domain.InvoiceOverdue.CanTransitionTo(domain.InvoiceCancelled))

	assert.False(t, domain.InvoiceDraft.CanTransitionTo(domain.InvoicePaid))
	assert.False(t, domain.InvoicePaid.CanTransitionTo(domain.InvoiceCancelled))
	assert.False(t, domain.InvoiceCancelled.CanTransitionTo(domain.InvoiceDraft))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, domain.QuotationStatus("draft").Valid())
	assert.False(t, domain.QuotationStatus("archived").Valid())
	assert.True(t, domain.InvoiceStatus("overdue").Valid())
	assert.False(t, domain.InvoiceStatus("void").Valid())
	assert.True(t, domain.DiscountType("fixed").Valid())
	assert.False(t, domain.DiscountType("absolute").Valid())
}
