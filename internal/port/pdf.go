package port

import "urbill/internal/domain"

// DocumentRenderer produces the printable PDF for a billing document. Renderers
// reproduce the stored pricing block verbatim; they never recompute totals.
type DocumentRenderer interface {
	RenderQuotation(q *domain.Quotation, s *domain.BusinessSettings) ([]byte, error)
	RenderInvoice(inv *domain.Invoice, s *domain.BusinessSettings) ([]byte, error)
}
