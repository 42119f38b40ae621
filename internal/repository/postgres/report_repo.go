package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"urbill/internal/domain"
	"urbill/internal/port"
)

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

type registerRow struct {
	DocType        string          `db:"doc_type"`
	DocumentNumber string          `db:"document_number"`
	DocumentDate   time.Time       `db:"document_date"`
	ClientName     string          `db:"client_name"`
	BusinessName   string          `db:"client_business_name"`
	Status         string          `db:"status"`
	Subtotal       decimal.Decimal `db:"subtotal"`
	DiscountAmount decimal.Decimal `db:"discount_amount"`
	TaxAmount      decimal.Decimal `db:"gst_amount"`
	GrandTotal     decimal.Decimal `db:"grand_total"`
	AmountPaid     decimal.Decimal `db:"amount_paid"`
	BalanceDue     decimal.Decimal `db:"balance_due"`
}

const billingRegisterQuery = `SELECT * FROM (
	SELECT 'quotation' AS doc_type, quotation_number AS document_number,
		quotation_date AS document_date, client_name, client_business_name,
		status::text AS status, subtotal, discount_amount, gst_amount, grand_total,
		0::numeric AS amount_paid, 0::numeric AS balance_due
	FROM quotations
	UNION ALL
	SELECT 'invoice' AS doc_type, invoice_number AS document_number,
		invoice_date AS document_date, client_name, client_business_name,
		status::text AS status, subtotal, discount_amount, gst_amount, grand_total,
		amount_paid, balance_due
	FROM invoices
) register
WHERE ($1::timestamptz IS NULL OR document_date >= $1)
  AND ($2::timestamptz IS NULL OR document_date < $2)
ORDER BY document_date DESC, document_number DESC`

func (r *reportRepo) BillingRegister(ctx context.Context, from, to *time.Time) ([]port.RegisterRow, error) {
	var rows []registerRow
	if err := r.db.SelectContext(ctx, &rows, billingRegisterQuery, from, to); err != nil {
		return nil, fmt.Errorf("reportRepo.BillingRegister: %w", err)
	}

	out := make([]port.RegisterRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, port.RegisterRow{
			DocType:        domain.DocType(row.DocType),
			DocumentNumber: row.DocumentNumber,
			DocumentDate:   row.DocumentDate,
			ClientName:     row.ClientName,
			BusinessName:   row.BusinessName,
			Status:         row.Status,
			Subtotal:       row.Subtotal.StringFixed(2),
			DiscountAmount: row.DiscountAmount.StringFixed(2),
			TaxAmount:      row.TaxAmount.StringFixed(2),
			GrandTotal:     row.GrandTotal.StringFixed(2),
			AmountPaid:     row.AmountPaid.StringFixed(2),
			BalanceDue:     row.BalanceDue.StringFixed(2),
		})
	}
	return out, nil
}
