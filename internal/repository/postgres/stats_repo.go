package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"urbill/internal/domain"
	"urbill/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const quotationStatsQuery = `SELECT
	COUNT(*) AS total_quotations,
	COUNT(CASE WHEN status = 'accepted' THEN 1 END) AS quotations_accepted,
	COUNT(CASE WHEN status IN ('draft', 'sent') THEN 1 END) AS quotations_pending
FROM quotations`

const invoiceStatsQuery = `SELECT
	COUNT(*) AS total_invoices,
	COUNT(CASE WHEN status = 'pending' THEN 1 END) AS invoices_pending,
	COUNT(CASE WHEN status = 'paid' THEN 1 END) AS invoices_paid,
	COUNT(CASE WHEN status = 'overdue' THEN 1 END) AS invoices_overdue,
	COALESCE(SUM(CASE WHEN status = 'paid' THEN grand_total END), 0) AS total_revenue,
	COALESCE(SUM(CASE WHEN status = 'pending' THEN balance_due END), 0) AS pending_amount
FROM invoices`

func (r *statsRepo) GetBillingStats(ctx context.Context) (*domain.BillingStats, error) {
	var stats domain.BillingStats
	if err := r.db.GetContext(ctx, &stats, quotationStatsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetBillingStats quotations: %w", err)
	}

	var inv domain.BillingStats
	if err := r.db.GetContext(ctx, &inv, invoiceStatsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.GetBillingStats invoices: %w", err)
	}
	stats.TotalInvoices = inv.TotalInvoices
	stats.InvoicesPending = inv.InvoicesPending
	stats.InvoicesPaid = inv.InvoicesPaid
	stats.InvoicesOverdue = inv.InvoicesOverdue
	stats.TotalRevenue = inv.TotalRevenue
	stats.PendingAmount = inv.PendingAmount

	return &stats, nil
}
