package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"urbill/internal/domain"
	"urbill/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceInsert = `INSERT INTO invoices (
	id, invoice_number, invoice_date, due_date, quotation_id, quotation_number,
	client_name, client_business_name, client_phone, client_email, client_address,
	subtotal, discount_type, discount_value, discount_amount, taxable_amount,
	gst_percentage, gst_amount, grand_total, amount_paid, balance_due,
	payment_terms, notes, status, sent_at, paid_at, created_by, created_at, updated_at
) VALUES (
	:id, :invoice_number, :invoice_date, :due_date, :quotation_id, :quotation_number,
	:client_name, :client_business_name, :client_phone, :client_email, :client_address,
	:subtotal, :discount_type, :discount_value, :discount_amount, :taxable_amount,
	:gst_percentage, :gst_amount, :grand_total, :amount_paid, :balance_due,
	:payment_terms, :notes, :status, :sent_at, :paid_at, :created_by, :created_at, :updated_at
)`

const invoiceUpdate = `UPDATE invoices SET
	invoice_date = :invoice_date, due_date = :due_date,
	client_name = :client_name, client_business_name = :client_business_name,
	client_phone = :client_phone, client_email = :client_email, client_address = :client_address,
	subtotal = :subtotal, discount_type = :discount_type, discount_value = :discount_value,
	discount_amount = :discount_amount, taxable_amount = :taxable_amount,
	gst_percentage = :gst_percentage, gst_amount = :gst_amount, grand_total = :grand_total,
	amount_paid = :amount_paid, balance_due = :balance_due,
	payment_terms = :payment_terms, notes = :notes, status = :status,
	updated_at = :updated_at
WHERE id = :id`

const invoiceItemInsert = `INSERT INTO invoice_items
	(id, invoice_id, service_name, description, quantity, rate, amount, sort_order)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const invoiceItemSelect = `SELECT id, invoice_id AS parent_id, service_name, description,
	quantity, rate, amount, sort_order
	FROM invoice_items WHERE invoice_id = $1 ORDER BY sort_order`

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, invoiceInsert, inv); err != nil {
		return fmt.Errorf("invoiceRepo.Create header: %w", err)
	}
	if err := insertInvoiceItems(ctx, tx, inv.ID, inv.Items); err != nil {
		return fmt.Errorf("invoiceRepo.Create items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.Create commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	if err := r.db.SelectContext(ctx, &inv.Items, invoiceItemSelect, id); err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetByID items: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, filter port.InvoiceFilter) ([]domain.Invoice, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (client_name ILIKE $%d OR client_business_name ILIKE $%d OR invoice_number ILIKE $%d)", n, n, n)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("SELECT * FROM invoices %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	var invoices []domain.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}

	for i := range invoices {
		if err := r.db.SelectContext(ctx, &invoices[i].Items, invoiceItemSelect, invoices[i].ID); err != nil {
			return nil, 0, fmt.Errorf("invoiceRepo.List items: %w", err)
		}
	}
	return invoices, total, nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice, replaceItems bool, expectedUpdatedAt *time.Time) error {
	inv.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Update begin: %w", err)
	}
	defer tx.Rollback()

	query := invoiceUpdate
	if expectedUpdatedAt != nil {
		query += " AND updated_at = :expected_updated_at"
	}
	res, err := tx.NamedExecContext(ctx, query, struct {
		*domain.Invoice
		ExpectedUpdatedAt *time.Time `db:"expected_updated_at"`
	}{inv, expectedUpdatedAt})
	if err != nil {
		return fmt.Errorf("invoiceRepo.Update header: %w", err)
	}
	if err := ensureRowUpdated(ctx, tx, res, "invoices", inv.ID, expectedUpdatedAt != nil); err != nil {
		return err
	}

	if replaceItems {
		if _, err := tx.ExecContext(ctx, "DELETE FROM invoice_items WHERE invoice_id = $1", inv.ID); err != nil {
			return fmt.Errorf("invoiceRepo.Update delete items: %w", err)
		}
		if err := insertInvoiceItems(ctx, tx, inv.ID, inv.Items); err != nil {
			return fmt.Errorf("invoiceRepo.Update items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.Update commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus, sentAt, paidAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $1,
			sent_at = COALESCE($2, sent_at),
			paid_at = COALESCE($3, paid_at),
			updated_at = $4
		 WHERE id = $5`,
		status, sentAt, paidAt, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
	}
	return errIfNoRows(res, "invoiceRepo.UpdateStatus")
}

func (r *invoiceRepo) RecordPayment(ctx context.Context, inv *domain.Invoice) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET amount_paid = $1, balance_due = $2, status = $3,
			paid_at = COALESCE($4, paid_at), updated_at = $5
		 WHERE id = $6`,
		inv.AmountPaid, inv.BalanceDue, inv.Status, inv.PaidAt, time.Now().UTC(), inv.ID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.RecordPayment: %w", err)
	}
	return errIfNoRows(res, "invoiceRepo.RecordPayment")
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Items cascade via FK.
	res, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	return errIfNoRows(res, "invoiceRepo.Delete")
}

func (r *invoiceRepo) CreateFromQuotation(ctx context.Context, inv *domain.Invoice, quotationID uuid.UUID) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.CreateFromQuotation begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, invoiceInsert, inv); err != nil {
		return fmt.Errorf("invoiceRepo.CreateFromQuotation header: %w", err)
	}
	if err := insertInvoiceItems(ctx, tx, inv.ID, inv.Items); err != nil {
		return fmt.Errorf("invoiceRepo.CreateFromQuotation items: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE quotations SET converted_to_invoice = TRUE, invoice_id = $1, updated_at = $2
		 WHERE id = $3 AND converted_to_invoice = FALSE`,
		inv.ID, now, quotationID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.CreateFromQuotation stamp quotation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("invoiceRepo.CreateFromQuotation rows: %w", err)
	}
	if n == 0 {
		// Lost the race against a concurrent conversion.
		return domain.ErrQuotationConverted
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.CreateFromQuotation commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $1, updated_at = $2
		 WHERE status IN ($3, $4) AND due_date < $5 AND balance_due > 0`,
		domain.InvoiceOverdue, now.UTC(), domain.InvoiceSent, domain.InvoicePending, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.MarkOverdue: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.MarkOverdue rows: %w", err)
	}
	return n, nil
}

func insertInvoiceItems(ctx context.Context, tx *sqlx.Tx, invoiceID uuid.UUID, items []domain.LineItem) error {
	for _, item := range items {
		id := item.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.ExecContext(ctx, invoiceItemInsert,
			id, invoiceID, item.ServiceName, item.Description,
			item.Quantity, item.Rate, item.Amount, item.SortOrder); err != nil {
			return err
		}
	}
	return nil
}
