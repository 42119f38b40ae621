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

type quotationRepo struct {
	db *sqlx.DB
}

// NewQuotationRepo creates a new PostgreSQL-backed QuotationRepository.
func NewQuotationRepo(db *sqlx.DB) port.QuotationRepository {
	return &quotationRepo{db: db}
}

const quotationInsert = `INSERT INTO quotations (
	id, quotation_number, quotation_date, validity_days, valid_until,
	client_name, client_business_name, client_phone, client_email, client_address,
	subtotal, discount_type, discount_value, discount_amount, taxable_amount,
	gst_percentage, gst_amount, grand_total,
	payment_terms, notes, status, sent_at, accepted_at,
	converted_to_invoice, invoice_id, created_by, created_at, updated_at
) VALUES (
	:id, :quotation_number, :quotation_date, :validity_days, :valid_until,
	:client_name, :client_business_name, :client_phone, :client_email, :client_address,
	:subtotal, :discount_type, :discount_value, :discount_amount, :taxable_amount,
	:gst_percentage, :gst_amount, :grand_total,
	:payment_terms, :notes, :status, :sent_at, :accepted_at,
	:converted_to_invoice, :invoice_id, :created_by, :created_at, :updated_at
)`

const quotationUpdate = `UPDATE quotations SET
	quotation_date = :quotation_date, validity_days = :validity_days, valid_until = :valid_until,
	client_name = :client_name, client_business_name = :client_business_name,
	client_phone = :client_phone, client_email = :client_email, client_address = :client_address,
	subtotal = :subtotal, discount_type = :discount_type, discount_value = :discount_value,
	discount_amount = :discount_amount, taxable_amount = :taxable_amount,
	gst_percentage = :gst_percentage, gst_amount = :gst_amount, grand_total = :grand_total,
	payment_terms = :payment_terms, notes = :notes, status = :status,
	updated_at = :updated_at
WHERE id = :id`

const quotationItemInsert = `INSERT INTO quotation_items
	(id, quotation_id, service_name, description, quantity, rate, amount, sort_order)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

const quotationItemSelect = `SELECT id, quotation_id AS parent_id, service_name, description,
	quantity, rate, amount, sort_order
	FROM quotation_items WHERE quotation_id = $1 ORDER BY sort_order`

func (r *quotationRepo) Create(ctx context.Context, q *domain.Quotation) error {
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("quotationRepo.Create begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, quotationInsert, q); err != nil {
		return fmt.Errorf("quotationRepo.Create header: %w", err)
	}
	if err := insertQuotationItems(ctx, tx, q.ID, q.Items); err != nil {
		return fmt.Errorf("quotationRepo.Create items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("quotationRepo.Create commit: %w", err)
	}
	return nil
}

func (r *quotationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var q domain.Quotation
	err := r.db.GetContext(ctx, &q, "SELECT * FROM quotations WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("quotationRepo.GetByID: %w", err)
	}
	if err := r.db.SelectContext(ctx, &q.Items, quotationItemSelect, id); err != nil {
		return nil, fmt.Errorf("quotationRepo.GetByID items: %w", err)
	}
	return &q, nil
}

func (r *quotationRepo) List(ctx context.Context, filter port.QuotationFilter) ([]domain.Quotation, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where += fmt.Sprintf(" AND (client_name ILIKE $%d OR client_business_name ILIKE $%d OR quotation_number ILIKE $%d)", n, n, n)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM quotations "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("quotationRepo.List count: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf("SELECT * FROM quotations %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	var quotations []domain.Quotation
	if err := r.db.SelectContext(ctx, &quotations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("quotationRepo.List: %w", err)
	}

	for i := range quotations {
		if err := r.db.SelectContext(ctx, &quotations[i].Items, quotationItemSelect, quotations[i].ID); err != nil {
			return nil, 0, fmt.Errorf("quotationRepo.List items: %w", err)
		}
	}
	return quotations, total, nil
}

func (r *quotationRepo) Update(ctx context.Context, q *domain.Quotation, replaceItems bool, expectedUpdatedAt *time.Time) error {
	q.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("quotationRepo.Update begin: %w", err)
	}
	defer tx.Rollback()

	query := quotationUpdate
	if expectedUpdatedAt != nil {
		query += " AND updated_at = :expected_updated_at"
	}
	res, err := tx.NamedExecContext(ctx, query, struct {
		*domain.Quotation
		ExpectedUpdatedAt *time.Time `db:"expected_updated_at"`
	}{q, expectedUpdatedAt})
	if err != nil {
		return fmt.Errorf("quotationRepo.Update header: %w", err)
	}
	if err := ensureRowUpdated(ctx, tx, res, "quotations", q.ID, expectedUpdatedAt != nil); err != nil {
		return err
	}

	if replaceItems {
		if _, err := tx.ExecContext(ctx, "DELETE FROM quotation_items WHERE quotation_id = $1", q.ID); err != nil {
			return fmt.Errorf("quotationRepo.Update delete items: %w", err)
		}
		if err := insertQuotationItems(ctx, tx, q.ID, q.Items); err != nil {
			return fmt.Errorf("quotationRepo.Update items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("quotationRepo.Update commit: %w", err)
	}
	return nil
}

func (r *quotationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus, sentAt, acceptedAt *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE quotations SET status = $1,
			sent_at = COALESCE($2, sent_at),
			accepted_at = COALESCE($3, accepted_at),
			updated_at = $4
		 WHERE id = $5`,
		status, sentAt, acceptedAt, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("quotationRepo.UpdateStatus: %w", err)
	}
	return errIfNoRows(res, "quotationRepo.UpdateStatus")
}

func (r *quotationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	// Items cascade via FK.
	res, err := r.db.ExecContext(ctx, "DELETE FROM quotations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("quotationRepo.Delete: %w", err)
	}
	return errIfNoRows(res, "quotationRepo.Delete")
}

func (r *quotationRepo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE quotations SET status = $1, updated_at = $2
		 WHERE status = $3 AND valid_until < $4`,
		domain.QuotationExpired, now.UTC(), domain.QuotationSent, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("quotationRepo.MarkExpired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("quotationRepo.MarkExpired rows: %w", err)
	}
	return n, nil
}

func insertQuotationItems(ctx context.Context, tx *sqlx.Tx, quotationID uuid.UUID, items []domain.LineItem) error {
	for _, item := range items {
		id := item.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		if _, err := tx.ExecContext(ctx, quotationItemInsert,
			id, quotationID, item.ServiceName, item.Description,
			item.Quantity, item.Rate, item.Amount, item.SortOrder); err != nil {
			return err
		}
	}
	return nil
}

// ensureRowUpdated distinguishes a missing row from an optimistic-concurrency
// mismatch after an UPDATE affected zero rows.
func ensureRowUpdated(ctx context.Context, tx *sqlx.Tx, res sql.Result, table string, id uuid.UUID, guarded bool) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", table, err)
	}
	if n > 0 {
		return nil
	}
	if !guarded {
		return domain.ErrNotFound
	}
	var exists bool
	if err := tx.GetContext(ctx, &exists,
		fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)", table), id); err != nil {
		return fmt.Errorf("%s exists check: %w", table, err)
	}
	if exists {
		return domain.ErrConflict
	}
	return domain.ErrNotFound
}

func errIfNoRows(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
