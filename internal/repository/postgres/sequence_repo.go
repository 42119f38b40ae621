package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"urbill/internal/domain"
	"urbill/internal/port"
)

type sequenceRepo struct {
	db *sqlx.DB
}

// NewSequenceRepo creates a new PostgreSQL-backed SequenceRepository.
// Numbers are reserved with a single INSERT ... ON CONFLICT ... RETURNING, so
// uniqueness is enforced by the database even under concurrent callers.
func NewSequenceRepo(db *sqlx.DB) port.SequenceRepository {
	return &sequenceRepo{db: db}
}

const nextSequenceValue = `INSERT INTO document_sequences (doc_type, year, last_value)
	VALUES ($1, $2, 1)
	ON CONFLICT (doc_type, year)
	DO UPDATE SET last_value = document_sequences.last_value + 1
	RETURNING last_value`

func (r *sequenceRepo) NextQuotationNumber(ctx context.Context) (string, error) {
	return r.next(ctx, domain.DocTypeQuotation, "QUO")
}

func (r *sequenceRepo) NextInvoiceNumber(ctx context.Context) (string, error) {
	return r.next(ctx, domain.DocTypeInvoice, "INV")
}

func (r *sequenceRepo) next(ctx context.Context, docType domain.DocType, prefix string) (string, error) {
	year := time.Now().UTC().Year()
	var value int64
	if err := r.db.GetContext(ctx, &value, nextSequenceValue, docType, year); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrNumberGeneration, err)
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, value), nil
}
