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

type settingsRepo struct {
	db *sqlx.DB
}

// NewSettingsRepo creates a new PostgreSQL-backed SettingsRepository.
func NewSettingsRepo(db *sqlx.DB) port.SettingsRepository {
	return &settingsRepo{db: db}
}

func (r *settingsRepo) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	var s domain.BusinessSettings
	err := r.db.GetContext(ctx, &s, "SELECT * FROM business_settings LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettingsNotConfigured
		}
		return nil, fmt.Errorf("settingsRepo.Get: %w", err)
	}
	return &s, nil
}

const settingsUpsert = `INSERT INTO business_settings (
	id, company_name, company_address, company_phone, company_email, company_website,
	currency, currency_code, gst_number, gst_percentage, enable_gst, enable_discount,
	default_payment_terms, default_validity_days,
	bank_name, bank_account_number, bank_ifsc, upi_id, updated_at
) VALUES (
	:id, :company_name, :company_address, :company_phone, :company_email, :company_website,
	:currency, :currency_code, :gst_number, :gst_percentage, :enable_gst, :enable_discount,
	:default_payment_terms, :default_validity_days,
	:bank_name, :bank_account_number, :bank_ifsc, :upi_id, :updated_at
) ON CONFLICT (id) DO UPDATE SET
	company_name = EXCLUDED.company_name,
	company_address = EXCLUDED.company_address,
	company_phone = EXCLUDED.company_phone,
	company_email = EXCLUDED.company_email,
	company_website = EXCLUDED.company_website,
	currency = EXCLUDED.currency,
	currency_code = EXCLUDED.currency_code,
	gst_number = EXCLUDED.gst_number,
	gst_percentage = EXCLUDED.gst_percentage,
	enable_gst = EXCLUDED.enable_gst,
	enable_discount = EXCLUDED.enable_discount,
	default_payment_terms = EXCLUDED.default_payment_terms,
	default_validity_days = EXCLUDED.default_validity_days,
	bank_name = EXCLUDED.bank_name,
	bank_account_number = EXCLUDED.bank_account_number,
	bank_ifsc = EXCLUDED.bank_ifsc,
	upi_id = EXCLUDED.upi_id,
	updated_at = EXCLUDED.updated_at`

func (r *settingsRepo) Upsert(ctx context.Context, s *domain.BusinessSettings) error {
	// Reuse the existing singleton row's id if the caller did not carry one.
	if s.ID == uuid.Nil {
		var existing uuid.UUID
		err := r.db.GetContext(ctx, &existing, "SELECT id FROM business_settings LIMIT 1")
		switch {
		case errors.Is(err, sql.ErrNoRows):
			s.ID = uuid.New()
		case err != nil:
			return fmt.Errorf("settingsRepo.Upsert lookup: %w", err)
		default:
			s.ID = existing
		}
	}
	s.UpdatedAt = time.Now().UTC()

	if _, err := r.db.NamedExecContext(ctx, settingsUpsert, s); err != nil {
		return fmt.Errorf("settingsRepo.Upsert: %w", err)
	}
	return nil
}
