package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"urbill/internal/domain"
	"urbill/internal/port"
)

type adminUserRepo struct {
	db *sqlx.DB
}

// NewAdminUserRepo creates a new PostgreSQL-backed AdminUserRepository.
func NewAdminUserRepo(db *sqlx.DB) port.AdminUserRepository {
	return &adminUserRepo{db: db}
}

func (r *adminUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.AdminUser, error) {
	var u domain.AdminUser
	err := r.db.GetContext(ctx, &u, "SELECT * FROM admin_users WHERE id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("adminUserRepo.GetByID: %w", err)
	}
	return &u, nil
}

func (r *adminUserRepo) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	var u domain.AdminUser
	err := r.db.GetContext(ctx, &u, "SELECT * FROM admin_users WHERE email = $1", email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("adminUserRepo.GetByEmail: %w", err)
	}
	return &u, nil
}
