package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"urbill/internal/domain"
	"urbill/internal/port"
)

// SettingsService manages the business settings singleton.
type SettingsService interface {
	Get(ctx context.Context) (*domain.BusinessSettings, error)
	Update(ctx context.Context, input domain.BusinessSettings) (*domain.BusinessSettings, error)
}

type settingsService struct {
	repo port.SettingsRepository
}

// NewSettingsService creates a new SettingsService implementation.
func NewSettingsService(repo port.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

// Get returns the configured settings, or the shipped defaults when the row
// has not been saved yet so the settings form always has something to show.
func (s *settingsService) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	return settingsOrDefaults(ctx, s.repo)
}

func (s *settingsService) Update(ctx context.Context, input domain.BusinessSettings) (*domain.BusinessSettings, error) {
	ve := &domain.ValidationError{}

	input.CompanyName = strings.TrimSpace(input.CompanyName)
	if input.CompanyName == "" {
		ve.Add("company_name", "company name is required")
	} else if len(input.CompanyName) > maxNameLen {
		ve.Add("company_name", fmt.Sprintf("company name must be at most %d characters", maxNameLen))
	}
	if input.CompanyEmail != "" {
		if _, err := mail.ParseAddress(input.CompanyEmail); err != nil {
			ve.Add("company_email", "company email is not a valid address")
		}
	}
	if input.Currency == "" {
		ve.Add("currency", "currency symbol is required")
	}
	if input.CurrencyCode == "" {
		ve.Add("currency_code", "currency code is required")
	}
	validateTaxRate(ve, input.GSTPercentage)
	if input.DefaultValidityDays <= 0 {
		ve.Add("default_validity_days", "default validity days must be a positive integer")
	}

	if ve.HasErrors() {
		return nil, ve
	}

	if err := s.repo.Upsert(ctx, &input); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx)
}
