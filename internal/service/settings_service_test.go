package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"urbill/internal/domain"
	"urbill/internal/service"
	"urbill/mocks"
)

func TestSettingsService_Get_FallsBackToDefaults(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewSettingsService(repo)

	repo.On("Get", mock.Anything).Return(nil, domain.ErrSettingsNotConfigured)

	settings, err := svc.Get(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "INR", settings.CurrencyCode)
	assert.True(t, settings.GSTPercentage.Equal(dec("18")))
	assert.Equal(t, 15, settings.DefaultValidityDays)
}

func TestSettingsService_Update_Success(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewSettingsService(repo)

	input := *domain.DefaultBusinessSettings()
	input.CompanyName = "URDIGIX"
	input.CompanyEmail = "hello@urdigix.com"

	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.BusinessSettings")).Return(nil)
	repo.On("Get", mock.Anything).Return(&input, nil)

	_, err := svc.Update(context.Background(), input)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSettingsService_Update_CollectsViolations(t *testing.T) {
	repo := new(mocks.MockSettingsRepo)
	svc := service.NewSettingsService(repo)

	input := domain.BusinessSettings{
		CompanyName:         "",
		CompanyEmail:        "not-an-address",
		GSTPercentage:       dec("250"),
		DefaultValidityDays: 0,
	}

	_, err := svc.Update(context.Background(), input)

	ve, ok := domain.AsValidationError(err)
	assert.True(t, ok)

	fields := make(map[string]bool)
	for _, f := range ve.Fields {
		fields[f.Field] = true
	}
	assert.True(t, fields["company_name"])
	assert.True(t, fields["company_email"])
	assert.True(t, fields["gst_percentage"])
	assert.True(t, fields["default_validity_days"])

	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
