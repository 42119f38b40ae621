package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"urbill/internal/domain"
	"urbill/internal/port"
)

// MockQuotationRepo is a mock implementation of port.QuotationRepository.
type MockQuotationRepo struct {
	mock.Mock
}

func (m *MockQuotationRepo) Create(ctx context.Context, q *domain.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quotation), args.Error(1)
}

func (m *MockQuotationRepo) List(ctx context.Context, filter port.QuotationFilter) ([]domain.Quotation, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Quotation), args.Int(1), args.Error(2)
}

func (m *MockQuotationRepo) Update(ctx context.Context, q *domain.Quotation, replaceItems bool, expectedUpdatedAt *time.Time) error {
	args := m.Called(ctx, q, replaceItems, expectedUpdatedAt)
	return args.Error(0)
}

func (m *MockQuotationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus, sentAt, acceptedAt *time.Time) error {
	args := m.Called(ctx, id, status, sentAt, acceptedAt)
	return args.Error(0)
}

func (m *MockQuotationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuotationRepo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
