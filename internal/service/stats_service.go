package service

import (
	"context"

	"urbill/internal/domain"
	"urbill/internal/port"
)

// StatsService provides the dashboard counters.
type StatsService interface {
	GetBillingStats(ctx context.Context) (*domain.BillingStats, error)
}

type statsService struct {
	repo port.StatsRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(repo port.StatsRepository) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) GetBillingStats(ctx context.Context) (*domain.BillingStats, error) {
	return s.repo.GetBillingStats(ctx)
}
