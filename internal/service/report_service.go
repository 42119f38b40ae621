package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"urbill/internal/csvexport"
	"urbill/internal/domain"
	"urbill/internal/port"
	"urbill/internal/xlsxexport"
)

// RegisterInput bounds the billing register export by document date. Both
// bounds are inclusive dates; either may be nil for an open range.
type RegisterInput struct {
	From *time.Time
	To   *time.Time
}

// ReportService streams billing register exports.
type ReportService interface {
	// WriteRegisterCSV writes the register as UTF-8 CSV with a BOM prefix.
	WriteRegisterCSV(ctx context.Context, w io.Writer, input RegisterInput) error
	// WriteRegisterXLSX writes the register as a single-sheet workbook.
	WriteRegisterXLSX(ctx context.Context, w io.Writer, input RegisterInput) error
}

type reportService struct {
	repo port.ReportRepository
}

// NewReportService creates a new ReportService implementation.
func NewReportService(repo port.ReportRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) WriteRegisterCSV(ctx context.Context, w io.Writer, input RegisterInput) error {
	rows, err := s.fetch(ctx, input)
	if err != nil {
		return err
	}

	if _, err := w.Write(csvexport.BOM); err != nil {
		return fmt.Errorf("reportService.WriteRegisterCSV: %w", err)
	}

	cw := csvexport.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return fmt.Errorf("reportService.WriteRegisterCSV: %w", err)
	}
	if err := cw.WriteRows(rows); err != nil {
		return fmt.Errorf("reportService.WriteRegisterCSV: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("reportService.WriteRegisterCSV: %w", err)
	}
	return nil
}

func (s *reportService) WriteRegisterXLSX(ctx context.Context, w io.Writer, input RegisterInput) error {
	rows, err := s.fetch(ctx, input)
	if err != nil {
		return err
	}
	if err := xlsxexport.Write(w, rows); err != nil {
		return fmt.Errorf("reportService.WriteRegisterXLSX: %w", err)
	}
	return nil
}

func (s *reportService) fetch(ctx context.Context, input RegisterInput) ([]port.RegisterRow, error) {
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		ve := &domain.ValidationError{}
		ve.Add("to", "range end cannot be before range start")
		return nil, ve
	}

	// To is a date at midnight while document dates carry full timestamps.
	// Advance it a day so the whole end day is included in the range.
	var toBound *time.Time
	if input.To != nil {
		t := input.To.AddDate(0, 0, 1)
		toBound = &t
	}
	return s.repo.BillingRegister(ctx, input.From, toBound)
}
