package service

import (
	"context"
	"log"
	"time"

	"urbill/internal/port"
)

// StatusSweeper periodically moves sent quotations past their validity window
// to expired and unpaid invoices past their due date to overdue. Both sweeps
// are idempotent, so overlapping deployments running the sweeper are safe.
type StatusSweeper struct {
	quotationRepo port.QuotationRepository
	invoiceRepo   port.InvoiceRepository
	interval      time.Duration
}

// NewStatusSweeper creates a sweeper ticking at the given interval.
func NewStatusSweeper(quotationRepo port.QuotationRepository, invoiceRepo port.InvoiceRepository, interval time.Duration) *StatusSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &StatusSweeper{
		quotationRepo: quotationRepo,
		invoiceRepo:   invoiceRepo,
		interval:      interval,
	}
}

// Run sweeps once immediately, then on every tick until ctx is cancelled.
func (s *StatusSweeper) Run(ctx context.Context) {
	log.Printf("status sweeper started (interval %s)", s.interval)

	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("status sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep performs a single pass over both document types.
func (s *StatusSweeper) Sweep(ctx context.Context) {
	now := time.Now()

	expired, err := s.quotationRepo.MarkExpired(ctx, now)
	if err != nil {
		log.Printf("status sweeper: marking quotations expired: %v", err)
	} else if expired > 0 {
		log.Printf("status sweeper: marked %d quotation(s) expired", expired)
	}

	overdue, err := s.invoiceRepo.MarkOverdue(ctx, now)
	if err != nil {
		log.Printf("status sweeper: marking invoices overdue: %v", err)
	} else if overdue > 0 {
		log.Printf("status sweeper: marked %d invoice(s) overdue", overdue)
	}
}
