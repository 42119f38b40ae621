package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"urbill/internal/config"
	"urbill/internal/email/noop"
	"urbill/internal/email/ses"
	"urbill/internal/handler"
	"urbill/internal/pdf"
	"urbill/internal/port"
	"urbill/internal/repository/postgres"
	"urbill/internal/router"
	"urbill/internal/service"
	s3storage "urbill/internal/storage/s3"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewAdminUserRepo(db)
	quotationRepo := postgres.NewQuotationRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	settingsRepo := postgres.NewSettingsRepo(db)
	seqRepo := postgres.NewSequenceRepo(db)
	statsRepo := postgres.NewStatsRepo(db)
	reportRepo := postgres.NewReportRepo(db)

	// Initialize email sender
	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noop.NewNoopSender()
	}

	// Initialize optional PDF archival
	var archiver *service.DocumentArchiver
	if cfg.Archive.Enabled() {
		s3Client, err := s3storage.NewS3Client(&cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		archiver = service.NewDocumentArchiver(s3Client, cfg.Archive.Bucket, cfg.Archive.Prefix)
	}

	renderer := pdf.NewRenderer()

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	quotationSvc := service.NewQuotationService(quotationRepo, seqRepo, settingsRepo, renderer, sender, archiver)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, quotationRepo, seqRepo, settingsRepo, renderer, sender, archiver)
	settingsSvc := service.NewSettingsService(settingsRepo)
	statsSvc := service.NewStatsService(statsRepo)
	reportSvc := service.NewReportService(reportRepo)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	quotationH := handler.NewQuotationHandler(quotationSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	statsH := handler.NewStatsHandler(statsSvc)
	reportH := handler.NewReportHandler(reportSvc)
	healthH := handler.NewHealthHandler(db, version)

	// Setup router
	r := router.Setup(cfg, authSvc, authH, quotationH, invoiceH, settingsH, statsH, reportH, healthH)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background status sweeper
	sweeper := service.NewStatusSweeper(quotationRepo, invoiceRepo, cfg.Sweep.Interval)
	go sweeper.Run(ctx)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
