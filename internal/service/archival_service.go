package service

import (
	"context"
	"fmt"
	"time"

	"invoicefin/internal/config"
	"invoicefin/internal/domain"
	"invoicefin/internal/logger"
	"invoicefin/internal/port"
)

// ArchivalService moves aged invoices into the archived table set and back.
type ArchivalService interface {
	// Run archives one batch of invoices not updated within the configured
	// number of days. Per-invoice failures are collected in the report.
	Run(ctx context.Context) (*domain.ArchivalReport, error)
	// Restore moves an archived invoice back to the live table set and
	// returns its live id. A live ref is returned unchanged.
	Restore(ctx context.Context, ref domain.InvoiceRef) (int64, error)
}

type archivalService struct {
	repo port.ArchiveRepository
	cfg  config.ArchivalConfig
	now  func() time.Time
}

// NewArchivalService creates a new ArchivalService.
func NewArchivalService(repo port.ArchiveRepository, cfg config.ArchivalConfig) ArchivalService {
	if cfg.DaysToTransfer <= 0 {
		cfg.DaysToTransfer = 365
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	return &archivalService{repo: repo, cfg: cfg, now: time.Now}
}

func (s *archivalService) Run(ctx context.Context) (*domain.ArchivalReport, error) {
	log := logger.WithComponent("archival_service")

	cutoff := s.now().AddDate(0, 0, -s.cfg.DaysToTransfer)
	ids, err := s.repo.ListCandidates(ctx, cutoff, s.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("listing archival candidates: %w", err)
	}

	report := &domain.ArchivalReport{Scanned: len(ids)}
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		oldID, err := s.repo.Archive(ctx, id)
		if err != nil {
			log.Error().Err(err).Int64("invoice_id", id).Msg("archiving invoice failed")
			report.Failures = append(report.Failures, domain.ItemError{ID: id, Err: err})
			continue
		}
		log.Debug().Int64("invoice_id", id).Int64("old_invoice_id", oldID).Msg("invoice archived")
		report.Moved++
	}

	log.Info().Int("scanned", report.Scanned).Int("moved", report.Moved).Int("failed", len(report.Failures)).
		Time("cutoff", cutoff).Msg("archival batch complete")
	return report, nil
}

func (s *archivalService) Restore(ctx context.Context, ref domain.InvoiceRef) (int64, error) {
	if !ref.IsArchived() {
		return ref.ID, nil
	}
	id, err := s.repo.Restore(ctx, ref.ID)
	if err != nil {
		return 0, err
	}
	log := logger.WithComponent("archival_service")
	log.Info().Int64("old_invoice_id", ref.ID).Int64("invoice_id", id).Msg("invoice restored")
	return id, nil
}
