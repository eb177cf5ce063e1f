package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"invoicefin/internal/logger"
	"invoicefin/internal/misreport"
	"invoicefin/internal/port"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportService prepares the MIS reports.
type ReportService interface {
	// PrepareMIS refreshes the ledger summary, renders it and uploads the
	// workbook. It returns the storage key written.
	PrepareMIS(ctx context.Context) (string, error)
	// MISLink returns a download URL for the workbook generated on day.
	MISLink(ctx context.Context, day time.Time, expiry time.Duration) (string, error)
}

type reportService struct {
	misRepo port.MISRepository
	storage port.ObjectStorage
	now     func() time.Time
}

func NewReportService(misRepo port.MISRepository, storage port.ObjectStorage) ReportService {
	return &reportService{misRepo: misRepo, storage: storage, now: time.Now}
}

func (s *reportService) PrepareMIS(ctx context.Context) (string, error) {
	if err := s.misRepo.Refresh(ctx); err != nil {
		return "", err
	}
	rows, err := s.misRepo.LedgerSummary(ctx)
	if err != nil {
		return "", err
	}

	data, err := misreport.Render(rows)
	if err != nil {
		return "", fmt.Errorf("rendering MIS report: %w", err)
	}

	key := misreport.ObjectKey(s.now())
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         key,
		Body:        bytes.NewReader(data),
		ContentType: xlsxContentType,
		Size:        int64(len(data)),
	}); err != nil {
		return "", fmt.Errorf("uploading MIS report: %w", err)
	}

	log := logger.WithComponent("report_service")
	log.Info().Str("key", key).Int("rows", len(rows)).Msg("MIS report uploaded")
	return key, nil
}

func (s *reportService) MISLink(ctx context.Context, day time.Time, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return s.storage.PresignGet(ctx, misreport.ObjectKey(day), expiry)
}
