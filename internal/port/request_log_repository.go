package port

import (
	"context"
	"time"

	"invoicefin/internal/domain"
)

// RequestLogRepository records signed requests. Create returns the given
// duplicate error when the request id was seen before.
type RequestLogRepository interface {
	Create(ctx context.Context, entry *domain.RequestLog) error
	SetResponse(ctx context.Context, requestID string, response domain.JSONMap) error
}

// PostProcessingRepository records async requests and their webhook outcome.
type PostProcessingRepository interface {
	Create(ctx context.Context, req *domain.PostProcessingRequest) error
	SetAPIResponse(ctx context.Context, id int64, response domain.JSONMap) error
	// RecordWebhook updates the latest row carrying requestID.
	RecordWebhook(ctx context.Context, requestID, status string, response domain.JSONMap) error
	HubTransactionsSince(ctx context.Context, since time.Time) ([]domain.HubTransaction, error)
}

// MISRepository refreshes and reads the MIS summary view.
type MISRepository interface {
	Refresh(ctx context.Context) error
	LedgerSummary(ctx context.Context) ([]domain.MISLedgerRow, error)
}
