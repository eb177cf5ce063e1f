package service

import (
	"context"

	"invoicefin/internal/domain"
	"invoicefin/internal/logger"
	"invoicefin/internal/port"
)

// RequestLogService records signed requests and the responses sent for them.
type RequestLogService interface {
	// Begin records a request, failing with the repository's duplicate error
	// when the request id was seen before.
	Begin(ctx context.Context, entry *domain.RequestLog) error
	Complete(ctx context.Context, requestID string, response domain.JSONMap)
}

type requestLogService struct {
	repo port.RequestLogRepository
}

// NewRequestLogService creates a new RequestLogService.
func NewRequestLogService(repo port.RequestLogRepository) RequestLogService {
	return &requestLogService{repo: repo}
}

func (s *requestLogService) Begin(ctx context.Context, entry *domain.RequestLog) error {
	if entry.RequestID == "" {
		return domain.ErrInvalidRequest
	}
	return s.repo.Create(ctx, entry)
}

// Complete never fails the request it belongs to; storage errors are logged.
func (s *requestLogService) Complete(ctx context.Context, requestID string, response domain.JSONMap) {
	if err := s.repo.SetResponse(ctx, requestID, response); err != nil {
		log := logger.WithComponent("request_log_service")
		log.Error().Err(err).Str("request_id", requestID).Msg("storing response failed")
	}
}
