package service

import (
	"context"
	"fmt"
	"strconv"

	"invoicefin/internal/domain"
	"invoicefin/internal/logger"
	"invoicefin/internal/port"
	"invoicefin/internal/signature"
)

// AsyncRequest is a request accepted for background execution.
type AsyncRequest struct {
	Flag      domain.TaskFlag
	RequestID string
	Merchant  *domain.Merchant
	Body      []byte
	// Extra is merged into the stored request data, e.g. hub txnCode and correlationId.
	Extra domain.JSONMap
}

// AsyncService persists async requests and runs them on the worker pool.
type AsyncService interface {
	// Accept records the request and queues it, returning the acceptance code.
	Accept(ctx context.Context, req AsyncRequest) (domain.Code, error)
}

type asyncService struct {
	postRepo   port.PostProcessingRepository
	dispatcher *TaskDispatcher
	background Background
}

// NewAsyncService creates a new AsyncService.
func NewAsyncService(postRepo port.PostProcessingRepository, dispatcher *TaskDispatcher, background Background) AsyncService {
	return &asyncService{postRepo: postRepo, dispatcher: dispatcher, background: background}
}

func (s *asyncService) Accept(ctx context.Context, req AsyncRequest) (domain.Code, error) {
	requestData := domain.JSONMap{}
	if len(req.Body) > 0 {
		payload, err := signature.Decode(req.Body)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		requestData = domain.JSONMap(payload)
	}
	for k, v := range req.Extra {
		requestData[k] = v
	}

	record := &domain.PostProcessingRequest{
		RequestID:        req.RequestID,
		RequestExtraData: requestData,
		MerchantID:       strconv.FormatInt(req.Merchant.ID, 10),
		Type:             req.Flag,
		ExtraData:        domain.JSONMap{},
	}
	if err := s.postRepo.Create(ctx, record); err != nil {
		return 0, fmt.Errorf("recording async request: %w", err)
	}

	task := &Task{
		Flag:             req.Flag,
		RequestID:        req.RequestID,
		Merchant:         req.Merchant,
		Body:             req.Body,
		PostProcessingID: record.ID,
	}
	s.background.Go(string(req.Flag), func(ctx context.Context) error {
		return s.dispatcher.Dispatch(ctx, task)
	})

	log := logger.WithComponent("async_service")
	log.Info().Str("flag", string(req.Flag)).Str("request_id", req.RequestID).Int64("post_processing_id", record.ID).
		Msg("async request accepted")
	return req.Flag.AcceptanceCode(), nil
}
