package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"invoicefin/internal/config"
	"invoicefin/internal/domain"
	"invoicefin/internal/envelope"
	"invoicefin/internal/logger"
	"invoicefin/internal/port"
)

// WebhookService delivers results to merchants and the end-of-day hub report.
type WebhookService interface {
	// Deliver posts a signed result to the merchant webhook endpoint and
	// records the outcome on the latest post processing row of requestID.
	Deliver(ctx context.Context, merchant *domain.Merchant, requestID string, payload envelope.Envelope) error
	// PostHubEOD reports the hub transactions of the last 24 hours. It
	// returns the number of transactions sent.
	PostHubEOD(ctx context.Context) (int, error)
}

type webhookService struct {
	sender   port.WebhookSender
	postRepo port.PostProcessingRepository
	hubCfg   config.HubConfig
	now      func() time.Time
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(sender port.WebhookSender, postRepo port.PostProcessingRepository, hubCfg config.HubConfig) WebhookService {
	return &webhookService{sender: sender, postRepo: postRepo, hubCfg: hubCfg, now: time.Now}
}

func (s *webhookService) Deliver(ctx context.Context, merchant *domain.Merchant, requestID string, payload envelope.Envelope) error {
	log := logger.WithComponent("webhook_service")

	if merchant.WebhookEndpoint == "" {
		log.Warn().Int64("merchant_id", merchant.ID).Str("request_id", requestID).Msg("merchant has no webhook endpoint")
		return s.postRepo.RecordWebhook(ctx, requestID, domain.WebhookStatusFailed,
			domain.JSONMap{"error": "webhook endpoint not configured"})
	}

	status, body, err := s.sender.Post(ctx, merchant.WebhookEndpoint, nil, payload)
	outcome := domain.WebhookStatusFailed
	response := domain.JSONMap{"status_code": status}
	switch {
	case err != nil:
		response["error"] = err.Error()
	case status == http.StatusOK:
		outcome = domain.WebhookStatusSent
		response["body"] = decodeBody(body)
	default:
		response["body"] = decodeBody(body)
	}

	log.Info().Str("request_id", requestID).Int("status_code", status).Str("outcome", outcome).Msg("webhook delivered")
	if err := s.postRepo.RecordWebhook(ctx, requestID, outcome, response); err != nil {
		return fmt.Errorf("recording webhook outcome: %w", err)
	}
	return nil
}

// decodeBody keeps a JSON response as structured data and anything else as text.
func decodeBody(body []byte) any {
	var v any
	if err := json.Unmarshal(body, &v); err == nil {
		return v
	}
	return string(body)
}

func (s *webhookService) PostHubEOD(ctx context.Context) (int, error) {
	log := logger.WithComponent("webhook_service")
	if !s.hubCfg.WebhookEnabled || s.hubCfg.StatusURL == "" {
		log.Debug().Msg("hub webhook disabled")
		return 0, nil
	}

	// The job runs at midnight IST, so the window is the day that just ended.
	since := s.now().Add(-24 * time.Hour)
	txns, err := s.postRepo.HubTransactionsSince(ctx, since)
	if err != nil {
		return 0, err
	}
	if len(txns) == 0 {
		log.Info().Msg("no hub transactions today")
		return 0, nil
	}

	headers := map[string]string{
		"Authorization": "apikey",
		"apikey":        s.hubCfg.APIKey,
	}
	status, _, err := s.sender.Post(ctx, s.hubCfg.StatusURL, headers, map[string]any{"payload": txns})
	if err != nil {
		return 0, fmt.Errorf("posting hub report: %w", err)
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("hub report rejected with status %d", status)
	}

	log.Info().Int("transactions", len(txns)).Msg("hub report sent")
	return len(txns), nil
}
