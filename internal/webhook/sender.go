package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"invoicefin/internal/config"
	"invoicefin/internal/port"
)

// Response bodies larger than this are truncated before being stored.
const maxResponseBytes = 64 << 10

// Sender implements port.WebhookSender with a single POST per call.
type Sender struct {
	client *http.Client
}

// NewSender creates a webhook sender using the configured timeout.
func NewSender(cfg *config.WebhookConfig) *Sender {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Sender{client: &http.Client{Timeout: timeout}}
}

var _ port.WebhookSender = (*Sender)(nil)

// Post marshals body as JSON and posts it to url. A non-2xx status is not an
// error; callers decide how to record it.
func (s *Sender) Post(ctx context.Context, url string, headers map[string]string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshaling webhook body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("posting webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading webhook response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}
