package cygnet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"invoicefin/internal/config"
	"invoicefin/internal/domain"
	"invoicefin/internal/port"
)

const (
	defaultBaseURL = "https://gsp.cygnetgsp.in"
	ewbDetailsPath = "/ewaybillapi/v1.03/ewayapi/getewaybill"
)

// Client implements port.CygnetClient.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a Cygnet client from provider config.
func NewClient(cfg *config.GSPProviderConfig) *Client {
	return newClient(cfg, "")
}

// NewClientWithEndpoint creates a client pointing at a custom base URL (for testing).
func NewClientWithEndpoint(cfg *config.GSPProviderConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.GSPProviderConfig, endpoint string) *Client {
	timeout := cfg.Timeout()
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	if endpoint == "" {
		endpoint = cfg.BaseURL
	}
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/") + ewbDetailsPath,
		client:   &http.Client{Timeout: timeout},
	}
}

var _ port.CygnetClient = (*Client)(nil)

// EWBDetails fetches one e-way-bill. The provider wraps the document as a JSON
// encoded string under "data"; an object is accepted too.
func (c *Client) EWBDetails(ctx context.Context, in port.CygnetEWBRequest) (*domain.EWBDocument, error) {
	reqBody := map[string]interface{}{
		"data": map[string]string{
			"ewbNo":     in.EWBNo,
			"gstin":     in.GSTIN,
			"authtoken": in.AuthToken,
			"sek":       in.SEK,
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling cygnet API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: cygnet API status %d: %s",
			domain.ErrProviderResponse, resp.StatusCode, string(respBody))
	}
	return parseResponse(respBody)
}

func parseResponse(body []byte) (*domain.EWBDocument, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrProviderResponse, err)
	}
	raw := bytes.TrimSpace(envelope.Data)
	if len(raw) == 0 || string(raw) == "null" || string(raw) == `""` {
		return nil, fmt.Errorf("%w: response without data", domain.ErrProviderResponse)
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: decoding data: %v", domain.ErrProviderResponse, err)
		}
		raw = []byte(inner)
	}

	var doc domain.EWBDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding e-way-bill: %v", domain.ErrProviderResponse, err)
	}
	return &doc, nil
}
