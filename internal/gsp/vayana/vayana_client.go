package vayana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"invoicefin/internal/config"
	"invoicefin/internal/domain"
	"invoicefin/internal/port"
)

const (
	defaultBaseURL = "https://services.gsp.vayana.com"

	tokenPath    = "/gus/session/token"
	verifyPath   = "/enriched/ewb/v1.0/verify"
	statusPath   = "/basic/tasks/v1.0/status/"
	downloadPath = "/basic/tasks/v1.0/download/"

	tokenDurationMins = 360
)

// Client implements port.VayanaClient over the Vayana HTTP API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Vayana client from provider config.
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
		baseURL: strings.TrimRight(endpoint, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

var _ port.VayanaClient = (*Client)(nil)

type tokenResponse struct {
	Data struct {
		Token          string `json:"token"`
		AssociatedOrgs []struct {
			Organisation struct {
				ID domain.FlexString `json:"id"`
			} `json:"organisation"`
		} `json:"associatedOrgs"`
	} `json:"data"`
}

// Authenticate exchanges a user handle and password for a session token and
// the id of the first associated organisation.
func (c *Client) Authenticate(ctx context.Context, handle, password string) (*domain.GSPSession, error) {
	body := map[string]interface{}{
		"handle":              handle,
		"password":            password,
		"handleType":          "email",
		"tokenDurationInMins": tokenDurationMins,
	}
	respBody, err := c.do(ctx, http.MethodPost, tokenPath, nil, body)
	if err != nil {
		return nil, err
	}

	var resp tokenResponse
	if err := decode(respBody, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Token == "" || len(resp.Data.AssociatedOrgs) == 0 {
		return nil, fmt.Errorf("%w: token response without token or organisation", domain.ErrProviderResponse)
	}
	return &domain.GSPSession{
		Token: resp.Data.Token,
		OrgID: string(resp.Data.AssociatedOrgs[0].Organisation.ID),
	}, nil
}

// VerifyEWB queues a verification task for one e-way-bill and returns its task id.
func (c *Client) VerifyEWB(ctx context.Context, session *domain.GSPSession, ewbNo string) (string, error) {
	body := map[string]interface{}{
		"payload": []map[string]string{{"ewbNumber": ewbNo}},
		"meta":    map[string]string{"json": "Y"},
	}
	respBody, err := c.do(ctx, http.MethodPost, verifyPath, session, body)
	if err != nil {
		return "", err
	}

	var resp struct {
		Data struct {
			TaskID string `json:"task-id"`
		} `json:"data"`
	}
	if err := decode(respBody, &resp); err != nil {
		return "", err
	}
	if resp.Data.TaskID == "" {
		return "", fmt.Errorf("%w: verify response without task id", domain.ErrProviderResponse)
	}
	return resp.Data.TaskID, nil
}

// TaskStatus returns the lower-cased provider status of a task.
func (c *Client) TaskStatus(ctx context.Context, session *domain.GSPSession, taskID string) (string, error) {
	respBody, err := c.do(ctx, http.MethodGet, statusPath+url.PathEscape(taskID), session, nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := decode(respBody, &resp); err != nil {
		return "", err
	}
	return strings.ToLower(resp.Data.Status), nil
}

// Download returns the raw zip archive produced by a completed task.
func (c *Client) Download(ctx context.Context, session *domain.GSPSession, taskID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, downloadPath+url.PathEscape(taskID), session, nil)
}

func (c *Client) do(ctx context.Context, method, path string, session *domain.GSPSession, body interface{}) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.Header.Set("X-FLYNN-N-ORG-ID", session.OrgID)
		req.Header.Set("X-FLYNN-N-USER-TOKEN", session.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling vayana API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: vayana API status %d: %s",
			domain.ErrProviderResponse, resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func decode(body []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decoding response: %v", domain.ErrProviderResponse, err)
	}
	return nil
}
