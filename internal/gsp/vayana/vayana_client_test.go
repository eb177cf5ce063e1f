package vayana_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicefin/internal/config"
	"invoicefin/internal/domain"
	"invoicefin/internal/gsp/vayana"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *vayana.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return vayana.NewClientWithEndpoint(&config.GSPProviderConfig{TimeoutSecs: 5}, srv.URL)
}

var session = &domain.GSPSession{Token: "tok-1", OrgID: "org-9"}

func TestAuthenticate_Success(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/gus/session/token", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ops@example.com", body["handle"])
		assert.Equal(t, "secret", body["password"])
		assert.Equal(t, "email", body["handleType"])

		_, _ = w.Write([]byte(`{"data":{"token":"abc","associatedOrgs":[{"organisation":{"id":4411}}]}}`))
	})

	s, err := c.Authenticate(context.Background(), "ops@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "abc", s.Token)
	assert.Equal(t, "4411", s.OrgID)
}

func TestAuthenticate_NoOrganisation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"token":"abc","associatedOrgs":[]}}`))
	})

	_, err := c.Authenticate(context.Background(), "h", "p")
	assert.ErrorIs(t, err, domain.ErrProviderResponse)
}

func TestAuthenticate_Non200IsFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad credentials"}`))
	})

	_, err := c.Authenticate(context.Background(), "h", "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderResponse)
	assert.Contains(t, err.Error(), "401")
}

func TestVerifyEWB_SendsSessionHeaders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enriched/ewb/v1.0/verify", r.URL.Path)
		assert.Equal(t, "org-9", r.Header.Get("X-FLYNN-N-ORG-ID"))
		assert.Equal(t, "tok-1", r.Header.Get("X-FLYNN-N-USER-TOKEN"))

		var body struct {
			Payload []map[string]string `json:"payload"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Payload, 1)
		assert.Equal(t, "331000123456", body.Payload[0]["ewbNumber"])

		_, _ = w.Write([]byte(`{"data":{"task-id":"task-77"}}`))
	})

	taskID, err := c.VerifyEWB(context.Background(), session, "331000123456")
	require.NoError(t, err)
	assert.Equal(t, "task-77", taskID)
}

func TestVerifyEWB_MissingTaskID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	})

	_, err := c.VerifyEWB(context.Background(), session, "1")
	assert.ErrorIs(t, err, domain.ErrProviderResponse)
}

func TestTaskStatus_LowerCases(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/basic/tasks/v1.0/status/task-77", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"status":"COMPLETED"}}`))
	})

	status, err := c.TaskStatus(context.Background(), session, "task-77")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusCompleted, status)
}

func TestDownload_ReturnsRawBytes(t *testing.T) {
	payload := []byte{'P', 'K', 3, 4, 0, 1}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/basic/tasks/v1.0/download/task-77", r.URL.Path)
		_, _ = w.Write(payload)
	})

	data, err := c.Download(context.Background(), session, "task-77")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownload_Non200IsFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Download(context.Background(), session, "task-77")
	assert.ErrorIs(t, err, domain.ErrProviderResponse)
}
