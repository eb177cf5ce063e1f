package webhook_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicefin/internal/config"
	"invoicefin/internal/webhook"
)

func TestPost_SendsJSONAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "k-1", r.Header.Get("apikey"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "req-1", body["requestId"])

		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	s := webhook.NewSender(&config.WebhookConfig{Timeout: 5 * time.Second})
	status, resp, err := s.Post(context.Background(), srv.URL,
		map[string]string{"apikey": "k-1"}, map[string]string{"requestId": "req-1"})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, string(resp))
}

func TestPost_Non2xxIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("down"))
	}))
	defer srv.Close()

	s := webhook.NewSender(&config.WebhookConfig{})
	status, resp, err := s.Post(context.Background(), srv.URL, nil, map[string]int{"a": 1})

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "down", string(resp))
}

func TestPost_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := webhook.NewSender(&config.WebhookConfig{Timeout: 20 * time.Millisecond})
	_, _, err := s.Post(context.Background(), srv.URL, nil, map[string]int{})
	assert.Error(t, err)
}

func TestPost_InvalidURL(t *testing.T) {
	s := webhook.NewSender(&config.WebhookConfig{})
	_, _, err := s.Post(context.Background(), "://bad", nil, map[string]int{})
	assert.Error(t, err)
}
