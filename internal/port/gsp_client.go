package port

import (
	"context"

	"invoicefin/internal/domain"
)

// VayanaClient is the Vayana e-way-bill verification API.
type VayanaClient interface {
	Authenticate(ctx context.Context, handle, password string) (*domain.GSPSession, error)
	VerifyEWB(ctx context.Context, session *domain.GSPSession, ewbNo string) (taskID string, err error)
	TaskStatus(ctx context.Context, session *domain.GSPSession, taskID string) (string, error)
	Download(ctx context.Context, session *domain.GSPSession, taskID string) ([]byte, error)
}

// CygnetEWBRequest identifies an e-way-bill lookup on Cygnet.
type CygnetEWBRequest struct {
	EWBNo     string
	GSTIN     string
	AuthToken string
	SEK       string
}

// CygnetClient is the Cygnet e-way-bill lookup API.
type CygnetClient interface {
	EWBDetails(ctx context.Context, req CygnetEWBRequest) (*domain.EWBDocument, error)
}

// WebhookSender posts JSON bodies to external endpoints.
type WebhookSender interface {
	Post(ctx context.Context, url string, headers map[string]string, body any) (status int, respBody []byte, err error)
}
