package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicefin/internal/domain"
	"invoicefin/internal/envelope"
	"invoicefin/internal/logger"
	"invoicefin/internal/service"
)

const (
	ContextKeyTraceID    = "trace_id"
	ContextKeyRequestID  = "request_id"
	ContextKeyMerchant   = "merchant"
	ContextKeyHub        = "hub"
	ContextKeyHubRequest = "hub_request"
	ContextKeyPayload    = "payload"
	ContextKeyRawBody    = "raw_body"
)

const (
	HeaderMerchantKey = "X-Merchant-Key"
	HeaderHubKey      = "X-Hub-Key"
)

// maxBodyBytes bounds every signed request body.
const maxBodyBytes = 10 << 20

// GetMerchant returns the authenticated merchant.
func GetMerchant(c *gin.Context) (*domain.Merchant, bool) {
	v, ok := c.Get(ContextKeyMerchant)
	if !ok {
		return nil, false
	}
	m, ok := v.(*domain.Merchant)
	return m, ok && m != nil
}

// GetHub returns the authenticated hub.
func GetHub(c *gin.Context) (*domain.Hub, bool) {
	v, ok := c.Get(ContextKeyHub)
	if !ok {
		return nil, false
	}
	h, ok := v.(*domain.Hub)
	return h, ok && h != nil
}

// GetHubRequest returns the decoded hub callback body.
func GetHubRequest(c *gin.Context) (*service.HubRequest, bool) {
	v, ok := c.Get(ContextKeyHubRequest)
	if !ok {
		return nil, false
	}
	r, ok := v.(*service.HubRequest)
	return r, ok && r != nil
}

// GetRawBody returns the request body as received.
func GetRawBody(c *gin.Context) []byte {
	v, _ := c.Get(ContextKeyRawBody)
	b, _ := v.([]byte)
	return b
}

// GetRequestID returns the caller's requestId from the signed body.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// StatusFor maps a result code to its HTTP status.
func StatusFor(code domain.Code) int {
	switch code {
	case domain.CodeOK, domain.CodeFinanced, domain.CodeLedgerNotFunded,
		domain.CodeRequestAccepted, domain.CodeFinancingAccepted, domain.CodeDisbursementAccepted,
		domain.CodeRepaymentAccepted, domain.CodeLedgerStatusAccepted:
		return http.StatusOK
	case domain.CodeSignatureMismatch, domain.CodeMerchantNotFound:
		return http.StatusUnauthorized
	case domain.CodeLedgerNotFound, domain.CodeInvoiceNotFound, domain.CodeGroupingNotFound:
		return http.StatusNotFound
	case domain.CodeDuplicateLedger, domain.CodeLedgerFunded, domain.CodeNothingToCancel,
		domain.CodeDuplicateRequestID, domain.CodeDuplicateHubRequestID:
		return http.StatusConflict
	case domain.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// AbortWithResult writes the signed envelope of err and stops the chain.
// An empty secret leaves the envelope unsigned.
func AbortWithResult(c *gin.Context, secret, requestID string, err error) {
	env, envErr := envelope.ForResult(requestID, domain.CodeOK, nil, err)
	if envErr == nil {
		env, envErr = env.Sign(secret)
	}
	if envErr != nil {
		log := logger.WithRequestID(c.GetString(ContextKeyTraceID))
		log.Error().Err(envErr).Msg("building error envelope failed")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	status := StatusFor(env.Code())
	if status >= 500 {
		log := logger.WithRequestID(c.GetString(ContextKeyTraceID))
		log.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
	}
	c.AbortWithStatusJSON(status, env)
}
