package middleware

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"invoicefin/internal/domain"
	"invoicefin/internal/service"
	"invoicefin/internal/signature"
)

// readBody reads the request body and puts it back for later binding.
func readBody(c *gin.Context) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrInvalidRequest, err)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Set(ContextKeyRawBody, body)
	return body, nil
}

// MerchantSignature authenticates the merchant named by the X-Merchant-Key
// header against the signature carried in the JSON body.
func MerchantSignature(verifier service.SignatureService) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			AbortWithResult(c, "", "", err)
			return
		}
		payload, err := signature.Decode(body)
		if err != nil {
			AbortWithResult(c, "", "", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
			return
		}
		requestID, _ := payload["requestId"].(string)
		c.Set(ContextKeyRequestID, requestID)

		merchant, err := verifier.VerifyMerchant(c.Request.Context(), c.GetHeader(HeaderMerchantKey), payload)
		if err != nil {
			secret := ""
			if merchant != nil {
				secret = merchant.MerchantSecret
			}
			AbortWithResult(c, secret, requestID, err)
			return
		}

		c.Set(ContextKeyMerchant, merchant)
		c.Set(ContextKeyPayload, payload)
		c.Next()
	}
}

// HubSignature authenticates a hub callback by its X-Hub-Key header and the
// txnCode/correlationId signature, records it in the hub request log and
// resolves the merchant the callback acts for.
func HubSignature(verifier service.SignatureService, hubLogs service.RequestLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := readBody(c)
		if err != nil {
			AbortWithResult(c, "", "", err)
			return
		}
		var req service.HubRequest
		if err := binding.JSON.BindBody(body, &req); err != nil {
			AbortWithResult(c, "", req.RequestID, &domain.Error{Code: domain.CodeBadRequest, Message: err.Error()})
			return
		}
		c.Set(ContextKeyRequestID, req.RequestID)

		ctx := c.Request.Context()
		hub, err := verifier.VerifyHub(ctx, c.GetHeader(HeaderHubKey), &req)
		if err != nil {
			secret := ""
			if hub != nil {
				secret = hub.HubSecret
			}
			AbortWithResult(c, secret, req.RequestID, err)
			return
		}

		merchant, err := verifier.HubMerchant(ctx, hub, req.EncryptData.MerchantUniqueID)
		if err != nil {
			AbortWithResult(c, hub.HubSecret, req.RequestID, err)
			return
		}

		payload, _ := signature.Decode(body)
		entry := &domain.RequestLog{
			RequestID:   req.RequestID,
			APIURL:      c.FullPath(),
			RequestData: domain.JSONMap(payload),
			MerchantID:  strconv.FormatInt(merchant.ID, 10),
			HubID:       strconv.FormatInt(hub.ID, 10),
		}
		if err := hubLogs.Begin(ctx, entry); err != nil {
			AbortWithResult(c, hub.HubSecret, req.RequestID, err)
			return
		}

		c.Set(ContextKeyHub, hub)
		c.Set(ContextKeyHubRequest, &req)
		c.Set(ContextKeyMerchant, merchant)

		rec := recordResponse(c)
		c.Next()
		hubLogs.Complete(ctx, req.RequestID, rec.JSON())
	}
}
