package middleware

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"

	"invoicefin/internal/domain"
	"invoicefin/internal/service"
)

// responseRecorder copies the response body while it is written.
type responseRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// JSON returns the recorded body as an object. Bodies that are not a JSON
// object are kept under "raw".
func (w *responseRecorder) JSON() domain.JSONMap {
	out := domain.JSONMap{}
	if w.body.Len() == 0 {
		return out
	}
	if err := json.Unmarshal(w.body.Bytes(), &out); err != nil {
		return domain.JSONMap{"raw": w.body.String()}
	}
	return out
}

func recordResponse(c *gin.Context) *responseRecorder {
	rec := &responseRecorder{ResponseWriter: c.Writer}
	c.Writer = rec
	return rec
}

// RequestLog records each signed merchant request under its requestId,
// rejecting reused ids, and stores the response once it is written. It runs
// after MerchantSignature.
func RequestLog(svc service.RequestLogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		merchant, ok := GetMerchant(c)
		if !ok {
			AbortWithResult(c, "", GetRequestID(c), domain.ErrMerchantNotFound)
			return
		}
		requestID := GetRequestID(c)
		payload, _ := c.Get(ContextKeyPayload)
		requestData, _ := payload.(map[string]any)

		ctx := c.Request.Context()
		entry := &domain.RequestLog{
			RequestID:   requestID,
			APIURL:      c.FullPath(),
			RequestData: domain.JSONMap(requestData),
			MerchantID:  strconv.FormatInt(merchant.ID, 10),
		}
		if err := svc.Begin(ctx, entry); err != nil {
			AbortWithResult(c, merchant.MerchantSecret, requestID, err)
			return
		}

		rec := recordResponse(c)
		c.Next()
		svc.Complete(ctx, requestID, rec.JSON())
	}
}
