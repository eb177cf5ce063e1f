package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicefin/internal/domain"
	"invoicefin/internal/envelope"
	"invoicefin/internal/logger"
	"invoicefin/internal/middleware"
)

// MapDomainError translates an operation error to its HTTP status, result code and message.
func MapDomainError(err error) (status int, code domain.Code, msg string) {
	var de *domain.Error
	if errors.As(err, &de) {
		return middleware.StatusFor(de.Code), de.Code, de.Message
	}
	return http.StatusInternalServerError, domain.CodeInternal, domain.CodeInternal.Message()
}

// validationError wraps a binding failure so its detail reaches the caller.
func validationError(err error) error {
	return &domain.Error{Code: domain.CodeBadRequest, Message: err.Error()}
}

// Respond sends the signed envelope of an operation outcome. On success the
// envelope carries code and the fields of out; on failure the code and
// message of err.
func Respond(c *gin.Context, secret, requestID string, code domain.Code, out any, err error) {
	status := http.StatusOK
	if err != nil {
		status, _, _ = MapDomainError(err)
		if status >= 500 {
			log := logger.WithRequestID(c.GetString(middleware.ContextKeyTraceID))
			log.Error().Err(err).Str("path", c.FullPath()).Str("merchant_request_id", requestID).Msg("internal error")
		}
	}

	env, envErr := envelope.ForResult(requestID, code, out, err)
	if envErr == nil {
		env, envErr = env.Sign(secret)
	}
	if envErr != nil {
		HandleError(c, envErr)
		return
	}
	c.JSON(status, env)
}

// HandleError sends an unsigned error envelope. It is used when the caller
// could not be identified or the signed envelope could not be built.
func HandleError(c *gin.Context, err error) {
	middleware.AbortWithResult(c, "", middleware.GetRequestID(c), err)
}

// merchantContext returns the authenticated merchant. Returns false if it is
// missing (error response already written).
func merchantContext(c *gin.Context) (*domain.Merchant, bool) {
	merchant, ok := middleware.GetMerchant(c)
	if !ok {
		HandleError(c, domain.ErrMerchantNotFound)
		return nil, false
	}
	return merchant, true
}
