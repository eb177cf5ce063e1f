package handler

import (
	"github.com/gin-gonic/gin"

	"invoicefin/internal/domain"
	"invoicefin/internal/middleware"
	"invoicefin/internal/service"
)

// AsyncHandler accepts merchant requests for background execution. The
// result is delivered to the merchant's webhook endpoint.
type AsyncHandler struct {
	async service.AsyncService
}

// NewAsyncHandler creates a new AsyncHandler.
func NewAsyncHandler(async service.AsyncService) *AsyncHandler {
	return &AsyncHandler{async: async}
}

func (h *AsyncHandler) accept(c *gin.Context, flag domain.TaskFlag) {
	merchant, ok := merchantContext(c)
	if !ok {
		return
	}
	requestID := middleware.GetRequestID(c)

	code, err := h.async.Accept(c.Request.Context(), service.AsyncRequest{
		Flag:      flag,
		RequestID: requestID,
		Merchant:  merchant,
		Body:      middleware.GetRawBody(c),
	})
	Respond(c, merchant.MerchantSecret, requestID, code, nil, err)
}

// Registration handles POST /api/v1/async/registration
// @Summary Register a ledger asynchronously
// @Tags async
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body RegisterLedgerRequest true "Signed ledger registration"
// @Success 200 {object} EnvelopeBody "Accepted (1023)"
// @Router /async/registration [post]
func (h *AsyncHandler) Registration(c *gin.Context) {
	h.accept(c, domain.TaskInvoiceRegistration)
}

// LedgerStatus handles POST /api/v1/async/ledger-status
// @Summary Check ledger status asynchronously
// @Tags async
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body LedgerStatusRequest true "Signed status request"
// @Success 200 {object} EnvelopeBody "Accepted (1050)"
// @Router /async/ledger-status [post]
func (h *AsyncHandler) LedgerStatus(c *gin.Context) {
	h.accept(c, domain.TaskLedgerStatusCheck)
}

// Financing handles POST /api/v1/async/financing
// @Summary Finance a ledger asynchronously
// @Tags async
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body FinanceRequest true "Signed financing request"
// @Success 200 {object} EnvelopeBody "Accepted (1028)"
// @Router /async/financing [post]
func (h *AsyncHandler) Financing(c *gin.Context) {
	h.accept(c, domain.TaskFinancing)
}

// Disbursement handles POST /api/v1/async/disbursement
// @Summary Record disbursements asynchronously
// @Tags async
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body DisburseRequest true "Signed disbursement request"
// @Success 200 {object} EnvelopeBody "Accepted (1029)"
// @Router /async/disbursement [post]
func (h *AsyncHandler) Disbursement(c *gin.Context) {
	h.accept(c, domain.TaskDisbursement)
}

// Repayment handles POST /api/v1/async/repayment
// @Summary Record repayments asynchronously
// @Tags async
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body RepayRequest true "Signed repayment request"
// @Success 200 {object} EnvelopeBody "Accepted (1033)"
// @Router /async/repayment [post]
func (h *AsyncHandler) Repayment(c *gin.Context) {
	h.accept(c, domain.TaskRepayment)
}

// GSPVerification handles POST /api/v1/async/gsp-verification
// @Summary Verify an e-way-bill backed invoice with its GSP
// @Tags async
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body GSPVerificationRequest true "Signed verification request"
// @Success 200 {object} EnvelopeBody "Accepted (1023)"
// @Router /async/gsp-verification [post]
func (h *AsyncHandler) GSPVerification(c *gin.Context) {
	h.accept(c, domain.TaskGSPVerification)
}
