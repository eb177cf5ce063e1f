package handler

import (
	"github.com/gin-gonic/gin"

	"invoicefin/internal/domain"
	"invoicefin/internal/service"
)

// SettlementHandler handles disbursement and repayment endpoints.
type SettlementHandler struct {
	settlement service.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlement service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlement: settlement}
}

// Disburse handles POST /api/v1/invoices/disburse
// @Summary Record disbursements
// @Description Record disbursed amounts against funded invoices of a ledger.
// @Tags settlement
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body DisburseRequest true "Signed disbursement request"
// @Success 200 {object} SettlementResponse "Disbursement recorded"
// @Failure 400 {object} EnvelopeBody "Validation error or invoice not funded"
// @Failure 404 {object} EnvelopeBody "Ledger or invoice not found"
// @Router /invoices/disburse [post]
func (h *SettlementHandler) Disburse(c *gin.Context) {
	merchant, ok := merchantContext(c)
	if !ok {
		return
	}
	var input service.DisburseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Respond(c, merchant.MerchantSecret, input.RequestID, domain.CodeOK, nil, validationError(err))
		return
	}

	out, err := h.settlement.Disburse(c.Request.Context(), merchant, &input)
	Respond(c, merchant.MerchantSecret, input.RequestID, domain.CodeOK, out, err)
}

// Repay handles POST /api/v1/invoices/repay
// @Summary Record repayments
// @Description Record repaid amounts against disbursed invoices of a ledger.
// @Tags settlement
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body RepayRequest true "Signed repayment request"
// @Success 200 {object} SettlementResponse "Repayment recorded"
// @Failure 400 {object} EnvelopeBody "Validation error or invoice not disbursed"
// @Failure 404 {object} EnvelopeBody "Ledger or invoice not found"
// @Router /invoices/repay [post]
func (h *SettlementHandler) Repay(c *gin.Context) {
	merchant, ok := merchantContext(c)
	if !ok {
		return
	}
	var input service.RepayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Respond(c, merchant.MerchantSecret, input.RequestID, domain.CodeOK, nil, validationError(err))
		return
	}

	out, err := h.settlement.Repay(c.Request.Context(), merchant, &input)
	Respond(c, merchant.MerchantSecret, input.RequestID, domain.CodeOK, out, err)
}
