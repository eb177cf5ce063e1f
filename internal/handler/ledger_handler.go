package handler

import (
	"github.com/gin-gonic/gin"

	"invoicefin/internal/domain"
	"invoicefin/internal/service"
)

// LedgerHandler handles ledger registration, status and financing endpoints.
type LedgerHandler struct {
	ledgers   service.LedgerService
	financing service.FinancingService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgers service.LedgerService, financing service.FinancingService) *LedgerHandler {
	return &LedgerHandler{ledgers: ledgers, financing: financing}
}

// Register handles POST /api/v1/ledgers
// @Summary Register a ledger
// @Description Register a batch of invoices as a ledger. Invoices already registered by any merchant are rejected.
// @Tags ledgers
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body RegisterLedgerRequest true "Signed ledger registration"
// @Success 200 {object} LedgerResponse "Ledger registered"
// @Failure 400 {object} EnvelopeBody "Validation error"
// @Failure 401 {object} EnvelopeBody "Signature mismatch or unknown merchant"
// @Failure 409 {object} EnvelopeBody "Duplicate ledger or request id"
// @Router /ledgers [post]
func (h *LedgerHandler) Register(c *gin.Context) {
	merchant, ok := merchantContext(c)
	if !ok {
		return
	}
	var input service.RegisterLedgerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Respond(c, merchant.MerchantSecret, input.RequestID, domain.CodeOK, nil, validationError(err))
		return
	}

	out, err := h.ledgers.Register(c.Request.Context(), merchant, &input)
	Respond(c, merchant.MerchantSecret, input.RequestID, domain.CodeOK, out, err)
}

// Status handles POST /api/v1/ledgers/status
// @Summary Ledger status
// @Description Report whether a ledger is funded (1004) or not (1005) along with its invoices.
// @Tags ledgers
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body LedgerStatusRequest true "Signed status request"
// @Success 200 {object} LedgerStatusResponse "Ledger status"
// @Failure 401 {object} EnvelopeBody "Signature mismatch or unknown merchant"
// @Failure 404 {object} EnvelopeBody "Ledger not found"
// @Router /ledgers/status [post]
func (h *LedgerHandler) Status(c *gin.Context) {
	merchant, ok := merchantContext(c)
	if !ok {
		return
	}
	var input service.LedgerStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Respond(c, merchant.MerchantSecret, input.RequestID, domain.CodeOK, nil, validationError(err))
		return
	}

	out, err := h.ledgers.Status(c.Request.Context(), merchant, &input)
	code := domain.CodeOK
	if out != nil {
		code = out.Code
	}
	Respond(c, merchant.MerchantSecret, input.RequestID, code, out, err)
}

// Finance handles POST /api/v1/ledgers/finance
// @Summary Finance a ledger
// @Description Mark every invoice of a ledger as funded. Any line failing validation rejects the whole request.
// @Tags ledgers
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body FinanceRequest true "Signed financing request"
// @Success 200 {object} LedgerResponse "Ledger financed (1013)"
// @Failure 400 {object} EnvelopeBody "Validation error"
// @Failure 404 {object} EnvelopeBody "Ledger or invoice not found"
// @Failure 409 {object} EnvelopeBody "Ledger already funded"
// @Router /ledgers/finance [post]
func (h *LedgerHandler) Finance(c *gin.Context) {
	merchant, ok := merchantContext(c)
	if !ok {
		return
	}
	var input service.FinanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Respond(c, merchant.MerchantSecret, input.RequestID, domain.CodeOK, nil, validationError(err))
		return
	}

	out, err := h.financing.Finance(c.Request.Context(), merchant, &input)
	code := domain.CodeOK
	if out != nil {
		code = out.Code
	}
	Respond(c, merchant.MerchantSecret, input.RequestID, code, out, err)
}

// Cancel handles POST /api/v1/ledgers/cancel
// @Summary Cancel ledger financing
// @Description Reset the funding of every funded invoice of a ledger, restoring archived invoices first.
// @Tags ledgers
// @Accept json
// @Produce json
// @Param X-Merchant-Key header string true "Merchant key"
// @Param request body CancelRequest true "Signed cancellation request"
// @Success 200 {object} LedgerResponse "Financing cancelled"
// @Failure 404 {object} EnvelopeBody "Ledger not found"
// @Failure 409 {object} EnvelopeBody "Nothing to cancel"
// @Router /ledgers/cancel [post]
func (h *LedgerHandler) Cancel(c *gin.Context) {
	merchant, ok := merchantContext(c)
	if !ok {
		return
	}
	var input service.CancelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Respond(c, merchant.MerchantSecret, input.RequestID, domain.CodeOK, nil, validationError(err))
		return
	}

	out, err := h.financing.Cancel(c.Request.Context(), merchant, &input)
	code := domain.CodeOK
	if out != nil {
		code = out.Code
	}
	Respond(c, merchant.MerchantSecret, input.RequestID, code, out, err)
}
