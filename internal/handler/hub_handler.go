package handler

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"invoicefin/internal/domain"
	"invoicefin/internal/middleware"
	"invoicefin/internal/service"
)

// Extra data keys stored with hub initiated async requests.
const (
	hubTxnCodeKey       = "txnCode"
	hubCorrelationIDKey = "correlationId"
)

// HubHandler handles callbacks posted by a hub on behalf of its merchants.
// Each callback runs asynchronously; responses are signed with the hub secret.
type HubHandler struct {
	async service.AsyncService
}

// NewHubHandler creates a new HubHandler.
func NewHubHandler(async service.AsyncService) *HubHandler {
	return &HubHandler{async: async}
}

func (h *HubHandler) accept(c *gin.Context, flag domain.TaskFlag) {
	hub, okHub := middleware.GetHub(c)
	req, okReq := middleware.GetHubRequest(c)
	merchant, okMerchant := middleware.GetMerchant(c)
	if !okHub || !okReq || !okMerchant {
		HandleError(c, domain.ErrMerchantNotFound)
		return
	}

	body, err := hubTaskBody(req)
	if err != nil {
		Respond(c, hub.HubSecret, req.RequestID, domain.CodeOK, nil, err)
		return
	}

	code, err := h.async.Accept(c.Request.Context(), service.AsyncRequest{
		Flag:      flag,
		RequestID: req.RequestID,
		Merchant:  merchant,
		Body:      body,
		Extra: domain.JSONMap{
			hubTxnCodeKey:       req.TxnCode,
			hubCorrelationIDKey: req.CorrelationID,
		},
	})
	Respond(c, hub.HubSecret, req.RequestID, code, nil, err)
}

// hubTaskBody returns the operation body of a callback carrying the hub's requestId.
func hubTaskBody(req *service.HubRequest) ([]byte, error) {
	data := make(map[string]any, len(req.EncryptData.Data)+1)
	for k, v := range req.EncryptData.Data {
		data[k] = v
	}
	data["requestId"] = req.RequestID
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	return body, nil
}

// Financing handles POST /api/v1/hub/financing
// @Summary Hub financing callback
// @Tags hub
// @Accept json
// @Produce json
// @Param X-Hub-Key header string true "Hub key"
// @Param request body HubCallbackRequest true "Hub callback"
// @Success 200 {object} EnvelopeBody "Accepted (1028)"
// @Failure 401 {object} EnvelopeBody "Signature mismatch or unknown hub"
// @Failure 409 {object} EnvelopeBody "Duplicate hub request id"
// @Router /hub/financing [post]
func (h *HubHandler) Financing(c *gin.Context) {
	h.accept(c, domain.TaskFinancing)
}

// Disbursement handles POST /api/v1/hub/disbursement
// @Summary Hub disbursement callback
// @Tags hub
// @Accept json
// @Produce json
// @Param X-Hub-Key header string true "Hub key"
// @Param request body HubCallbackRequest true "Hub callback"
// @Success 200 {object} EnvelopeBody "Accepted (1029)"
// @Failure 401 {object} EnvelopeBody "Signature mismatch or unknown hub"
// @Failure 409 {object} EnvelopeBody "Duplicate hub request id"
// @Router /hub/disbursement [post]
func (h *HubHandler) Disbursement(c *gin.Context) {
	h.accept(c, domain.TaskDisbursement)
}

// Repayment handles POST /api/v1/hub/repayment
// @Summary Hub repayment callback
// @Tags hub
// @Accept json
// @Produce json
// @Param X-Hub-Key header string true "Hub key"
// @Param request body HubCallbackRequest true "Hub callback"
// @Success 200 {object} EnvelopeBody "Accepted (1033)"
// @Failure 401 {object} EnvelopeBody "Signature mismatch or unknown hub"
// @Failure 409 {object} EnvelopeBody "Duplicate hub request id"
// @Router /hub/repayment [post]
func (h *HubHandler) Repayment(c *gin.Context) {
	h.accept(c, domain.TaskRepayment)
}
