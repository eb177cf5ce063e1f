package service

import (
	"context"

	"invoicefin/internal/domain"
	"invoicefin/internal/port"
	"invoicefin/internal/signature"
)

// HubRequest is the body a hub posts for its callbacks.
type HubRequest struct {
	RequestID     string         `json:"requestId" binding:"required,max=30"`
	TxnCode       string         `json:"txnCode" binding:"required"`
	CorrelationID string         `json:"correlationId" binding:"required"`
	Signature     string         `json:"signature" binding:"required"`
	EncryptData   HubPayloadData `json:"encryptData"`
}

// HubPayloadData carries the merchant the callback acts for and the operation body.
type HubPayloadData struct {
	MerchantUniqueID string         `json:"merchantUniqueId"`
	Data             map[string]any `json:"data"`
}

// SignatureService authenticates merchants and hubs by their payload signatures.
type SignatureService interface {
	VerifyMerchant(ctx context.Context, merchantKey string, payload map[string]any) (*domain.Merchant, error)
	VerifyHub(ctx context.Context, hubKey string, req *HubRequest) (*domain.Hub, error)
	HubMerchant(ctx context.Context, hub *domain.Hub, uniqueID string) (*domain.Merchant, error)
}

type signatureService struct {
	merchantRepo port.MerchantRepository
	hubRepo      port.HubRepository
}

// NewSignatureService creates a new SignatureService.
func NewSignatureService(merchantRepo port.MerchantRepository, hubRepo port.HubRepository) SignatureService {
	return &signatureService{merchantRepo: merchantRepo, hubRepo: hubRepo}
}

func (s *signatureService) VerifyMerchant(ctx context.Context, merchantKey string, payload map[string]any) (*domain.Merchant, error) {
	if merchantKey == "" {
		return nil, domain.ErrMerchantNotFound
	}
	merchant, err := s.merchantRepo.GetByKey(ctx, merchantKey)
	if err != nil {
		return nil, err
	}

	received, _ := payload[signature.Field].(string)
	expected, err := signature.Sign(payload, merchant.MerchantSecret)
	if err != nil {
		return nil, err
	}
	if !signature.Equal(received, expected) {
		return merchant, domain.ErrSignatureMismatch
	}
	return merchant, nil
}

func (s *signatureService) VerifyHub(ctx context.Context, hubKey string, req *HubRequest) (*domain.Hub, error) {
	if hubKey == "" {
		return nil, domain.ErrMerchantNotFound
	}
	hub, err := s.hubRepo.GetByKey(ctx, hubKey)
	if err != nil {
		return nil, err
	}
	expected := signature.HubSignature(req.TxnCode, req.CorrelationID, hub.HubSecret)
	if !signature.Equal(req.Signature, expected) {
		return hub, domain.ErrSignatureMismatch
	}
	return hub, nil
}

func (s *signatureService) HubMerchant(ctx context.Context, hub *domain.Hub, uniqueID string) (*domain.Merchant, error) {
	if uniqueID == "" {
		return nil, domain.ErrMerchantNotFound
	}
	return s.merchantRepo.GetByHubUniqueID(ctx, hub.ID, uniqueID)
}
