package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicefin/internal/domain"
	"invoicefin/internal/service"
	"invoicefin/internal/signature"
	"invoicefin/mocks"
)

func signedPayload(t *testing.T, secret string) map[string]any {
	t.Helper()
	payload, err := signature.Decode([]byte(`{"requestId":"REQ-1","ledgerNo":"L-12","amount":1000.50}`))
	require.NoError(t, err)
	sig, err := signature.Sign(payload, secret)
	require.NoError(t, err)
	payload[signature.Field] = sig
	return payload
}

func TestSignatureService_VerifyMerchant(t *testing.T) {
	merchants := new(mocks.MockMerchantRepo)
	svc := service.NewSignatureService(merchants, new(mocks.MockHubRepo))
	merchant := testMerchant()
	merchants.On("GetByKey", mock.Anything, "mk-7").Return(merchant, nil)

	got, err := svc.VerifyMerchant(context.Background(), "mk-7", signedPayload(t, merchant.MerchantSecret))

	require.NoError(t, err)
	assert.Equal(t, merchant, got)
}

func TestSignatureService_VerifyMerchant_Mismatch(t *testing.T) {
	merchants := new(mocks.MockMerchantRepo)
	svc := service.NewSignatureService(merchants, new(mocks.MockHubRepo))
	merchant := testMerchant()
	merchants.On("GetByKey", mock.Anything, "mk-7").Return(merchant, nil)

	payload := signedPayload(t, "someone-else")
	got, err := svc.VerifyMerchant(context.Background(), "mk-7", payload)

	assert.ErrorIs(t, err, domain.ErrSignatureMismatch)
	// The merchant is still returned so the error response can be signed.
	assert.Equal(t, merchant, got)
}

func TestSignatureService_VerifyMerchant_Unknown(t *testing.T) {
	merchants := new(mocks.MockMerchantRepo)
	svc := service.NewSignatureService(merchants, new(mocks.MockHubRepo))
	merchants.On("GetByKey", mock.Anything, "nope").Return(nil, domain.ErrMerchantNotFound)

	got, err := svc.VerifyMerchant(context.Background(), "nope", map[string]any{})
	assert.Nil(t, got)
	assert.ErrorIs(t, err, domain.ErrMerchantNotFound)

	_, err = svc.VerifyMerchant(context.Background(), "", map[string]any{})
	assert.ErrorIs(t, err, domain.ErrMerchantNotFound)
	merchants.AssertNumberOfCalls(t, "GetByKey", 1)
}

func TestSignatureService_VerifyHub(t *testing.T) {
	hubs := new(mocks.MockHubRepo)
	svc := service.NewSignatureService(new(mocks.MockMerchantRepo), hubs)
	hub := &domain.Hub{ID: 3, HubKey: "hk", HubSecret: "hub-secret"}
	hubs.On("GetByKey", mock.Anything, "hk").Return(hub, nil)

	req := &service.HubRequest{
		RequestID:     "H-1",
		TxnCode:       "TXN-1",
		CorrelationID: "C-1",
		Signature:     signature.HubSignature("TXN-1", "C-1", "hub-secret"),
	}
	got, err := svc.VerifyHub(context.Background(), "hk", req)
	require.NoError(t, err)
	assert.Equal(t, hub, got)

	req.Signature = signature.HubSignature("TXN-1", "C-2", "hub-secret")
	_, err = svc.VerifyHub(context.Background(), "hk", req)
	assert.ErrorIs(t, err, domain.ErrSignatureMismatch)
}

func TestSignatureService_HubMerchant(t *testing.T) {
	merchants := new(mocks.MockMerchantRepo)
	svc := service.NewSignatureService(merchants, new(mocks.MockHubRepo))
	hub := &domain.Hub{ID: 3}
	merchants.On("GetByHubUniqueID", mock.Anything, int64(3), "ACME-01").Return(testMerchant(), nil)

	got, err := svc.HubMerchant(context.Background(), hub, "ACME-01")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)

	_, err = svc.HubMerchant(context.Background(), hub, "")
	assert.ErrorIs(t, err, domain.ErrMerchantNotFound)
}

func TestRequestLogService_Begin(t *testing.T) {
	repo := new(mocks.MockRequestLogRepo)
	svc := service.NewRequestLogService(repo)
	entry := &domain.RequestLog{RequestID: "REQ-1", MerchantID: "7"}

	repo.On("Create", mock.Anything, entry).Return(nil).Once()
	require.NoError(t, svc.Begin(context.Background(), entry))

	repo.On("Create", mock.Anything, entry).Return(domain.ErrDuplicateRequestID).Once()
	assert.ErrorIs(t, svc.Begin(context.Background(), entry), domain.ErrDuplicateRequestID)

	assert.ErrorIs(t, svc.Begin(context.Background(), &domain.RequestLog{}), domain.ErrInvalidRequest)
	repo.AssertNumberOfCalls(t, "Create", 2)
}

func TestRequestLogService_CompleteSwallowsErrors(t *testing.T) {
	repo := new(mocks.MockRequestLogRepo)
	svc := service.NewRequestLogService(repo)
	response := domain.JSONMap{"code": 200}

	repo.On("SetResponse", mock.Anything, "REQ-1", response).Return(errors.New("db down"))

	assert.NotPanics(t, func() { svc.Complete(context.Background(), "REQ-1", response) })
	repo.AssertExpectations(t)
}
