package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"invoicefin/internal/domain"
)

// MockMerchantRepo is a mock implementation of port.MerchantRepository.
type MockMerchantRepo struct {
	mock.Mock
}

func (m *MockMerchantRepo) GetByKey(ctx context.Context, merchantKey string) (*domain.Merchant, error) {
	args := m.Called(ctx, merchantKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Merchant), args.Error(1)
}

func (m *MockMerchantRepo) GetByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Merchant), args.Error(1)
}

func (m *MockMerchantRepo) GetByHubUniqueID(ctx context.Context, hubID int64, uniqueID string) (*domain.Merchant, error) {
	args := m.Called(ctx, hubID, uniqueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Merchant), args.Error(1)
}

// MockHubRepo is a mock implementation of port.HubRepository.
type MockHubRepo struct {
	mock.Mock
}

func (m *MockHubRepo) GetByKey(ctx context.Context, hubKey string) (*domain.Hub, error) {
	args := m.Called(ctx, hubKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hub), args.Error(1)
}

// MockRequestLogRepo is a mock implementation of port.RequestLogRepository.
type MockRequestLogRepo struct {
	mock.Mock
}

func (m *MockRequestLogRepo) Create(ctx context.Context, entry *domain.RequestLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRequestLogRepo) SetResponse(ctx context.Context, requestID string, response domain.JSONMap) error {
	args := m.Called(ctx, requestID, response)
	return args.Error(0)
}

// MockPostProcessingRepo is a mock implementation of port.PostProcessingRepository.
type MockPostProcessingRepo struct {
	mock.Mock
}

func (m *MockPostProcessingRepo) Create(ctx context.Context, req *domain.PostProcessingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockPostProcessingRepo) SetAPIResponse(ctx context.Context, id int64, response domain.JSONMap) error {
	args := m.Called(ctx, id, response)
	return args.Error(0)
}

func (m *MockPostProcessingRepo) RecordWebhook(ctx context.Context, requestID, status string, response domain.JSONMap) error {
	args := m.Called(ctx, requestID, status, response)
	return args.Error(0)
}

func (m *MockPostProcessingRepo) HubTransactionsSince(ctx context.Context, since time.Time) ([]domain.HubTransaction, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HubTransaction), args.Error(1)
}

// MockMISRepo is a mock implementation of port.MISRepository.
type MockMISRepo struct {
	mock.Mock
}

func (m *MockMISRepo) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMISRepo) LedgerSummary(ctx context.Context) ([]domain.MISLedgerRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MISLedgerRow), args.Error(1)
}
