package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicefin/internal/domain"
	"invoicefin/internal/envelope"
	"invoicefin/internal/service"
)

// MockSignatureService is a mock implementation of service.SignatureService.
type MockSignatureService struct {
	mock.Mock
}

func (m *MockSignatureService) VerifyMerchant(ctx context.Context, merchantKey string, payload map[string]any) (*domain.Merchant, error) {
	args := m.Called(ctx, merchantKey, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Merchant), args.Error(1)
}

func (m *MockSignatureService) VerifyHub(ctx context.Context, hubKey string, req *service.HubRequest) (*domain.Hub, error) {
	args := m.Called(ctx, hubKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hub), args.Error(1)
}

func (m *MockSignatureService) HubMerchant(ctx context.Context, hub *domain.Hub, uniqueID string) (*domain.Merchant, error) {
	args := m.Called(ctx, hub, uniqueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Merchant), args.Error(1)
}

// MockRequestLogService is a mock implementation of service.RequestLogService.
type MockRequestLogService struct {
	mock.Mock
}

func (m *MockRequestLogService) Begin(ctx context.Context, entry *domain.RequestLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockRequestLogService) Complete(ctx context.Context, requestID string, response domain.JSONMap) {
	m.Called(ctx, requestID, response)
}

// MockLedgerService is a mock implementation of service.LedgerService.
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Register(ctx context.Context, merchant *domain.Merchant, input *service.RegisterLedgerInput) (*service.RegisterLedgerOutput, error) {
	args := m.Called(ctx, merchant, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RegisterLedgerOutput), args.Error(1)
}

func (m *MockLedgerService) Status(ctx context.Context, merchant *domain.Merchant, input *service.LedgerStatusInput) (*service.LedgerStatusOutput, error) {
	args := m.Called(ctx, merchant, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LedgerStatusOutput), args.Error(1)
}

// MockFinancingService is a mock implementation of service.FinancingService.
type MockFinancingService struct {
	mock.Mock
}

func (m *MockFinancingService) Finance(ctx context.Context, merchant *domain.Merchant, input *service.FinanceInput) (*service.FinancingOutput, error) {
	args := m.Called(ctx, merchant, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FinancingOutput), args.Error(1)
}

func (m *MockFinancingService) Cancel(ctx context.Context, merchant *domain.Merchant, input *service.CancelInput) (*service.FinancingOutput, error) {
	args := m.Called(ctx, merchant, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FinancingOutput), args.Error(1)
}

// MockSettlementService is a mock implementation of service.SettlementService.
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Disburse(ctx context.Context, merchant *domain.Merchant, input *service.DisburseInput) (*service.SettlementOutput, error) {
	args := m.Called(ctx, merchant, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SettlementOutput), args.Error(1)
}

func (m *MockSettlementService) Repay(ctx context.Context, merchant *domain.Merchant, input *service.RepayInput) (*service.SettlementOutput, error) {
	args := m.Called(ctx, merchant, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SettlementOutput), args.Error(1)
}

// MockAsyncService is a mock implementation of service.AsyncService.
type MockAsyncService struct {
	mock.Mock
}

func (m *MockAsyncService) Accept(ctx context.Context, req service.AsyncRequest) (domain.Code, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.Code), args.Error(1)
}

// MockGSPVerifier is a mock implementation of service.GSPVerifier.
type MockGSPVerifier struct {
	mock.Mock
}

func (m *MockGSPVerifier) VerifyInvoice(ctx context.Context, in service.GSPVerifyInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

// MockGSPSessionProvider is a mock implementation of service.GSPSessionProvider.
type MockGSPSessionProvider struct {
	mock.Mock
}

func (m *MockGSPSessionProvider) Session(ctx context.Context, user *domain.GSPUser) (*domain.GSPSession, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GSPSession), args.Error(1)
}

// MockWebhookService is a mock implementation of service.WebhookService.
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) Deliver(ctx context.Context, merchant *domain.Merchant, requestID string, env envelope.Envelope) error {
	args := m.Called(ctx, merchant, requestID, env)
	return args.Error(0)
}

func (m *MockWebhookService) PostHubEOD(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockArchivalService is a mock implementation of service.ArchivalService.
type MockArchivalService struct {
	mock.Mock
}

func (m *MockArchivalService) Run(ctx context.Context) (*domain.ArchivalReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArchivalReport), args.Error(1)
}

func (m *MockArchivalService) Restore(ctx context.Context, ref domain.InvoiceRef) (int64, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(int64), args.Error(1)
}

// SyncBackground runs background work inline, recording each task name.
type SyncBackground struct {
	Names  []string
	Errors []error
}

func (b *SyncBackground) Go(name string, fn func(ctx context.Context) error) {
	b.Names = append(b.Names, name)
	b.Errors = append(b.Errors, fn(context.Background()))
}
