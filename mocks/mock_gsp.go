package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"invoicefin/internal/domain"
	"invoicefin/internal/port"
)

// MockGSPUserRepo is a mock implementation of port.GSPUserRepository.
type MockGSPUserRepo struct {
	mock.Mock
}

func (m *MockGSPUserRepo) ListByGSTIN(ctx context.Context, gstin string) ([]domain.GSPUser, error) {
	args := m.Called(ctx, gstin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GSPUser), args.Error(1)
}

func (m *MockGSPUserRepo) GetByID(ctx context.Context, id int64) (*domain.GSPUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GSPUser), args.Error(1)
}

// MockVayanaTaskRepo is a mock implementation of port.VayanaTaskRepository.
type MockVayanaTaskRepo struct {
	mock.Mock
}

func (m *MockVayanaTaskRepo) CreateIfAbsent(ctx context.Context, task *domain.VayanaTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockVayanaTaskRepo) ListPending(ctx context.Context) ([]domain.VayanaTask, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VayanaTask), args.Error(1)
}

func (m *MockVayanaTaskRepo) ListDownloadable(ctx context.Context) ([]domain.VayanaTask, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VayanaTask), args.Error(1)
}

func (m *MockVayanaTaskRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockVayanaTaskRepo) MarkDownloaded(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockVayanaClient is a mock implementation of port.VayanaClient.
type MockVayanaClient struct {
	mock.Mock
}

func (m *MockVayanaClient) Authenticate(ctx context.Context, handle, password string) (*domain.GSPSession, error) {
	args := m.Called(ctx, handle, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GSPSession), args.Error(1)
}

func (m *MockVayanaClient) VerifyEWB(ctx context.Context, session *domain.GSPSession, ewbNo string) (string, error) {
	args := m.Called(ctx, session, ewbNo)
	return args.String(0), args.Error(1)
}

func (m *MockVayanaClient) TaskStatus(ctx context.Context, session *domain.GSPSession, taskID string) (string, error) {
	args := m.Called(ctx, session, taskID)
	return args.String(0), args.Error(1)
}

func (m *MockVayanaClient) Download(ctx context.Context, session *domain.GSPSession, taskID string) ([]byte, error) {
	args := m.Called(ctx, session, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockCygnetClient is a mock implementation of port.CygnetClient.
type MockCygnetClient struct {
	mock.Mock
}

func (m *MockCygnetClient) EWBDetails(ctx context.Context, req port.CygnetEWBRequest) (*domain.EWBDocument, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EWBDocument), args.Error(1)
}

// MockWebhookSender is a mock implementation of port.WebhookSender.
type MockWebhookSender struct {
	mock.Mock
}

func (m *MockWebhookSender) Post(ctx context.Context, url string, headers map[string]string, body any) (int, []byte, error) {
	args := m.Called(ctx, url, headers, body)
	var resp []byte
	if args.Get(1) != nil {
		resp = args.Get(1).([]byte)
	}
	return args.Int(0), resp, args.Error(2)
}

// MockKVStore is a mock implementation of port.KVStore.
type MockKVStore struct {
	mock.Mock
}

func (m *MockKVStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockKVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockKVStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockKVStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockKVStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
