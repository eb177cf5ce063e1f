package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoicefin/internal/domain"
)

// MockLedgerRepo is a mock implementation of port.LedgerRepository.
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Create(ctx context.Context, ledger *domain.Ledger) error {
	args := m.Called(ctx, ledger)
	return args.Error(0)
}

func (m *MockLedgerRepo) SetLedgerNo(ctx context.Context, id int64, ledgerNo string) error {
	args := m.Called(ctx, id, ledgerNo)
	return args.Error(0)
}

func (m *MockLedgerRepo) HashExists(ctx context.Context, hash string) (bool, error) {
	args := m.Called(ctx, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepo) SetHash(ctx context.Context, id int64, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockLedgerRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerRepo) GetByLedgerNo(ctx context.Context, merchantID int64, ledgerNo string) (*domain.Ledger, error) {
	args := m.Called(ctx, merchantID, ledgerNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepo) GetByLedgerNoAndGrouping(ctx context.Context, merchantID int64, ledgerNo, groupingID string) (*domain.Ledger, error) {
	args := m.Called(ctx, merchantID, ledgerNo, groupingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ledger), args.Error(1)
}

func (m *MockLedgerRepo) UpdateStatus(ctx context.Context, id int64, status domain.LedgerStatus, extra domain.JSONMap) error {
	args := m.Called(ctx, id, status, extra)
	return args.Error(0)
}

func (m *MockLedgerRepo) LinkedInvoices(ctx context.Context, ledgerID int64) ([]domain.Invoice, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockLedgerRepo) FundedMembers(ctx context.Context, ledgerID int64) ([]domain.LedgerMember, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerMember), args.Error(1)
}

func (m *MockLedgerRepo) Snapshot(ctx context.Context, ledgerID int64) ([]domain.InvoiceSnapshot, error) {
	args := m.Called(ctx, ledgerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvoiceSnapshot), args.Error(1)
}

// WithLock records the call and runs fn unless an error is configured.
func (m *MockLedgerRepo) WithLock(ctx context.Context, ledgerID int64, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, ledgerID)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
