package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"invoicefin/internal/domain"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) FindOrCreate(ctx context.Context, key domain.NaturalKey, candidate *domain.Invoice, asOf time.Time) (*domain.Invoice, bool, error) {
	args := m.Called(ctx, key, candidate, asOf)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Invoice), args.Bool(1), args.Error(2)
}

func (m *MockInvoiceRepo) LinkLedger(ctx context.Context, invoiceID, ledgerID int64) error {
	args := m.Called(ctx, invoiceID, ledgerID)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByRef(ctx context.Context, ref domain.InvoiceRef) (*domain.Invoice, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) FindLedgerLine(ctx context.Context, ledgerID int64, invoiceNo string, amount decimal.Decimal, financialYear string, asOf time.Time) (*domain.Invoice, error) {
	args := m.Called(ctx, ledgerID, invoiceNo, amount, financialYear, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) FindByLedgerAndNo(ctx context.Context, ledgerID int64, invoiceNo string) (*domain.Invoice, error) {
	args := m.Called(ctx, ledgerID, invoiceNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) MarkFunded(ctx context.Context, update domain.FundingUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *MockInvoiceRepo) ResetFunding(ctx context.Context, invoiceID, merchantID int64) error {
	args := m.Called(ctx, invoiceID, merchantID)
	return args.Error(0)
}

func (m *MockInvoiceRepo) UpdateStatus(ctx context.Context, invoiceID int64, status domain.InvoiceStatus) error {
	args := m.Called(ctx, invoiceID, status)
	return args.Error(0)
}

func (m *MockInvoiceRepo) SetGSTStatus(ctx context.Context, invoiceID int64, verified bool) error {
	args := m.Called(ctx, invoiceID, verified)
	return args.Error(0)
}

func (m *MockInvoiceRepo) SetGSTStatusByEWB(ctx context.Context, ewbNo string, verified bool) error {
	args := m.Called(ctx, ewbNo, verified)
	return args.Error(0)
}

func (m *MockInvoiceRepo) LatestByEWB(ctx context.Context, ewbNo string) (*domain.Invoice, error) {
	args := m.Called(ctx, ewbNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

// MockArchiveRepo is a mock implementation of port.ArchiveRepository.
type MockArchiveRepo struct {
	mock.Mock
}

func (m *MockArchiveRepo) ListCandidates(ctx context.Context, updatedBefore time.Time, limit int) ([]int64, error) {
	args := m.Called(ctx, updatedBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockArchiveRepo) Archive(ctx context.Context, invoiceID int64) (int64, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArchiveRepo) Restore(ctx context.Context, oldInvoiceID int64) (int64, error) {
	args := m.Called(ctx, oldInvoiceID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettlementRepo is a mock implementation of port.SettlementRepository.
type MockSettlementRepo struct {
	mock.Mock
}

func (m *MockSettlementRepo) EnsureLenderAssociation(ctx context.Context, invoiceID int64, lenderCode string) error {
	args := m.Called(ctx, invoiceID, lenderCode)
	return args.Error(0)
}

func (m *MockSettlementRepo) ClearLender(ctx context.Context, invoiceID int64) error {
	args := m.Called(ctx, invoiceID)
	return args.Error(0)
}

func (m *MockSettlementRepo) AddDisbursement(ctx context.Context, invoiceID int64, amount decimal.Decimal, eventDate time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, invoiceID, amount, eventDate)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSettlementRepo) AddRepayment(ctx context.Context, invoiceID int64, amount decimal.Decimal, eventDate time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, invoiceID, amount, eventDate)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
