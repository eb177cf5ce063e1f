package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invoicefin/internal/domain"
	"invoicefin/internal/service"
	"invoicefin/mocks"
)

type settlementFixture struct {
	svc         service.SettlementService
	ledgers     *mocks.MockLedgerRepo
	invoices    *mocks.MockInvoiceRepo
	settlements *mocks.MockSettlementRepo
}

func setupSettlementService() *settlementFixture {
	f := &settlementFixture{
		ledgers:     new(mocks.MockLedgerRepo),
		invoices:    new(mocks.MockInvoiceRepo),
		settlements: new(mocks.MockSettlementRepo),
	}
	f.svc = service.NewSettlementService(f.ledgers, f.invoices, f.settlements)
	f.ledgers.On("GetByLedgerNo", mock.Anything, int64(7), "L-12").Return(&domain.Ledger{ID: 12, LedgerNo: "L-12"}, nil)
	return f
}

func fundedInvoice(id int64, no string, funded string, status domain.InvoiceStatus) *domain.Invoice {
	return &domain.Invoice{
		ID:          id,
		InvoiceNo:   no,
		InvoiceDate: day(2024, time.March, 15),
		InvoiceAmt:  amt("1000"),
		FundedAmt:   decimal.NewNullDecimal(amt(funded)),
		FundStatus:  true,
		Status:      status,
	}
}

func TestSettlementService_Disburse_PartialThenFull(t *testing.T) {
	f := setupSettlementService()
	f.invoices.On("FindByLedgerAndNo", mock.Anything, int64(12), "INV-1").
		Return(fundedInvoice(101, "INV-1", "800", domain.InvoiceStatusFunded), nil)
	f.invoices.On("FindByLedgerAndNo", mock.Anything, int64(12), "INV-2").
		Return(fundedInvoice(102, "INV-2", "500", domain.InvoiceStatusPartialDisbursed), nil)
	f.settlements.On("AddDisbursement", mock.Anything, int64(101), amt("300"), day(2024, time.April, 1)).
		Return(amt("300"), nil)
	f.settlements.On("AddDisbursement", mock.Anything, int64(102), amt("200"), day(2024, time.April, 2)).
		Return(amt("500"), nil)
	f.invoices.On("UpdateStatus", mock.Anything, int64(101), domain.InvoiceStatusPartialDisbursed).Return(nil)
	f.invoices.On("UpdateStatus", mock.Anything, int64(102), domain.InvoiceStatusFullDisbursed).Return(nil)

	out, err := f.svc.Disburse(context.Background(), testMerchant(), &service.DisburseInput{
		RequestID: "REQ-D1",
		LedgerNo:  "L-12",
		LedgerData: []service.DisburseLine{
			{InvoiceNo: "INV-1", DisbursedAmt: amt("300"), DisbursedDate: "01/04/2024"},
			{InvoiceNo: "INV-2", DisbursedAmt: amt("200"), DisbursedDate: "02/04/2024"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.CodeOK, out.Code)
	assert.Equal(t, []service.SettlementResult{
		{InvoiceNo: "INV-1", InvoiceStatus: domain.InvoiceStatusPartialDisbursed},
		{InvoiceNo: "INV-2", InvoiceStatus: domain.InvoiceStatusFullDisbursed},
	}, out.LedgerData)
	f.settlements.AssertExpectations(t)
	f.invoices.AssertExpectations(t)
}

func TestSettlementService_Disburse_NotFunded(t *testing.T) {
	f := setupSettlementService()
	inv := fundedInvoice(101, "INV-1", "800", domain.InvoiceStatusNonFunded)
	inv.FundStatus = false
	f.invoices.On("FindByLedgerAndNo", mock.Anything, int64(12), "INV-1").Return(inv, nil)

	_, err := f.svc.Disburse(context.Background(), testMerchant(), &service.DisburseInput{
		RequestID:  "REQ-D2",
		LedgerNo:   "L-12",
		LedgerData: []service.DisburseLine{{InvoiceNo: "INV-1", DisbursedAmt: amt("300"), DisbursedDate: "01/04/2024"}},
	})

	assert.ErrorIs(t, err, domain.ErrInvoiceNotFunded)
	f.settlements.AssertNotCalled(t, "AddDisbursement", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementService_Disburse_BeforeInvoiceDate(t *testing.T) {
	f := setupSettlementService()
	f.invoices.On("FindByLedgerAndNo", mock.Anything, int64(12), "INV-1").
		Return(fundedInvoice(101, "INV-1", "800", domain.InvoiceStatusFunded), nil)

	_, err := f.svc.Disburse(context.Background(), testMerchant(), &service.DisburseInput{
		RequestID:  "REQ-D3",
		LedgerNo:   "L-12",
		LedgerData: []service.DisburseLine{{InvoiceNo: "INV-1", DisbursedAmt: amt("300"), DisbursedDate: "01/03/2024"}},
	})

	assert.ErrorIs(t, err, domain.ErrDisburseDateBeforeInvoice)
}

func TestSettlementService_Repay_UsesDueAmount(t *testing.T) {
	f := setupSettlementService()
	f.invoices.On("FindByLedgerAndNo", mock.Anything, int64(12), "INV-1").
		Return(fundedInvoice(101, "INV-1", "800", domain.InvoiceStatusFullDisbursed), nil)
	f.settlements.On("AddRepayment", mock.Anything, int64(101), amt("850"), day(2024, time.May, 10)).
		Return(amt("850"), nil)
	f.invoices.On("UpdateStatus", mock.Anything, int64(101), domain.InvoiceStatusPartialPaid).Return(nil)

	out, err := f.svc.Repay(context.Background(), testMerchant(), &service.RepayInput{
		RequestID: "REQ-R1",
		LedgerNo:  "L-12",
		LedgerData: []service.RepayLine{
			{InvoiceNo: "INV-1", DueAmt: amt("900"), RepaymentAmt: amt("850"), RepaymentDate: "10/05/2024"},
		},
	})

	require.NoError(t, err)
	require.Len(t, out.LedgerData, 1)
	assert.Equal(t, domain.InvoiceStatusPartialPaid, out.LedgerData[0].InvoiceStatus)
}

func TestSettlementService_Repay_FallsBackToFundedAmount(t *testing.T) {
	f := setupSettlementService()
	f.invoices.On("FindByLedgerAndNo", mock.Anything, int64(12), "INV-1").
		Return(fundedInvoice(101, "INV-1", "800", domain.InvoiceStatusPartialPaid), nil)
	f.settlements.On("AddRepayment", mock.Anything, int64(101), amt("100"), day(2024, time.May, 10)).
		Return(amt("800"), nil)
	f.invoices.On("UpdateStatus", mock.Anything, int64(101), domain.InvoiceStatusFullPaid).Return(nil)

	out, err := f.svc.Repay(context.Background(), testMerchant(), &service.RepayInput{
		RequestID:  "REQ-R2",
		LedgerNo:   "L-12",
		LedgerData: []service.RepayLine{{InvoiceNo: "INV-1", RepaymentAmt: amt("100"), RepaymentDate: "10/05/2024"}},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusFullPaid, out.LedgerData[0].InvoiceStatus)
}

func TestSettlementService_Repay_NotDisbursed(t *testing.T) {
	f := setupSettlementService()
	f.invoices.On("FindByLedgerAndNo", mock.Anything, int64(12), "INV-1").
		Return(fundedInvoice(101, "INV-1", "800", domain.InvoiceStatusFunded), nil)

	_, err := f.svc.Repay(context.Background(), testMerchant(), &service.RepayInput{
		RequestID:  "REQ-R3",
		LedgerNo:   "L-12",
		LedgerData: []service.RepayLine{{InvoiceNo: "INV-1", RepaymentAmt: amt("100"), RepaymentDate: "10/05/2024"}},
	})

	assert.ErrorIs(t, err, domain.ErrInvoiceNotDisbursed)
	f.settlements.AssertNotCalled(t, "AddRepayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettlementService_Repay_UnknownInvoice(t *testing.T) {
	f := setupSettlementService()
	f.invoices.On("FindByLedgerAndNo", mock.Anything, int64(12), "INV-9").Return(nil, domain.ErrInvoiceNotFound)

	_, err := f.svc.Repay(context.Background(), testMerchant(), &service.RepayInput{
		RequestID:  "REQ-R4",
		LedgerNo:   "L-12",
		LedgerData: []service.RepayLine{{InvoiceNo: "INV-9", RepaymentAmt: amt("100"), RepaymentDate: "10/05/2024"}},
	})

	assert.Equal(t, domain.CodeInvoiceNotFound, domain.CodeOf(err))
}
