package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"invoicefin/internal/domain"
	"invoicefin/internal/service"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, domain.IST)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidateLine(t *testing.T) {
	now := day(2024, time.June, 1)
	base := func() service.LineFacts {
		return service.LineFacts{InvoiceDate: day(2024, time.March, 15), InvoiceAmt: amt("1000")}
	}

	tests := []struct {
		name   string
		mutate func(f *service.LineFacts)
		want   error
	}{
		{"valid registration line", func(f *service.LineFacts) {}, nil},
		{"invoice date in future", func(f *service.LineFacts) { f.InvoiceDate = day(2024, time.June, 2) }, domain.ErrInvoiceDateInFuture},
		{"due date before invoice", func(f *service.LineFacts) { f.DueDate = dayPtr(2024, time.March, 1) }, domain.ErrDueDateBeforeInvoiceDate},
		{"finance date before invoice", func(f *service.LineFacts) {
			f.FinanceRequestDate = dayPtr(2024, time.March, 14)
		}, domain.ErrFinanceDateBeforeInvoice},
		{"finance date in future", func(f *service.LineFacts) {
			f.FinanceRequestDate = dayPtr(2024, time.July, 1)
		}, domain.ErrFinanceDateInFuture},
		{"due date before finance date", func(f *service.LineFacts) {
			f.FinanceRequestDate = dayPtr(2024, time.April, 10)
			f.DueDate = dayPtr(2024, time.April, 1)
		}, domain.ErrDueDateBeforeFinanceDate},
		{"finance amount above invoice", func(f *service.LineFacts) {
			f.FinanceRequestDate = dayPtr(2024, time.April, 10)
			f.FinanceRequestAmt = amt("1000.01")
		}, domain.ErrFinanceAmtAboveInvoice},
		{"adjustment with type none", func(f *service.LineFacts) {
			f.FinanceRequestDate = dayPtr(2024, time.April, 10)
			f.FinanceRequestAmt = amt("900")
			f.AdjustmentType = "None"
			f.AdjustmentAmt = amt("5")
		}, domain.ErrAdjustmentNotAllowed},
		{"valid finance line", func(f *service.LineFacts) {
			f.FinanceRequestDate = dayPtr(2024, time.April, 10)
			f.FinanceRequestAmt = amt("1000")
			f.DueDate = dayPtr(2024, time.May, 15)
			f.AdjustmentType = "discount"
			f.AdjustmentAmt = amt("5")
		}, nil},
		{"disbursed before invoice", func(f *service.LineFacts) {
			f.DisbursedDate = dayPtr(2024, time.March, 1)
			f.DisbursedAmt = amt("10")
		}, domain.ErrDisburseDateBeforeInvoice},
		{"disbursed after due", func(f *service.LineFacts) {
			f.DueDate = dayPtr(2024, time.April, 1)
			f.DisbursedDate = dayPtr(2024, time.April, 2)
			f.DisbursedAmt = amt("10")
		}, domain.ErrDisburseDateAfterDue},
		{"disbursed in future", func(f *service.LineFacts) {
			f.DisbursedDate = dayPtr(2024, time.June, 5)
			f.DisbursedAmt = amt("10")
		}, domain.ErrDisburseDateInFuture},
		{"disbursed zero", func(f *service.LineFacts) {
			f.DisbursedDate = dayPtr(2024, time.April, 2)
		}, domain.ErrDisburseAmtNotPositive},
		{"repayment before invoice", func(f *service.LineFacts) {
			f.RepaymentDate = dayPtr(2024, time.March, 1)
			f.RepaymentAmt = amt("10")
		}, domain.ErrRepayDateBeforeInvoice},
		{"repayment in future", func(f *service.LineFacts) {
			f.RepaymentDate = dayPtr(2024, time.June, 2)
			f.RepaymentAmt = amt("10")
		}, domain.ErrRepayDateInFuture},
		{"repayment after due", func(f *service.LineFacts) {
			f.DueDate = dayPtr(2024, time.April, 1)
			f.RepaymentDate = dayPtr(2024, time.April, 20)
			f.RepaymentAmt = amt("10")
		}, domain.ErrRepayDateAfterDue},
		{"repayment negative", func(f *service.LineFacts) {
			f.RepaymentDate = dayPtr(2024, time.April, 20)
			f.RepaymentAmt = amt("-1")
		}, domain.ErrRepayAmtNotPositive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := base()
			tt.mutate(&f)
			err := service.ValidateLine(f, now)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateLine_FirstViolationWins(t *testing.T) {
	now := day(2024, time.June, 1)
	f := service.LineFacts{
		InvoiceDate:        day(2024, time.July, 1),
		InvoiceAmt:         amt("100"),
		FinanceRequestDate: dayPtr(2024, time.June, 30),
	}

	// Both the invoice and finance dates are wrong; the invoice date rule runs first.
	assert.ErrorIs(t, service.ValidateLine(f, now), domain.ErrInvoiceDateInFuture)
}

func TestValidateLine_SameDayIsNotFuture(t *testing.T) {
	now := time.Date(2024, time.June, 1, 15, 0, 0, 0, domain.IST)
	f := service.LineFacts{InvoiceDate: day(2024, time.June, 1), InvoiceAmt: amt("100")}

	assert.NoError(t, service.ValidateLine(f, now))
}
