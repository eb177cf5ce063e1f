package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"invoicefin/internal/domain"
)

// LineFacts holds the dated and monetary facts of one request line that the
// lifecycle rules inspect. Optional dates are nil when absent from the request.
type LineFacts struct {
	InvoiceDate        time.Time
	InvoiceAmt         decimal.Decimal
	DueDate            *time.Time
	FinanceRequestDate *time.Time
	FinanceRequestAmt  decimal.Decimal
	AdjustmentType     string
	AdjustmentAmt      decimal.Decimal
	DisbursedDate      *time.Time
	DisbursedAmt       decimal.Decimal
	RepaymentDate      *time.Time
	RepaymentAmt       decimal.Decimal
}

// ValidateLine applies the cross-field date and amount rules in a fixed order
// and returns the first violated rule as a domain error.
func ValidateLine(f LineFacts, now time.Time) error {
	if f.InvoiceDate.After(now) {
		return domain.ErrInvoiceDateInFuture
	}

	if f.FinanceRequestDate != nil {
		switch {
		case f.FinanceRequestDate.Before(f.InvoiceDate):
			return domain.ErrFinanceDateBeforeInvoice
		case f.FinanceRequestDate.After(now):
			return domain.ErrFinanceDateInFuture
		case f.DueDate != nil && f.DueDate.Before(*f.FinanceRequestDate):
			return domain.ErrDueDateBeforeFinanceDate
		case f.FinanceRequestAmt.GreaterThan(f.InvoiceAmt):
			return domain.ErrFinanceAmtAboveInvoice
		case strings.EqualFold(f.AdjustmentType, "none") && !f.AdjustmentAmt.IsZero():
			return domain.ErrAdjustmentNotAllowed
		}
	}

	if f.DueDate != nil && f.DueDate.Before(f.InvoiceDate) {
		return domain.ErrDueDateBeforeInvoiceDate
	}

	if f.DisbursedDate != nil {
		switch {
		case f.DisbursedDate.Before(f.InvoiceDate):
			return domain.ErrDisburseDateBeforeInvoice
		case f.DueDate != nil && f.DisbursedDate.After(*f.DueDate):
			return domain.ErrDisburseDateAfterDue
		case f.DisbursedDate.After(now):
			return domain.ErrDisburseDateInFuture
		case !f.DisbursedAmt.IsPositive():
			return domain.ErrDisburseAmtNotPositive
		}
	}

	if f.RepaymentDate != nil {
		switch {
		case f.RepaymentDate.Before(f.InvoiceDate):
			return domain.ErrRepayDateBeforeInvoice
		case f.RepaymentDate.After(now):
			return domain.ErrRepayDateInFuture
		case f.DueDate != nil && f.DueDate.Before(*f.RepaymentDate):
			return domain.ErrRepayDateAfterDue
		case !f.RepaymentAmt.IsPositive():
			return domain.ErrRepayAmtNotPositive
		}
	}
	return nil
}

// parseOptionalDate parses a dd/mm/yyyy date, returning nil for blank input.
func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// disbursementStatus compares the cumulative disbursed amount with the funded amount.
func disbursementStatus(cumulative, funded decimal.Decimal) domain.InvoiceStatus {
	if cumulative.GreaterThanOrEqual(funded) {
		return domain.InvoiceStatusFullDisbursed
	}
	return domain.InvoiceStatusPartialDisbursed
}

// repaymentStatus compares the cumulative repaid amount with the amount owed.
func repaymentStatus(cumulative, owed decimal.Decimal) domain.InvoiceStatus {
	if cumulative.GreaterThanOrEqual(owed) {
		return domain.InvoiceStatusFullPaid
	}
	return domain.InvoiceStatusPartialPaid
}
