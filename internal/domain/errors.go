package domain

import (
	"errors"
	"fmt"
)

// Code is a stable numeric result code returned in every response envelope.
type Code int

const (
	CodeOK                       Code = 200
	CodeBadRequest               Code = 400
	CodeInternal                 Code = 500
	CodeSignatureMismatch        Code = 1001
	CodeMerchantNotFound         Code = 1002
	CodeDuplicateLedger          Code = 1003
	CodeLedgerFunded             Code = 1004
	CodeLedgerNotFunded          Code = 1005
	CodeNothingToCancel          Code = 1006
	CodeLedgerNotFound           Code = 1007
	CodeDuplicateRequestID       Code = 1009
	CodeInvoiceCountMismatch     Code = 1010
	CodeInvoiceNotFound          Code = 1011
	CodeFinanced                 Code = 1013
	CodeInvoiceDateInFuture      Code = 1016
	CodeRequestAccepted          Code = 1023
	CodeDueDateBeforeInvoice     Code = 1025
	CodeFinancingAccepted        Code = 1028
	CodeDisbursementAccepted     Code = 1029
	CodeRepaymentAccepted        Code = 1033
	CodeFinanceDateBeforeInvoice Code = 1037
	CodeDisburseDateBeforeInv    Code = 1039
	CodeDisburseDateAfterDue     Code = 1040
	CodeRepayDateBeforeInvoice   Code = 1041
	CodeInvoiceNotFunded         Code = 1042
	CodeInvoiceNotDisbursed      Code = 1043
	CodeLedgerStatusAccepted     Code = 1050
	CodeDuplicateHubRequestID    Code = 1070
	CodeFinanceDateInFuture      Code = 1072
	CodeDisburseDateInFuture     Code = 1073
	CodeRepayDateInFuture        Code = 1074
	CodeRepayDateAfterDue        Code = 1079
	CodeDueDateBeforeFinanceDate Code = 1080
	CodeFinanceAmtAboveInvoice   Code = 1094
	CodeAdjustmentNotAllowed     Code = 1098
	CodeDisburseAmtNotPositive   Code = 1112
	CodeRepayAmtNotPositive      Code = 1113
	CodeGroupingNotFound         Code = 1119
)

var codeMessages = map[Code]string{
	CodeOK:                       "success",
	CodeBadRequest:               "invalid request",
	CodeInternal:                 "an internal error occurred",
	CodeSignatureMismatch:        "signature validation failed",
	CodeMerchantNotFound:         "merchant not found",
	CodeDuplicateLedger:          "ledger already registered with the same invoices",
	CodeLedgerFunded:             "ledger is already funded",
	CodeLedgerNotFunded:          "ledger is not funded",
	CodeNothingToCancel:          "ledger has no funded invoices to cancel",
	CodeLedgerNotFound:           "ledger not found",
	CodeDuplicateRequestID:       "duplicate request id",
	CodeInvoiceCountMismatch:     "invoice count does not match the ledger",
	CodeInvoiceNotFound:          "invoice not found",
	CodeFinanced:                 "ledger financed successfully",
	CodeInvoiceDateInFuture:      "invoice date cannot be in the future",
	CodeRequestAccepted:          "request accepted, result will be sent by webhook",
	CodeDueDateBeforeInvoice:     "due date cannot be before invoice date",
	CodeFinancingAccepted:        "financing request accepted, result will be sent by webhook",
	CodeDisbursementAccepted:     "disbursement request accepted, result will be sent by webhook",
	CodeRepaymentAccepted:        "repayment request accepted, result will be sent by webhook",
	CodeFinanceDateBeforeInvoice: "finance request date cannot be before invoice date",
	CodeDisburseDateBeforeInv:    "disbursed date cannot be before invoice date",
	CodeDisburseDateAfterDue:     "disbursed date cannot be after due date",
	CodeRepayDateBeforeInvoice:   "repayment date cannot be before invoice date",
	CodeInvoiceNotFunded:         "invoice is not funded",
	CodeInvoiceNotDisbursed:      "invoice is not disbursed",
	CodeLedgerStatusAccepted:     "ledger status request accepted, result will be sent by webhook",
	CodeDuplicateHubRequestID:    "duplicate hub request id",
	CodeFinanceDateInFuture:      "finance request date cannot be in the future",
	CodeDisburseDateInFuture:     "disbursed date cannot be in the future",
	CodeRepayDateInFuture:        "repayment date cannot be in the future",
	CodeRepayDateAfterDue:        "repayment date cannot be after due date",
	CodeDueDateBeforeFinanceDate: "due date cannot be before finance request date",
	CodeFinanceAmtAboveInvoice:   "finance request amount cannot exceed invoice amount",
	CodeAdjustmentNotAllowed:     "adjustment amount must be zero when adjustment type is none",
	CodeDisburseAmtNotPositive:   "disbursed amount must be greater than zero",
	CodeRepayAmtNotPositive:      "repayment amount must be greater than zero",
	CodeGroupingNotFound:         "ledger not found for grouping id",
}

// Message returns the human readable message for a code.
func (c Code) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return fmt.Sprintf("code %d", int(c))
}

// Error is a domain failure carrying a stable result code.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(code Code) *Error {
	return &Error{Code: code, Message: code.Message()}
}

var (
	ErrInvalidRequest            = newError(CodeBadRequest)
	ErrSignatureMismatch         = newError(CodeSignatureMismatch)
	ErrMerchantNotFound          = newError(CodeMerchantNotFound)
	ErrDuplicateLedger           = newError(CodeDuplicateLedger)
	ErrLedgerFunded              = newError(CodeLedgerFunded)
	ErrNothingToCancel           = newError(CodeNothingToCancel)
	ErrLedgerNotFound            = newError(CodeLedgerNotFound)
	ErrDuplicateRequestID        = newError(CodeDuplicateRequestID)
	ErrInvoiceCountMismatch      = newError(CodeInvoiceCountMismatch)
	ErrInvoiceNotFound           = newError(CodeInvoiceNotFound)
	ErrInvoiceDateInFuture       = newError(CodeInvoiceDateInFuture)
	ErrDueDateBeforeInvoiceDate  = newError(CodeDueDateBeforeInvoice)
	ErrFinanceDateBeforeInvoice  = newError(CodeFinanceDateBeforeInvoice)
	ErrDisburseDateBeforeInvoice = newError(CodeDisburseDateBeforeInv)
	ErrDisburseDateAfterDue      = newError(CodeDisburseDateAfterDue)
	ErrRepayDateBeforeInvoice    = newError(CodeRepayDateBeforeInvoice)
	ErrInvoiceNotFunded          = newError(CodeInvoiceNotFunded)
	ErrInvoiceNotDisbursed       = newError(CodeInvoiceNotDisbursed)
	ErrDuplicateHubRequestID     = newError(CodeDuplicateHubRequestID)
	ErrFinanceDateInFuture       = newError(CodeFinanceDateInFuture)
	ErrDisburseDateInFuture      = newError(CodeDisburseDateInFuture)
	ErrRepayDateInFuture         = newError(CodeRepayDateInFuture)
	ErrRepayDateAfterDue         = newError(CodeRepayDateAfterDue)
	ErrDueDateBeforeFinanceDate  = newError(CodeDueDateBeforeFinanceDate)
	ErrFinanceAmtAboveInvoice    = newError(CodeFinanceAmtAboveInvoice)
	ErrAdjustmentNotAllowed      = newError(CodeAdjustmentNotAllowed)
	ErrDisburseAmtNotPositive    = newError(CodeDisburseAmtNotPositive)
	ErrRepayAmtNotPositive       = newError(CodeRepayAmtNotPositive)
	ErrGroupingNotFound          = newError(CodeGroupingNotFound)
)

var (
	ErrTaskNotFound     = errors.New("gsp task not found")
	ErrGSPUserNotFound  = errors.New("gsp user not found")
	ErrCacheMiss        = errors.New("cache miss")
	ErrMissingTaskFlag  = errors.New("task handler missing for flag")
	ErrUnknownTaskFlag  = errors.New("unknown task flag")
	ErrProviderResponse = errors.New("gsp provider returned an error")
)

// CodeOf extracts the result code of err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
