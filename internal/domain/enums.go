package domain

// InvoiceStatus represents the lifecycle status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusFunded           InvoiceStatus = "funded"
	InvoiceStatusNonFunded        InvoiceStatus = "non_funded"
	InvoiceStatusPartialDisbursed InvoiceStatus = "partial_disbursed"
	InvoiceStatusFullDisbursed    InvoiceStatus = "full_disbursed"
	InvoiceStatusPartialPaid      InvoiceStatus = "partial_paid"
	InvoiceStatusFullPaid         InvoiceStatus = "full_paid"
)

// IsDisbursed reports whether money has reached the borrower for this status.
func (s InvoiceStatus) IsDisbursed() bool {
	switch s {
	case InvoiceStatusPartialDisbursed, InvoiceStatusFullDisbursed,
		InvoiceStatusPartialPaid, InvoiceStatusFullPaid:
		return true
	}
	return false
}

// LedgerStatus represents the aggregate status of a ledger.
type LedgerStatus string

const (
	LedgerStatusFunded    LedgerStatus = "funded"
	LedgerStatusNonFunded LedgerStatus = "non_funded"
)

// GSPProvider names a GST Suvidha Provider integration.
type GSPProvider string

const (
	GSPVayana GSPProvider = "vayana"
	GSPCygnet GSPProvider = "cygnet"
)

// TaskStatusCompleted is the terminal status of a GSP verification task.
const TaskStatusCompleted = "completed"

// Webhook delivery outcomes stored on post processing requests.
const (
	WebhookStatusSent   = "Sent"
	WebhookStatusFailed = "Failed"
)

// ValidationTypeEWB marks registration lines verified through an e-way-bill.
const ValidationTypeEWB = "EWB"

// IdentifierTypeGSTIN is the identifier type used for natural key matching.
const IdentifierTypeGSTIN = "GSTIN"

// TaskFlag identifies the kind of background task to execute.
type TaskFlag string

const (
	TaskInvoiceRegistration TaskFlag = "async_invoice_registration"
	TaskLedgerStatusCheck   TaskFlag = "ledger_status_check"
	TaskFinancing           TaskFlag = "async_financing"
	TaskDisbursement        TaskFlag = "async_disbursement"
	TaskRepayment           TaskFlag = "async_repayment"
	TaskGSPVerification     TaskFlag = "gsp_verification"
)

// AllTaskFlags lists every task flag a dispatcher must be able to handle.
var AllTaskFlags = []TaskFlag{
	TaskInvoiceRegistration,
	TaskLedgerStatusCheck,
	TaskFinancing,
	TaskDisbursement,
	TaskRepayment,
	TaskGSPVerification,
}

// AcceptanceCode returns the code answered when a task of this kind is queued.
func (f TaskFlag) AcceptanceCode() Code {
	switch f {
	case TaskFinancing:
		return CodeFinancingAccepted
	case TaskDisbursement:
		return CodeDisbursementAccepted
	case TaskRepayment:
		return CodeRepaymentAccepted
	case TaskLedgerStatusCheck:
		return CodeLedgerStatusAccepted
	default:
		return CodeRequestAccepted
	}
}
