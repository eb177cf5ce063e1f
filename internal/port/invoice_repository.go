package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"invoicefin/internal/domain"
)

// InvoiceRepository defines persistence operations for live invoices.
type InvoiceRepository interface {
	// FindOrCreate returns the invoice matching key, or inserts candidate
	// together with its encrypted data row. The check and the insert are
	// serialized on the natural key. An incomplete key never matches, so
	// candidate is always inserted. created reports whether candidate was inserted.
	FindOrCreate(ctx context.Context, key domain.NaturalKey, candidate *domain.Invoice, asOf time.Time) (inv *domain.Invoice, created bool, err error)
	// LinkLedger is idempotent.
	LinkLedger(ctx context.Context, invoiceID, ledgerID int64) error
	GetByRef(ctx context.Context, ref domain.InvoiceRef) (*domain.Invoice, error)
	FindLedgerLine(ctx context.Context, ledgerID int64, invoiceNo string, amount decimal.Decimal, financialYear string, asOf time.Time) (*domain.Invoice, error)
	FindByLedgerAndNo(ctx context.Context, ledgerID int64, invoiceNo string) (*domain.Invoice, error)
	MarkFunded(ctx context.Context, update domain.FundingUpdate) error
	// ResetFunding clears funding on a live invoice and removes merchantID from
	// its financier history.
	ResetFunding(ctx context.Context, invoiceID, merchantID int64) error
	UpdateStatus(ctx context.Context, invoiceID int64, status domain.InvoiceStatus) error
	SetGSTStatus(ctx context.Context, invoiceID int64, verified bool) error
	SetGSTStatusByEWB(ctx context.Context, ewbNo string, verified bool) error
	LatestByEWB(ctx context.Context, ewbNo string) (*domain.Invoice, error)
}

// ArchiveRepository moves invoices between the live and archived table sets.
// Each move runs in a single transaction.
type ArchiveRepository interface {
	ListCandidates(ctx context.Context, updatedBefore time.Time, limit int) ([]int64, error)
	Archive(ctx context.Context, invoiceID int64) (oldInvoiceID int64, err error)
	Restore(ctx context.Context, oldInvoiceID int64) (invoiceID int64, err error)
}

// SettlementRepository records lender links, disbursements and repayments.
type SettlementRepository interface {
	EnsureLenderAssociation(ctx context.Context, invoiceID int64, lenderCode string) error
	ClearLender(ctx context.Context, invoiceID int64) error
	// AddDisbursement returns the cumulative disbursed amount after insertion.
	AddDisbursement(ctx context.Context, invoiceID int64, amount decimal.Decimal, eventDate time.Time) (decimal.Decimal, error)
	// AddRepayment returns the cumulative repaid amount after insertion.
	AddRepayment(ctx context.Context, invoiceID int64, amount decimal.Decimal, eventDate time.Time) (decimal.Decimal, error)
}
