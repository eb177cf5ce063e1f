package port

import (
	"context"

	"invoicefin/internal/domain"
)

// LedgerRepository defines persistence operations for ledgers and their
// invoice links.
type LedgerRepository interface {
	Create(ctx context.Context, ledger *domain.Ledger) error
	SetLedgerNo(ctx context.Context, id int64, ledgerNo string) error
	HashExists(ctx context.Context, hash string) (bool, error)
	// SetHash returns domain.ErrDuplicateLedger when another ledger holds hash.
	SetHash(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	GetByLedgerNo(ctx context.Context, merchantID int64, ledgerNo string) (*domain.Ledger, error)
	// GetByLedgerNoAndGrouping returns domain.ErrGroupingNotFound on a miss.
	GetByLedgerNoAndGrouping(ctx context.Context, merchantID int64, ledgerNo, groupingID string) (*domain.Ledger, error)
	UpdateStatus(ctx context.Context, id int64, status domain.LedgerStatus, extra domain.JSONMap) error
	LinkedInvoices(ctx context.Context, ledgerID int64) ([]domain.Invoice, error)
	// FundedMembers lists live and archived invoices of the ledger when the
	// ledger status is funded.
	FundedMembers(ctx context.Context, ledgerID int64) ([]domain.LedgerMember, error)
	Snapshot(ctx context.Context, ledgerID int64) ([]domain.InvoiceSnapshot, error)
	// WithLock runs fn while holding the ledger's lock. Archiving an invoice
	// of the ledger waits for fn to return.
	WithLock(ctx context.Context, ledgerID int64, fn func(ctx context.Context) error) error
}
