package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"invoicefin/internal/domain"
	"invoicefin/internal/port"
)

// Tables holding rows that point at either a live or an archived invoice
// through the invoice_id / old_invoice_id column pair.
var satelliteTables = []string{
	"invoice_encrypted_data",
	"lender_invoice_association",
	"disbursed_history",
	"repayment_history",
}

type archiveRepo struct {
	db *sqlx.DB
}

// NewArchiveRepo creates a new PostgreSQL-backed ArchiveRepository.
func NewArchiveRepo(db *sqlx.DB) port.ArchiveRepository {
	return &archiveRepo{db: db}
}

func (r *archiveRepo) ListCandidates(ctx context.Context, updatedBefore time.Time, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids,
		"SELECT id FROM invoice WHERE updated_at <= $1 ORDER BY id LIMIT $2", updatedBefore, limit)
	if err != nil {
		return nil, fmt.Errorf("archiveRepo.ListCandidates: %w", err)
	}
	return ids, nil
}

func (r *archiveRepo) Archive(ctx context.Context, invoiceID int64) (int64, error) {
	var oldID int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// Ledger locks come before the row lock, the order cancellation takes them in.
		if _, err := tx.ExecContext(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended('ledger:' || ledger_id::text, 0))
			 FROM (SELECT ledger_id FROM invoice_ledger_association WHERE invoice_id = $1 ORDER BY ledger_id) l`,
			invoiceID); err != nil {
			return fmt.Errorf("lock ledgers: %w", err)
		}
		inv, err := lockInvoice(ctx, tx, "invoice", invoiceID)
		if err != nil {
			return err
		}
		if oldID, err = copyInvoice(ctx, tx, "old_invoice", inv); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO old_invoice_ledger_association (old_invoice_id, ledger_id)
			 SELECT $1, ledger_id FROM invoice_ledger_association WHERE invoice_id = $2
			 ON CONFLICT (old_invoice_id, ledger_id) DO NOTHING`, oldID, invoiceID); err != nil {
			return fmt.Errorf("copy ledger links: %w", err)
		}
		if _, err := repointSatellites(ctx, tx, "invoice_id", "old_invoice_id", invoiceID, oldID); err != nil {
			return err
		}
		// Ledger links of the live row cascade with it.
		if _, err := tx.ExecContext(ctx, "DELETE FROM invoice WHERE id = $1", invoiceID); err != nil {
			return fmt.Errorf("delete live row: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("archiveRepo.Archive %d: %w", invoiceID, err)
	}
	return oldID, nil
}

func (r *archiveRepo) Restore(ctx context.Context, oldInvoiceID int64) (int64, error) {
	var newID int64
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		inv, err := lockInvoice(ctx, tx, "old_invoice", oldInvoiceID)
		if err != nil {
			return err
		}
		if newID, err = copyInvoice(ctx, tx, "invoice", inv); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO invoice_ledger_association (invoice_id, ledger_id)
			 SELECT $1, ledger_id FROM old_invoice_ledger_association WHERE old_invoice_id = $2
			 ON CONFLICT (invoice_id, ledger_id) DO NOTHING`, newID, oldInvoiceID); err != nil {
			return fmt.Errorf("copy ledger links: %w", err)
		}
		moved, err := repointSatellites(ctx, tx, "old_invoice_id", "invoice_id", oldInvoiceID, newID)
		if err != nil {
			return err
		}
		if moved["lender_invoice_association"] == 0 {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO lender_invoice_association (invoice_id) VALUES ($1)", newID); err != nil {
				return fmt.Errorf("create lender association: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM old_invoice WHERE id = $1", oldInvoiceID); err != nil {
			return fmt.Errorf("delete archived row: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("archiveRepo.Restore %d: %w", oldInvoiceID, err)
	}
	return newID, nil
}

func lockInvoice(ctx context.Context, tx *sqlx.Tx, table string, id int64) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := tx.GetContext(ctx, &inv,
		"SELECT "+invoiceColumns+" FROM "+table+" WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("lock %s: %w", table, err)
	}
	return &inv, nil
}

// copyInvoice inserts inv into table keeping its timestamps and returns the new id.
func copyInvoice(ctx context.Context, tx *sqlx.Tx, table string, inv *domain.Invoice) (int64, error) {
	var id int64
	err := tx.QueryRowxContext(ctx,
		`INSERT INTO `+table+` (invoice_no, invoice_date, invoice_due_date, invoice_amt, invoice_hash,
		     funded_amt, gst_status, fund_status, financial_year, status, is_active, extra_data,
		     created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id`,
		inv.InvoiceNo, inv.InvoiceDate, inv.InvoiceDueDate, inv.InvoiceAmt, inv.InvoiceHash,
		inv.FundedAmt, inv.GSTStatus, inv.FundStatus, inv.FinancialYear, inv.Status, inv.IsActive,
		inv.ExtraData, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("copy into %s: %w", table, err)
	}
	return id, nil
}

func repointSatellites(ctx context.Context, tx *sqlx.Tx, fromCol, toCol string, fromID, toID int64) (map[string]int64, error) {
	moved := make(map[string]int64, len(satelliteTables))
	for _, table := range satelliteTables {
		result, err := tx.ExecContext(ctx,
			"UPDATE "+table+" SET "+toCol+" = $1, "+fromCol+" = NULL WHERE "+fromCol+" = $2", toID, fromID)
		if err != nil {
			return nil, fmt.Errorf("repoint %s: %w", table, err)
		}
		moved[table], _ = result.RowsAffected()
	}
	return moved, nil
}
