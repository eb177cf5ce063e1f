package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"invoicefin/internal/domain"
	"invoicefin/internal/port"
)

const invoiceColumns = `id, invoice_no, invoice_date, invoice_due_date, invoice_amt, invoice_hash,
	funded_amt, gst_status, fund_status, financial_year, status, is_active, extra_data,
	created_at, updated_at`

// Invoices match a ledger line within the current financial year or when they
// were created inside this window and are not dated after the lookup time.
const reuseWindow = "180 days"

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func naturalLockKey(key domain.NaturalKey) string {
	return strings.Join([]string{
		key.SellerGSTIN, key.BuyerGSTIN, key.InvoiceNo,
		key.InvoiceDate.Format("2006-01-02"), key.InvoiceAmt.String(),
	}, "|")
}

func (r *invoiceRepo) FindOrCreate(ctx context.Context, key domain.NaturalKey, candidate *domain.Invoice, asOf time.Time) (*domain.Invoice, bool, error) {
	var (
		result  *domain.Invoice
		created bool
	)
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"SELECT pg_advisory_xact_lock(hashtext($1))", naturalLockKey(key)); err != nil {
			return fmt.Errorf("lock: %w", err)
		}

		// Without both GSTINs the key identifies nothing and every line is new.
		if key.Complete() {
			var found domain.Invoice
			err := tx.GetContext(ctx, &found,
				`SELECT `+invoiceColumns+` FROM invoice
				 WHERE invoice_no = $1 AND invoice_date = $2 AND invoice_amt = $3
				   AND extra_data->'sellerIdentifierData' @> jsonb_build_array(jsonb_build_object('sellerIdType', 'GSTIN', 'sellerIdNo', $4::text))
				   AND extra_data->'buyerIdentifierData' @> jsonb_build_array(jsonb_build_object('buyerIdType', 'GSTIN', 'buyerIdNo', $5::text))
				   AND (financial_year = $6
				        OR (created_at >= $7::timestamptz - INTERVAL '`+reuseWindow+`' AND invoice_date <= $7::timestamptz))
				 ORDER BY id LIMIT 1`,
				key.InvoiceNo, key.InvoiceDate, key.InvoiceAmt, key.SellerGSTIN, key.BuyerGSTIN,
				key.FinancialYear, asOf)
			if err == nil {
				result = &found
				return nil
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("lookup: %w", err)
			}
		}

		if candidate.ExtraData == nil {
			candidate.ExtraData = domain.JSONMap{}
		}
		err := tx.QueryRowxContext(ctx,
			`INSERT INTO invoice (invoice_no, invoice_date, invoice_due_date, invoice_amt, invoice_hash,
			     gst_status, fund_status, financial_year, status, extra_data)
			 VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8, $9)
			 RETURNING id, is_active, created_at, updated_at`,
			candidate.InvoiceNo, candidate.InvoiceDate, candidate.InvoiceDueDate, candidate.InvoiceAmt,
			candidate.InvoiceHash, candidate.GSTStatus, candidate.FinancialYear, candidate.Status,
			candidate.ExtraData,
		).Scan(&candidate.ID, &candidate.IsActive, &candidate.CreatedAt, &candidate.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO invoice_encrypted_data (invoice_id, invoice_has_key) VALUES ($1, $2)",
			candidate.ID, candidate.InvoiceHash); err != nil {
			return fmt.Errorf("insert encrypted data: %w", err)
		}
		result = candidate
		created = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("invoiceRepo.FindOrCreate: %w", err)
	}
	return result, created, nil
}

func (r *invoiceRepo) LinkLedger(ctx context.Context, invoiceID, ledgerID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoice_ledger_association (invoice_id, ledger_id) VALUES ($1, $2)
		 ON CONFLICT (invoice_id, ledger_id) DO NOTHING`, invoiceID, ledgerID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.LinkLedger: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByRef(ctx context.Context, ref domain.InvoiceRef) (*domain.Invoice, error) {
	table := "invoice"
	if ref.IsArchived() {
		table = "old_invoice"
	}
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, "SELECT "+invoiceColumns+" FROM "+table+" WHERE id = $1", ref.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByRef %s: %w", ref, err)
	}
	return &inv, nil
}

func (r *invoiceRepo) FindLedgerLine(ctx context.Context, ledgerID int64, invoiceNo string, amount decimal.Decimal, financialYear string, asOf time.Time) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		`SELECT `+prefixed("i", invoiceColumns)+` FROM invoice i
		 INNER JOIN invoice_ledger_association ila ON ila.invoice_id = i.id
		 WHERE ila.ledger_id = $1 AND i.invoice_no = $2 AND i.invoice_amt = $3
		   AND (i.financial_year = $4
		        OR (i.created_at >= $5::timestamptz - INTERVAL '`+reuseWindow+`' AND i.invoice_date <= $5::timestamptz))
		 ORDER BY i.id LIMIT 1`,
		ledgerID, invoiceNo, amount, financialYear, asOf)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.FindLedgerLine: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) FindByLedgerAndNo(ctx context.Context, ledgerID int64, invoiceNo string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		`SELECT `+prefixed("i", invoiceColumns)+` FROM invoice i
		 INNER JOIN invoice_ledger_association ila ON ila.invoice_id = i.id
		 WHERE ila.ledger_id = $1 AND i.invoice_no = $2
		 ORDER BY i.id LIMIT 1`, ledgerID, invoiceNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.FindByLedgerAndNo: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) MarkFunded(ctx context.Context, u domain.FundingUpdate) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoice SET fund_status = true, funded_amt = $1, status = $2,
		     extra_data = COALESCE(extra_data, '{}'::jsonb) || jsonb_build_object(
		         'financierHistory', CASE
		             WHEN COALESCE(extra_data->'financierHistory', '[]'::jsonb) @> jsonb_build_array($3::bigint)
		             THEN extra_data->'financierHistory'
		             ELSE COALESCE(extra_data->'financierHistory', '[]'::jsonb) || jsonb_build_array($3::bigint)
		         END,
		         'financierMerchantId', $3::bigint),
		     updated_at = now()
		 WHERE id = $4`,
		u.FundedAmt, domain.InvoiceStatusFunded, u.MerchantID, u.InvoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.MarkFunded: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) ResetFunding(ctx context.Context, invoiceID, merchantID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoice SET fund_status = false, status = $1,
		     extra_data = COALESCE(extra_data, '{}'::jsonb) || jsonb_build_object(
		         'financierHistory', COALESCE((
		             SELECT jsonb_agg(e)
		             FROM jsonb_array_elements(COALESCE(extra_data->'financierHistory', '[]'::jsonb)) e
		             WHERE e <> to_jsonb($2::bigint)), '[]'::jsonb),
		         'financierMerchantId', ''),
		     updated_at = now()
		 WHERE id = $3`,
		domain.InvoiceStatusNonFunded, merchantID, invoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.ResetFunding: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, invoiceID int64, status domain.InvoiceStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE invoice SET status = $1, updated_at = now() WHERE id = $2", status, invoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) SetGSTStatus(ctx context.Context, invoiceID int64, verified bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE invoice SET gst_status = $1, updated_at = now() WHERE id = $2", verified, invoiceID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.SetGSTStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) SetGSTStatusByEWB(ctx context.Context, ewbNo string, verified bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE invoice SET gst_status = $1, updated_at = now()
		 WHERE extra_data @> jsonb_build_object('ewb_no', $2::text)`, verified, ewbNo)
	if err != nil {
		return fmt.Errorf("invoiceRepo.SetGSTStatusByEWB: %w", err)
	}
	return nil
}

func (r *invoiceRepo) LatestByEWB(ctx context.Context, ewbNo string) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		`SELECT `+invoiceColumns+` FROM invoice
		 WHERE extra_data @> jsonb_build_object('ewb_no', $1::text)
		 ORDER BY id DESC LIMIT 1`, ewbNo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.LatestByEWB: %w", err)
	}
	return &inv, nil
}
