package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"invoicefin/internal/domain"
	"invoicefin/internal/port"
)

const ledgerColumns = `id, merchant_id, ledger_id, invoice_count, ledger_hash, status,
	is_active, extra_data, created_at, updated_at`

type ledgerRepo struct {
	db *sqlx.DB
}

// NewLedgerRepo creates a new PostgreSQL-backed LedgerRepository.
func NewLedgerRepo(db *sqlx.DB) port.LedgerRepository {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) Create(ctx context.Context, l *domain.Ledger) error {
	if l.ExtraData == nil {
		l.ExtraData = domain.JSONMap{}
	}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO ledger (merchant_id, invoice_count, status, extra_data)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, is_active, created_at, updated_at`,
		l.MerchantID, l.InvoiceCount, l.Status, l.ExtraData,
	).Scan(&l.ID, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("ledgerRepo.Create: %w", err)
	}
	return nil
}

func (r *ledgerRepo) SetLedgerNo(ctx context.Context, id int64, ledgerNo string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE ledger SET ledger_id = $1, updated_at = now() WHERE id = $2", ledgerNo, id)
	if err != nil {
		return fmt.Errorf("ledgerRepo.SetLedgerNo: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrLedgerNotFound
	}
	return nil
}

func (r *ledgerRepo) HashExists(ctx context.Context, hash string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		"SELECT EXISTS (SELECT 1 FROM ledger WHERE ledger_hash = $1)", hash)
	if err != nil {
		return false, fmt.Errorf("ledgerRepo.HashExists: %w", err)
	}
	return exists, nil
}

func (r *ledgerRepo) SetHash(ctx context.Context, id int64, hash string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE ledger SET ledger_hash = $1, updated_at = now() WHERE id = $2", hash, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateLedger
		}
		return fmt.Errorf("ledgerRepo.SetHash: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrLedgerNotFound
	}
	return nil
}

func (r *ledgerRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM ledger WHERE id = $1", id); err != nil {
		return fmt.Errorf("ledgerRepo.Delete: %w", err)
	}
	return nil
}

func (r *ledgerRepo) GetByLedgerNo(ctx context.Context, merchantID int64, ledgerNo string) (*domain.Ledger, error) {
	var l domain.Ledger
	err := r.db.GetContext(ctx, &l,
		"SELECT "+ledgerColumns+" FROM ledger WHERE ledger_id = $1 AND merchant_id = $2",
		ledgerNo, merchantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLedgerNotFound
		}
		return nil, fmt.Errorf("ledgerRepo.GetByLedgerNo: %w", err)
	}
	return &l, nil
}

func (r *ledgerRepo) GetByLedgerNoAndGrouping(ctx context.Context, merchantID int64, ledgerNo, groupingID string) (*domain.Ledger, error) {
	var l domain.Ledger
	err := r.db.GetContext(ctx, &l,
		`SELECT `+ledgerColumns+` FROM ledger
		 WHERE ledger_id = $1 AND merchant_id = $2
		   AND extra_data @> jsonb_build_object('groupingId', $3::text)`,
		ledgerNo, merchantID, groupingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGroupingNotFound
		}
		return nil, fmt.Errorf("ledgerRepo.GetByLedgerNoAndGrouping: %w", err)
	}
	return &l, nil
}

func (r *ledgerRepo) UpdateStatus(ctx context.Context, id int64, status domain.LedgerStatus, extra domain.JSONMap) error {
	if extra == nil {
		extra = domain.JSONMap{}
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE ledger SET status = $1, extra_data = COALESCE(extra_data, '{}'::jsonb) || $2::jsonb,
		 updated_at = now() WHERE id = $3`,
		status, extra, id)
	if err != nil {
		return fmt.Errorf("ledgerRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrLedgerNotFound
	}
	return nil
}

func (r *ledgerRepo) LinkedInvoices(ctx context.Context, ledgerID int64) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.SelectContext(ctx, &invoices,
		`SELECT `+prefixed("i", invoiceColumns)+` FROM invoice i
		 INNER JOIN invoice_ledger_association ila ON ila.invoice_id = i.id
		 WHERE ila.ledger_id = $1 ORDER BY i.id`, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("ledgerRepo.LinkedInvoices: %w", err)
	}
	return invoices, nil
}

type ledgerMemberRow struct {
	ID         int64  `db:"id"`
	Archived   bool   `db:"archived"`
	InvoiceNo  string `db:"invoice_no"`
	FundStatus bool   `db:"fund_status"`
}

func (r *ledgerRepo) FundedMembers(ctx context.Context, ledgerID int64) ([]domain.LedgerMember, error) {
	var rows []ledgerMemberRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT i.id, false AS archived, i.invoice_no, i.fund_status
		 FROM ledger l
		 INNER JOIN invoice_ledger_association ila ON ila.ledger_id = l.id
		 INNER JOIN invoice i ON i.id = ila.invoice_id
		 WHERE l.id = $1 AND l.status = 'funded'
		 UNION ALL
		 SELECT oi.id, true AS archived, oi.invoice_no, oi.fund_status
		 FROM ledger l
		 INNER JOIN old_invoice_ledger_association oila ON oila.ledger_id = l.id
		 INNER JOIN old_invoice oi ON oi.id = oila.old_invoice_id
		 WHERE l.id = $1 AND l.status = 'funded'
		 ORDER BY archived, id`, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("ledgerRepo.FundedMembers: %w", err)
	}

	members := make([]domain.LedgerMember, 0, len(rows))
	for _, row := range rows {
		ref := domain.LiveRef(row.ID)
		if row.Archived {
			ref = domain.ArchivedRef(row.ID)
		}
		members = append(members, domain.LedgerMember{Ref: ref, InvoiceNo: row.InvoiceNo, FundStatus: row.FundStatus})
	}
	return members, nil
}

func (r *ledgerRepo) Snapshot(ctx context.Context, ledgerID int64) ([]domain.InvoiceSnapshot, error) {
	var snapshot []domain.InvoiceSnapshot
	err := r.db.SelectContext(ctx, &snapshot,
		`SELECT i.id AS invoice_id, i.invoice_no,
		        CASE WHEN i.fund_status THEN 'Funded' ELSE 'Non Funded' END AS invoice_status,
		        i.invoice_amt, i.invoice_date,
		        COALESCE(i.gst_status, false) AS gst_verification_status,
		        COALESCE(i.funded_amt::text, '') AS funded_amt,
		        COALESCE(i.extra_data->'buyerIdentifierData', '[]'::jsonb) AS buyer_identifier_data,
		        COALESCE(i.extra_data->'sellerIdentifierData', '[]'::jsonb) AS seller_identifier_data
		 FROM invoice i
		 INNER JOIN invoice_ledger_association ila ON ila.invoice_id = i.id
		 WHERE ila.ledger_id = $1
		 ORDER BY i.id`, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("ledgerRepo.Snapshot: %w", err)
	}
	return snapshot, nil
}

func (r *ledgerRepo) WithLock(ctx context.Context, ledgerID int64, fn func(ctx context.Context) error) error {
	conn, err := r.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("ledgerRepo.WithLock: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock("+ledgerLockKey+")", ledgerID); err != nil {
		return fmt.Errorf("ledgerRepo.WithLock %d: %w", ledgerID, err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock("+ledgerLockKey+")", ledgerID); err != nil {
			// A connection still holding the lock must not go back to the pool.
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}
	}()
	return fn(ctx)
}
