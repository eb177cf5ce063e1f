package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"invoicefin/internal/port"
)

type settlementRepo struct {
	db *sqlx.DB
}

// NewSettlementRepo creates a new PostgreSQL-backed SettlementRepository.
func NewSettlementRepo(db *sqlx.DB) port.SettlementRepository {
	return &settlementRepo{db: db}
}

func (r *settlementRepo) EnsureLenderAssociation(ctx context.Context, invoiceID int64, lenderCode string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO lender_invoice_association (invoice_id, lender_id)
		 SELECT $1, ld.id FROM lender_details ld
		 WHERE ld.code = $2
		   AND NOT EXISTS (
		     SELECT 1 FROM lender_invoice_association lia
		     WHERE lia.invoice_id = $1 AND lia.lender_id = ld.id)`,
		invoiceID, lenderCode)
	if err != nil {
		return fmt.Errorf("settlementRepo.EnsureLenderAssociation: %w", err)
	}
	return nil
}

func (r *settlementRepo) ClearLender(ctx context.Context, invoiceID int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE lender_invoice_association SET lender_id = NULL WHERE invoice_id = $1", invoiceID)
	if err != nil {
		return fmt.Errorf("settlementRepo.ClearLender: %w", err)
	}
	return nil
}

func (r *settlementRepo) AddDisbursement(ctx context.Context, invoiceID int64, amount decimal.Decimal, eventDate time.Time) (decimal.Decimal, error) {
	total, err := r.addEvent(ctx, "disbursed_history", invoiceID, amount, eventDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("settlementRepo.AddDisbursement: %w", err)
	}
	return total, nil
}

func (r *settlementRepo) AddRepayment(ctx context.Context, invoiceID int64, amount decimal.Decimal, eventDate time.Time) (decimal.Decimal, error) {
	total, err := r.addEvent(ctx, "repayment_history", invoiceID, amount, eventDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("settlementRepo.AddRepayment: %w", err)
	}
	return total, nil
}

func (r *settlementRepo) addEvent(ctx context.Context, table string, invoiceID int64, amount decimal.Decimal, eventDate time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" (invoice_id, amount, event_date) VALUES ($1, $2, $3)",
			invoiceID, amount, eventDate); err != nil {
			return err
		}
		return tx.GetContext(ctx, &total,
			"SELECT COALESCE(SUM(amount), 0) FROM "+table+" WHERE invoice_id = $1", invoiceID)
	})
	return total, err
}
