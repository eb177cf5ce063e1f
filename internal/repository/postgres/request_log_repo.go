package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"invoicefin/internal/domain"
	"invoicefin/internal/port"
)

type requestLogRepo struct {
	db       *sqlx.DB
	table    string
	withHub  bool
	errOnDup error
}

// NewRequestLogRepo creates a repository over api_request_log, rejecting
// reused merchant request ids with domain.ErrDuplicateRequestID.
func NewRequestLogRepo(db *sqlx.DB) port.RequestLogRepository {
	return &requestLogRepo{db: db, table: "api_request_log", errOnDup: domain.ErrDuplicateRequestID}
}

// NewHubRequestLogRepo creates a repository over hub_request_log, rejecting
// reused hub request ids with domain.ErrDuplicateHubRequestID.
func NewHubRequestLogRepo(db *sqlx.DB) port.RequestLogRepository {
	return &requestLogRepo{db: db, table: "hub_request_log", withHub: true, errOnDup: domain.ErrDuplicateHubRequestID}
}

func (r *requestLogRepo) Create(ctx context.Context, e *domain.RequestLog) error {
	if e.RequestData == nil {
		e.RequestData = domain.JSONMap{}
	}
	query := `INSERT INTO ` + r.table + ` (request_id, api_url, request_data, merchant_id)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at, updated_at`
	args := []any{e.RequestID, e.APIURL, e.RequestData, e.MerchantID}
	if r.withHub {
		query = `INSERT INTO ` + r.table + ` (request_id, api_url, request_data, merchant_id, hub_id)
			VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
		args = append(args, e.HubID)
	}

	err := r.db.QueryRowxContext(ctx, query, args...).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return r.errOnDup
		}
		return fmt.Errorf("requestLogRepo.Create %s: %w", r.table, err)
	}
	return nil
}

func (r *requestLogRepo) SetResponse(ctx context.Context, requestID string, response domain.JSONMap) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE "+r.table+" SET response_data = $1, updated_at = now() WHERE request_id = $2",
		response, requestID)
	if err != nil {
		return fmt.Errorf("requestLogRepo.SetResponse %s: %w", r.table, err)
	}
	return nil
}

type postProcessingRepo struct {
	db *sqlx.DB
}

// NewPostProcessingRepo creates a new PostgreSQL-backed PostProcessingRepository.
func NewPostProcessingRepo(db *sqlx.DB) port.PostProcessingRepository {
	return &postProcessingRepo{db: db}
}

func (r *postProcessingRepo) Create(ctx context.Context, p *domain.PostProcessingRequest) error {
	if p.RequestExtraData == nil {
		p.RequestExtraData = domain.JSONMap{}
	}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO post_processing_request (request_id, request_extra_data, merchant_id, type, extra_data)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`,
		p.RequestID, p.RequestExtraData, p.MerchantID, p.Type, p.ExtraData,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postProcessingRepo.Create: %w", err)
	}
	return nil
}

func (r *postProcessingRepo) SetAPIResponse(ctx context.Context, id int64, response domain.JSONMap) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE post_processing_request SET api_response = $1, updated_at = now() WHERE id = $2",
		response, id)
	if err != nil {
		return fmt.Errorf("postProcessingRepo.SetAPIResponse: %w", err)
	}
	return nil
}

func (r *postProcessingRepo) RecordWebhook(ctx context.Context, requestID, status string, response domain.JSONMap) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE post_processing_request
		 SET webhook_response = $1,
		     extra_data = COALESCE(extra_data, '{}'::jsonb) || jsonb_build_object('webhook_status', $2::text),
		     updated_at = now()
		 WHERE id = (SELECT id FROM post_processing_request WHERE request_id = $3 ORDER BY id DESC LIMIT 1)`,
		response, status, requestID)
	if err != nil {
		return fmt.Errorf("postProcessingRepo.RecordWebhook: %w", err)
	}
	return nil
}

func (r *postProcessingRepo) HubTransactionsSince(ctx context.Context, since time.Time) ([]domain.HubTransaction, error) {
	var txns []domain.HubTransaction
	err := r.db.SelectContext(ctx, &txns,
		`SELECT COALESCE(request_extra_data->>'txnCode', '') AS txn_code,
		        COALESCE(request_extra_data->>'correlationId', '') AS correlation_id,
		        COALESCE(extra_data->>'webhook_status', '') AS status
		 FROM post_processing_request
		 WHERE updated_at >= $1 AND request_extra_data->>'correlationId' IS NOT NULL
		 ORDER BY id`, since)
	if err != nil {
		return nil, fmt.Errorf("postProcessingRepo.HubTransactionsSince: %w", err)
	}
	return txns, nil
}

type misRepo struct {
	db *sqlx.DB
}

// NewMISRepo creates a new PostgreSQL-backed MISRepository.
func NewMISRepo(db *sqlx.DB) port.MISRepository {
	return &misRepo{db: db}
}

func (r *misRepo) Refresh(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "REFRESH MATERIALIZED VIEW mis_ledger_summary"); err != nil {
		return fmt.Errorf("misRepo.Refresh: %w", err)
	}
	return nil
}

func (r *misRepo) LedgerSummary(ctx context.Context) ([]domain.MISLedgerRow, error) {
	var rows []domain.MISLedgerRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT merchant_id, merchant_name, ledger_no, ledger_status, invoice_count, total_amt,
		        funded_amt, disbursed_amt, repaid_amt, gst_verified, ledger_created, last_activity_at
		 FROM mis_ledger_summary
		 ORDER BY merchant_id, ledger_created`)
	if err != nil {
		return nil, fmt.Errorf("misRepo.LedgerSummary: %w", err)
	}
	return rows, nil
}
