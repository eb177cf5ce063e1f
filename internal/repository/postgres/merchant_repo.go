package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"invoicefin/internal/domain"
	"invoicefin/internal/port"
)

const merchantColumns = `id, name, merchant_key, merchant_secret, webhook_endpoint, hub_id,
	unique_id, is_active, extra_data, created_at, updated_at`

type merchantRepo struct {
	db *sqlx.DB
}

// NewMerchantRepo creates a new PostgreSQL-backed MerchantRepository.
func NewMerchantRepo(db *sqlx.DB) port.MerchantRepository {
	return &merchantRepo{db: db}
}

func (r *merchantRepo) get(ctx context.Context, op, where string, args ...any) (*domain.Merchant, error) {
	var m domain.Merchant
	err := r.db.GetContext(ctx, &m,
		"SELECT "+merchantColumns+" FROM merchant_details WHERE is_active AND "+where, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMerchantNotFound
		}
		return nil, fmt.Errorf("merchantRepo.%s: %w", op, err)
	}
	return &m, nil
}

func (r *merchantRepo) GetByKey(ctx context.Context, merchantKey string) (*domain.Merchant, error) {
	return r.get(ctx, "GetByKey", "merchant_key = $1", merchantKey)
}

func (r *merchantRepo) GetByID(ctx context.Context, id int64) (*domain.Merchant, error) {
	return r.get(ctx, "GetByID", "id = $1", id)
}

func (r *merchantRepo) GetByHubUniqueID(ctx context.Context, hubID int64, uniqueID string) (*domain.Merchant, error) {
	return r.get(ctx, "GetByHubUniqueID", "hub_id = $1 AND unique_id = $2", hubID, uniqueID)
}

type hubRepo struct {
	db *sqlx.DB
}

// NewHubRepo creates a new PostgreSQL-backed HubRepository.
func NewHubRepo(db *sqlx.DB) port.HubRepository {
	return &hubRepo{db: db}
}

func (r *hubRepo) GetByKey(ctx context.Context, hubKey string) (*domain.Hub, error) {
	var h domain.Hub
	err := r.db.GetContext(ctx, &h,
		`SELECT id, name, unique_id, hub_key, hub_secret, is_active, extra_data, created_at, updated_at
		 FROM hub WHERE hub_key = $1 AND is_active`, hubKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMerchantNotFound
		}
		return nil, fmt.Errorf("hubRepo.GetByKey: %w", err)
	}
	return &h, nil
}
