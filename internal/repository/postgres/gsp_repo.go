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

const gspUserColumns = `id, gstin, gsp, username, password, name, pan, email, mobile_number,
	extra_data, created_at`

type gspUserRepo struct {
	db *sqlx.DB
}

// NewGSPUserRepo creates a new PostgreSQL-backed GSPUserRepository.
func NewGSPUserRepo(db *sqlx.DB) port.GSPUserRepository {
	return &gspUserRepo{db: db}
}

func (r *gspUserRepo) ListByGSTIN(ctx context.Context, gstin string) ([]domain.GSPUser, error) {
	var users []domain.GSPUser
	err := r.db.SelectContext(ctx, &users,
		"SELECT "+gspUserColumns+" FROM gsp_user_details WHERE gstin = $1 ORDER BY id", gstin)
	if err != nil {
		return nil, fmt.Errorf("gspUserRepo.ListByGSTIN: %w", err)
	}
	return users, nil
}

func (r *gspUserRepo) GetByID(ctx context.Context, id int64) (*domain.GSPUser, error) {
	var u domain.GSPUser
	err := r.db.GetContext(ctx, &u,
		"SELECT "+gspUserColumns+" FROM gsp_user_details WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrGSPUserNotFound
		}
		return nil, fmt.Errorf("gspUserRepo.GetByID: %w", err)
	}
	return &u, nil
}

const vayanaTaskColumns = `id, task_id, user_id, task_id_status, download_status, created_at, updated_at`

type vayanaTaskRepo struct {
	db *sqlx.DB
}

// NewVayanaTaskRepo creates a new PostgreSQL-backed VayanaTaskRepository.
func NewVayanaTaskRepo(db *sqlx.DB) port.VayanaTaskRepository {
	return &vayanaTaskRepo{db: db}
}

func (r *vayanaTaskRepo) CreateIfAbsent(ctx context.Context, t *domain.VayanaTask) error {
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO vayana_task_history (task_id, user_id, task_id_status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (task_id, user_id) DO UPDATE SET task_id = EXCLUDED.task_id
		 RETURNING id, task_id_status, download_status, created_at, updated_at`,
		t.TaskID, t.UserID, t.TaskIDStatus,
	).Scan(&t.ID, &t.TaskIDStatus, &t.DownloadStatus, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("vayanaTaskRepo.CreateIfAbsent: %w", err)
	}
	return nil
}

func (r *vayanaTaskRepo) ListPending(ctx context.Context) ([]domain.VayanaTask, error) {
	var tasks []domain.VayanaTask
	err := r.db.SelectContext(ctx, &tasks,
		`SELECT `+vayanaTaskColumns+` FROM vayana_task_history
		 WHERE task_id_status IS DISTINCT FROM $1 ORDER BY id`, domain.TaskStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("vayanaTaskRepo.ListPending: %w", err)
	}
	return tasks, nil
}

func (r *vayanaTaskRepo) ListDownloadable(ctx context.Context) ([]domain.VayanaTask, error) {
	var tasks []domain.VayanaTask
	err := r.db.SelectContext(ctx, &tasks,
		`SELECT `+vayanaTaskColumns+` FROM vayana_task_history
		 WHERE task_id_status = $1 AND download_status IS NULL ORDER BY id`, domain.TaskStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("vayanaTaskRepo.ListDownloadable: %w", err)
	}
	return tasks, nil
}

func (r *vayanaTaskRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE vayana_task_history SET task_id_status = $1, updated_at = now() WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("vayanaTaskRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *vayanaTaskRepo) MarkDownloaded(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE vayana_task_history SET download_status = $1, updated_at = now() WHERE id = $2`,
		domain.TaskStatusCompleted, id)
	if err != nil {
		return fmt.Errorf("vayanaTaskRepo.MarkDownloaded: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}
