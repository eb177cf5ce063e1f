package port

import (
	"context"

	"invoicefin/internal/domain"
)

// GSPUserRepository reads GSP credentials.
type GSPUserRepository interface {
	ListByGSTIN(ctx context.Context, gstin string) ([]domain.GSPUser, error)
	GetByID(ctx context.Context, id int64) (*domain.GSPUser, error)
}

// VayanaTaskRepository tracks outstanding GSP verification tasks.
type VayanaTaskRepository interface {
	// CreateIfAbsent inserts the task unless the same task id is already
	// recorded for the user.
	CreateIfAbsent(ctx context.Context, task *domain.VayanaTask) error
	ListPending(ctx context.Context) ([]domain.VayanaTask, error)
	ListDownloadable(ctx context.Context) ([]domain.VayanaTask, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	MarkDownloaded(ctx context.Context, id int64) error
}
