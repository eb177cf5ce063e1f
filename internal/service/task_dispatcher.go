package service

import (
	"context"
	"fmt"

	"invoicefin/internal/domain"
)

// Task is one unit of async work accepted from a merchant or a hub.
type Task struct {
	Flag             domain.TaskFlag
	RequestID        string
	Merchant         *domain.Merchant
	Body             []byte
	PostProcessingID int64
}

// TaskHandler executes a task of one flag.
type TaskHandler func(ctx context.Context, task *Task) error

// TaskDispatcher routes tasks to the handler registered for their flag.
type TaskDispatcher struct {
	handlers map[domain.TaskFlag]TaskHandler
}

// NewTaskDispatcher creates a dispatcher. It fails when any flag in
// domain.AllTaskFlags has no handler.
func NewTaskDispatcher(handlers map[domain.TaskFlag]TaskHandler) (*TaskDispatcher, error) {
	table := make(map[domain.TaskFlag]TaskHandler, len(handlers))
	for _, flag := range domain.AllTaskFlags {
		h, ok := handlers[flag]
		if !ok || h == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingTaskFlag, flag)
		}
		table[flag] = h
	}
	return &TaskDispatcher{handlers: table}, nil
}

// Dispatch runs the handler for task.Flag.
func (d *TaskDispatcher) Dispatch(ctx context.Context, task *Task) error {
	h, ok := d.handlers[task.Flag]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownTaskFlag, task.Flag)
	}
	return h(ctx, task)
}

// Flags lists the flags the dispatcher handles.
func (d *TaskDispatcher) Flags() []domain.TaskFlag {
	flags := make([]domain.TaskFlag, 0, len(d.handlers))
	for _, f := range domain.AllTaskFlags {
		if _, ok := d.handlers[f]; ok {
			flags = append(flags, f)
		}
	}
	return flags
}
