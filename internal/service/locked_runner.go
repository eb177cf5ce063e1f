package service

import (
	"context"
	"fmt"
	"time"

	"invoicefin/internal/logger"
	"invoicefin/internal/port"
)

// LockedRunner runs a job only while holding its lock in the shared store,
// so one job instance runs at a time across processes. The lock key is the
// job name; it expires after the TTL if the holder dies.
type LockedRunner struct {
	store port.KVStore
	ttl   time.Duration
}

// NewLockedRunner creates a new LockedRunner.
func NewLockedRunner(store port.KVStore, ttl time.Duration) *LockedRunner {
	if ttl <= 0 {
		ttl = 300 * time.Second
	}
	return &LockedRunner{store: store, ttl: ttl}
}

// Run acquires the lock for name and runs fn. ran is false when another
// holder has the lock; fn is not called then.
func (r *LockedRunner) Run(ctx context.Context, name string, fn func(ctx context.Context) error) (ran bool, err error) {
	log := logger.WithComponent("locked_runner")

	acquired, err := r.store.SetNX(ctx, name, "1", r.ttl)
	if err != nil {
		return false, fmt.Errorf("acquiring lock %s: %w", name, err)
	}
	if !acquired {
		log.Info().Str("job", name).Msg("lock held elsewhere, skipping run")
		return false, nil
	}
	defer func() {
		// Released on a fresh context so a cancelled run still unlocks.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.store.Delete(releaseCtx, name); err != nil {
			log.Error().Err(err).Str("job", name).Msg("releasing lock failed")
		}
	}()

	start := time.Now()
	if err := fn(ctx); err != nil {
		log.Error().Err(err).Str("job", name).Dur("elapsed", time.Since(start)).Msg("job failed")
		return true, err
	}
	log.Info().Str("job", name).Dur("elapsed", time.Since(start)).Msg("job finished")
	return true, nil
}
