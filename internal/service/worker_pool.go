package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"invoicefin/internal/logger"
)

// Background runs work detached from the caller's request.
type Background interface {
	Go(name string, fn func(ctx context.Context) error)
}

// WorkerPool runs background work with bounded concurrency. Each unit of work
// gets a fresh context with its own timeout so it survives the request that
// submitted it.
type WorkerPool struct {
	sem     chan struct{}
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ Background = (*WorkerPool)(nil)

// NewWorkerPool creates a new WorkerPool.
func NewWorkerPool(concurrency int, timeout time.Duration) *WorkerPool {
	if concurrency <= 0 {
		concurrency = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &WorkerPool{sem: make(chan struct{}, concurrency), timeout: timeout}
}

// Go blocks until a slot is free, then runs fn on its own goroutine.
func (p *WorkerPool) Go(name string, fn func(ctx context.Context) error) {
	p.sem <- struct{}{} // acquire
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }() // release

		log := logger.WithComponent("worker_pool")
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("task", name).Str("panic", fmt.Sprint(r)).Msg("background task panicked")
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			log.Error().Err(err).Str("task", name).Dur("elapsed", time.Since(start)).Msg("background task failed")
			return
		}
		log.Debug().Str("task", name).Dur("elapsed", time.Since(start)).Msg("background task done")
	}()
}

// Wait blocks until all submitted work has finished.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}
