// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tpool

import (
	"context"
	"fmt"
	"sync"

	"github.com/petenewcomb/tpool-go/internal/taskq"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// A Pool is a fixed set of worker goroutines that execute submitted tasks in
// the order they were submitted. Use [Submit] and its variants to add tasks,
// and [Pool.Shutdown] or [Pool.Close] to stop the workers.
//
// Pools must be created with [New]. All methods are safe for concurrent use.
type Pool struct {
	workers int
	mode    ShutdownMode
	queue   *taskq.Queue[task]
	limiter *rate.Limiter
	log     *zap.Logger
	inst    *instruments

	// stopCtx is canceled when shutdown abandons queued work so that workers
	// waiting on the rate limiter give up, and when all workers have exited.
	stopCtx context.Context
	stop    context.CancelFunc

	// mu is write-locked only to close the enqueue window, so that no task can
	// be pushed after shutdown has settled the abandoned ones.
	mu     sync.RWMutex
	closed bool

	shutdownOnce sync.Once
	done         chan struct{}
}

// New creates a pool and immediately starts the given number of workers.
// Each worker repeatedly takes the oldest queued task and runs it, and exits
// only when the pool is shut down.
//
// New panics if workers is less than one.
func New(workers int, opts ...Option) *Pool {
	if workers < 1 {
		panic("worker count must be at least one")
	}
	cfg := newConfig(opts)

	log := cfg.logger
	if cfg.name != "" {
		log = log.With(zap.String("pool", cfg.name))
	}

	p := &Pool{
		workers: workers,
		mode:    cfg.shutdownMode,
		queue:   taskq.New[task](cfg.recheck),
		limiter: cfg.limiter,
		log:     log,
		done:    make(chan struct{}),
	}
	p.stopCtx, p.stop = context.WithCancel(context.Background())
	p.inst = newInstruments(cfg.name, cfg.tracerProvider, cfg.meterProvider, p.queue.Len)

	var g errgroup.Group
	for i := range workers {
		w := newWorker(p, i)
		g.Go(w.run)
	}
	go func() {
		if err := g.Wait(); err != nil {
			p.log.Error("worker failed", zap.Error(err))
		}
		p.stop()
		p.inst.close()
		p.log.Debug("all workers exited")
		close(p.done)
	}()

	p.log.Debug("pool started",
		zap.Int("workers", workers),
		zap.Stringer("shutdownMode", cfg.shutdownMode),
		zap.Duration("recheckInterval", cfg.recheck))
	return p
}

func (p *Pool) enqueue(ctx context.Context, t task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}
	p.queue.Push(t)
	p.inst.taskSubmitted(ctx)
	return nil
}

// Shutdown stops the pool. The first call closes the pool to new tasks and,
// depending on the pool's [ShutdownMode], either abandons every queued task or
// lets the workers drain them. Running tasks are never interrupted.
//
// Every call then waits until all workers have exited or ctx is done. In the
// latter case it returns an error wrapping both [ErrShutdownTimeout] and
// ctx.Err(); the workers keep shutting down in the background and a later call
// can wait for them again.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.shutdownOnce.Do(p.beginShutdown)

	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrShutdownTimeout, ctx.Err())
	}
}

func (p *Pool) beginShutdown() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	switch p.mode {
	case ShutdownDrain:
		p.queue.Close()
		p.log.Info("pool draining", zap.Int("pending", p.queue.Len()))
	default:
		p.queue.Abort()
		p.stop()
		abandoned := p.queue.Drain()
		for _, t := range abandoned {
			t.abandon(ErrAbandoned)
		}
		p.inst.tasksAbandoned(context.Background(), len(abandoned))
		p.log.Info("pool aborted", zap.Int("abandoned", len(abandoned)))
	}
}

// Close shuts the pool down and waits for every worker to exit. It is
// equivalent to Shutdown(context.Background()).
func (p *Pool) Close() error {
	return p.Shutdown(context.Background())
}

// Pending returns the number of tasks waiting for a worker. The result is
// advisory and may be stale as soon as it is returned.
func (p *Pool) Pending() int {
	return p.queue.Len()
}

// Workers returns the number of workers the pool was created with.
func (p *Pool) Workers() int {
	return p.workers
}

// Done returns a channel that is closed once the pool has been shut down and
// every worker has exited.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}
