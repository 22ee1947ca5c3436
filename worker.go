// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tpool

import (
	"context"
	"errors"

	"github.com/petenewcomb/tpool-go/internal/taskq"
	"go.uber.org/zap"
)

type worker struct {
	pool *Pool
	id   int
	log  *zap.Logger
}

func newWorker(p *Pool, id int) *worker {
	return &worker{
		pool: p,
		id:   id,
		log:  p.log.With(zap.Int("worker", id)),
	}
}

// run is the worker loop. It returns nil when the queue reports that the pool
// is shutting down. Task failures, including panics, are delivered to the
// task's future and never end the loop.
func (w *worker) run() error {
	w.log.Debug("worker started")
	for {
		t, err := w.pool.queue.Pop(context.Background())
		if errors.Is(err, taskq.ErrAborted) || errors.Is(err, taskq.ErrClosed) {
			w.log.Debug("worker stopped", zap.Error(err))
			return nil
		}
		if err != nil {
			return err
		}

		if lim := w.pool.limiter; lim != nil {
			if err := lim.Wait(w.pool.stopCtx); err != nil {
				// Only an abandoning shutdown cancels stopCtx while tasks
				// are still being popped.
				t.abandon(ErrAbandoned)
				w.pool.inst.tasksAbandoned(context.Background(), 1)
				continue
			}
		}
		t.run(w)
	}
}
