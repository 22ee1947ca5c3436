// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// A TaskFunc is the body of a task submitted to a [Pool]. It returns a result
// of type T and an error value, both of which are delivered to the task's
// [Future].
//
// The context passed to a TaskFunc carries the values of the context given to
// [Submit], including any trace span, but never its cancellation or deadline:
// once submitted, a task runs to completion unless the pool abandons it before
// it starts. Inputs are best bound with [Submit1], [Submit2], or [Submit3],
// which copy them at submission time. A TaskFunc that instead captures
// variables by [lexical closure] must be thread-safe with respect to them.
//
// A TaskFunc that panics does not take down its worker. The panic is
// recovered and delivered to the Future as an error wrapping [ErrTaskPanic].
// Likewise, a TaskFunc that calls [runtime.Goexit] ends only its own
// goroutine, and its Future reports [ErrTaskGoexit].
//
// [lexical closure]: https://en.wikipedia.org/wiki/Closure_(computer_programming)
type TaskFunc[T any] = func(context.Context) (T, error)

// task is the type-erased form of a submitted TaskFunc that the queue and
// workers deal in. Exactly one of run or abandon is called, exactly once.
type task interface {
	run(w *worker)
	abandon(err error)
}

type boundTask[T any] struct {
	ctx      context.Context
	fn       TaskFunc[T]
	future   *Future[T]
	enqueued time.Time
}

func (t *boundTask[T]) run(w *worker) {
	ctx, span := w.pool.inst.startTask(t.ctx, w.id, t.enqueued)
	started := time.Now()
	value, abnormal, err := t.call(ctx)
	w.pool.inst.endTask(ctx, span, started, err)

	if abnormal {
		if errors.Is(err, ErrTaskPanic) {
			w.log.Error("task panicked", zap.Error(err))
		} else {
			w.log.Error("task exited without returning", zap.Error(err))
		}
	}
	t.future.settle(value, err)
}

// call runs fn on a goroutine of its own and waits for it, so that neither a
// panic nor runtime.Goexit in fn can end the calling worker. abnormal is true
// if fn did not return normally.
func (t *boundTask[T]) call(ctx context.Context) (value T, abnormal bool, err error) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		returned := false
		defer func() {
			if returned {
				return
			}
			var zero T
			value = zero
			abnormal = true
			if r := recover(); r != nil {
				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				err = fmt.Errorf("%w: %v\nstack trace:\n%s", ErrTaskPanic, r, buf[:n])
			} else {
				err = ErrTaskGoexit
			}
		}()
		value, err = t.fn(ctx)
		returned = true
	}()
	<-done
	return value, abnormal, err
}

func (t *boundTask[T]) abandon(err error) {
	var zero T
	t.future.settle(zero, err)
}
