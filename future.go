// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tpool

import (
	"context"
	"sync/atomic"
)

// A Future holds the eventual outcome of a submitted task. It is settled at
// most once, by the worker that executes the task or by the pool when the
// task is abandoned, and may be read any number of times, from any number of
// goroutines, afterwards.
//
// Futures are created by [Submit] and its variants. The zero value is not
// usable.
type Future[T any] struct {
	settled atomic.Bool
	done    chan struct{}
	value   T
	err     error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// settle records the outcome and releases all readers. It returns false,
// leaving the recorded outcome untouched, if the future was already settled.
func (f *Future[T]) settle(value T, err error) bool {
	if !f.settled.CompareAndSwap(false, true) {
		return false
	}
	f.value = value
	f.err = err
	close(f.done)
	return true
}

// Wait blocks until the future is settled and then returns the task's value
// and error. The error is whatever the task returned, an error wrapping
// [ErrTaskPanic], [ErrAbandoned], or [ErrPoolClosed].
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// WaitContext is like [Future.Wait] but gives up when ctx is done, returning
// ctx.Err(). Giving up does not affect the task.
func (f *Future[T]) WaitContext(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Ready reports whether the future has been settled, without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed once the future is settled, for use
// in select statements.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}
