// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tpool

import (
	"context"
	"time"
)

// Submit queues fn for execution by one of p's workers and returns a [Future]
// for its outcome. Submit never blocks: the task is queued even if every
// worker is busy.
//
// The values of ctx, but not its cancellation, are passed on to fn (see
// [TaskFunc]). If p is already shutting down, the returned Future is settled
// immediately with [ErrPoolClosed] and fn is never called.
//
// Submit panics if p or fn is nil.
func Submit[T any](ctx context.Context, p *Pool, fn TaskFunc[T]) *Future[T] {
	if p == nil {
		panic("pool must be non-nil")
	}
	if fn == nil {
		panic("task function must be non-nil")
	}

	f := newFuture[T]()
	t := &boundTask[T]{
		ctx:      context.WithoutCancel(ctx),
		fn:       fn,
		future:   f,
		enqueued: time.Now(),
	}
	if err := p.enqueue(ctx, t); err != nil {
		t.abandon(err)
	}
	return f
}

// Submit1 is like [Submit] for a function of one argument. The argument is
// copied when Submit1 is called, so later changes made by the caller are not
// seen by the task.
func Submit1[A, T any](
	ctx context.Context,
	p *Pool,
	fn func(context.Context, A) (T, error),
	a A,
) *Future[T] {
	if fn == nil {
		panic("task function must be non-nil")
	}
	return Submit(ctx, p, func(ctx context.Context) (T, error) {
		return fn(ctx, a)
	})
}

// Submit2 is like [Submit1] for a function of two arguments.
func Submit2[A, B, T any](
	ctx context.Context,
	p *Pool,
	fn func(context.Context, A, B) (T, error),
	a A,
	b B,
) *Future[T] {
	if fn == nil {
		panic("task function must be non-nil")
	}
	return Submit(ctx, p, func(ctx context.Context) (T, error) {
		return fn(ctx, a, b)
	})
}

// Submit3 is like [Submit1] for a function of three arguments.
func Submit3[A, B, C, T any](
	ctx context.Context,
	p *Pool,
	fn func(context.Context, A, B, C) (T, error),
	a A,
	b B,
	c C,
) *Future[T] {
	if fn == nil {
		panic("task function must be non-nil")
	}
	return Submit(ctx, p, func(ctx context.Context) (T, error) {
		return fn(ctx, a, b, c)
	})
}

// Go is like [Submit] for a function that produces no value.
func Go(ctx context.Context, p *Pool, fn func(context.Context) error) *Future[struct{}] {
	if fn == nil {
		panic("task function must be non-nil")
	}
	return Submit(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
}
