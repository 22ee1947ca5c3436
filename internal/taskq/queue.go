// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package taskq provides an unbounded, blocking FIFO queue for handing work
// from any number of producers to any number of consumers, with a one-way
// abort signal that releases every blocked consumer.
package taskq

import (
	"context"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"github.com/petenewcomb/tpool-go/internal/cerr"
	"github.com/petenewcomb/tpool-go/internal/timerp"
	"github.com/petenewcomb/tpool-go/internal/waitq"
)

// ErrAborted is returned by [Queue.Pop] once [Queue.Abort] has been called.
const ErrAborted = cerr.Error("queue aborted")

// ErrClosed is returned by [Queue.Pop] once [Queue.Close] has been called and
// every remaining item has been popped.
const ErrClosed = cerr.Error("queue closed")

// Queue is a thread-safe FIFO queue whose Pop blocks while the queue is
// empty. A single mutex guards the items together with the aborted and closed
// flags, so a pop can never observe one without the other.
//
// Queues must be created with [New].
type Queue[T any] struct {
	mu      sync.Mutex
	items   deque.Deque[T]
	aborted bool
	closed  bool

	// stop is closed by the first call to Abort or Close. Parked pops select
	// on it and then re-evaluate the flags under mu.
	stop chan struct{}

	waiters waitq.Queue
	recheck time.Duration
}

// New creates an empty queue. If recheck is positive, a blocked [Queue.Pop]
// re-evaluates the queue state at least that often even without being
// notified. Notifications remain the primary wake mechanism; the re-check only
// bounds the cost of a wake-up that was never delivered.
func New[T any](recheck time.Duration) *Queue[T] {
	return &Queue[T]{
		stop:    make(chan struct{}),
		recheck: recheck,
	}
}

// Push appends item to the back of the queue and wakes one blocked consumer,
// if any. Push never blocks and always succeeds. Items pushed after Abort are
// never returned by Pop or TryPop, but can be retrieved with Drain.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items.PushBack(item)
	q.waiters.Notify()
}

// Pop removes and returns the item at the front of the queue, blocking while
// the queue is empty. It returns [ErrAborted] once the queue has been aborted,
// even if items remain, [ErrClosed] once the queue has been closed and
// emptied, or ctx.Err() if ctx is done before an item becomes available.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	for {
		item, waiter, parked, err := q.popOrPark()
		if !parked {
			return item, err
		}
		err = q.park(ctx, waiter)
		waiter.Close()
		if err != nil {
			var zero T
			return zero, err
		}
	}
}

// popOrPark either completes a pop or, if the queue is empty and still
// accepting pops, registers a waiter while still holding the lock so that a
// concurrent Push cannot slip between the emptiness check and the wait.
func (q *Queue[T]) popOrPark() (item T, waiter waitq.Waiter, parked bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	switch {
	case q.aborted:
		err = ErrAborted
	case q.items.Len() > 0:
		item = q.items.PopFront()
	case q.closed:
		err = ErrClosed
	default:
		waiter, parked = q.waiters.Add(), true
	}
	return item, waiter, parked, err
}

// park blocks until the waiter is notified, the queue is stopped, the
// re-check interval elapses, or ctx is done. Only the last case is an error;
// in all others the caller re-evaluates the queue.
func (q *Queue[T]) park(ctx context.Context, waiter waitq.Waiter) error {
	var recheck <-chan time.Time
	if q.recheck > 0 {
		t := timerp.Get(q.recheck)
		defer timerp.Put(t)
		recheck = t.C
	}

	select {
	case <-waiter.Done():
	case <-q.stop:
	case <-recheck:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// TryPop removes and returns the item at the front of the queue without
// blocking. It returns false if the queue is empty or has been aborted.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.aborted || q.items.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.items.PopFront(), true
}

// Abort makes every current and future Pop return [ErrAborted] without
// blocking. Items still queued are left in place for [Queue.Drain]. Calling
// Abort more than once has no additional effect.
func (q *Queue[T]) Abort() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.aborted = true
	q.stopLocked()
}

// Close makes Pop return [ErrClosed] instead of blocking once the queue is
// empty. Items already queued, or pushed later, are still returned in order.
// Calling Close more than once has no additional effect.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.stopLocked()
}

func (q *Queue[T]) stopLocked() {
	select {
	case <-q.stop:
	default:
		close(q.stop)
	}
}

// Drain removes and returns every queued item in FIFO order.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := make([]T, 0, q.items.Len())
	for q.items.Len() > 0 {
		items = append(items, q.items.PopFront())
	}
	return items
}

// Len returns the number of queued items. The result is advisory: it may be
// stale by the time the caller acts on it.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Empty reports whether the queue has no items. Like Len, it is advisory.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// Aborted reports whether Abort has been called.
func (q *Queue[T]) Aborted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.aborted
}
