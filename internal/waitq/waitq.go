// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package waitq implements a FIFO queue of parked goroutines that can be woken
// one at a time without losing notifications when a waiter gives up.
package waitq

import (
	"sync"

	"github.com/gammazero/deque"
)

// Queue is an unbounded FIFO of [Waiter] values. The zero value is ready to
// use. Queue has its own lock so that [Waiter.Close] may be called without
// holding any lock of the owning data structure.
type Queue struct {
	mu      sync.Mutex
	waiters deque.Deque[Waiter]
}

// Add registers and returns a new waiter at the back of the queue. It never
// blocks.
func (q *Queue) Add() Waiter {
	w := Waiter{
		q:          q,
		notifyChan: make(chan struct{}, 1),
	}
	q.mu.Lock()
	q.waiters.PushBack(w)
	q.mu.Unlock()
	return w
}

// Notify signals the waiter at the front of the queue, skipping any that have
// already been closed. Returns false if there was no live waiter to signal.
func (q *Queue) Notify() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.notifyLocked()
}

func (q *Queue) notifyLocked() bool {
	for q.waiters.Len() > 0 {
		w := q.waiters.PopFront()
		select {
		case w.notifyChan <- struct{}{}:
			return true
		default:
			// The channel was full, meaning that the waiter was closed. Loop
			// and try the next one.
		}
	}
	return false
}

// Len returns the number of registered waiters that have neither been
// notified nor closed.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.waiters.Len()
}

func (q *Queue) remove(w Waiter) {
	i := q.waiters.Index(func(x Waiter) bool {
		return x.notifyChan == w.notifyChan
	})
	if i >= 0 {
		q.waiters.Remove(i)
	}
}
