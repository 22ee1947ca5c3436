// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package taskq

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQueueRecheckDoesNotAccumulateWaiters(t *testing.T) {
	chk := require.New(t)
	q := New[int](time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := q.Pop(ctx)
	chk.ErrorIs(err, context.DeadlineExceeded)

	// Every re-check and the final timeout closed its waiter.
	chk.Equal(0, q.waiters.Len())
}

func TestQueueAbandonedWakeupIsPassedOn(t *testing.T) {
	chk := require.New(t)
	q := New[int](0)

	// Park one pop that will give up and one that will stay.
	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := q.Pop(ctx)
		first <- err
	}()
	chk.Eventually(func() bool { return q.waiters.Len() == 1 }, time.Second, time.Millisecond)

	second := make(chan int, 1)
	go func() {
		v, err := q.Pop(context.Background())
		chk.NoError(err)
		second <- v
	}()
	chk.Eventually(func() bool { return q.waiters.Len() == 2 }, time.Second, time.Millisecond)

	// Deliver the wake-up to the first waiter while it is leaving. Whichever
	// way the race goes, the item must reach the second pop.
	q.mu.Lock()
	q.items.PushBack(9)
	q.waiters.Notify()
	cancel()
	q.mu.Unlock()

	select {
	case v := <-second:
		chk.Equal(9, v)
		chk.ErrorIs(<-first, context.Canceled)
	case err := <-first:
		// The first pop may have taken the item before seeing the cancel.
		if err == nil {
			return
		}
		chk.ErrorIs(err, context.Canceled)
		select {
		case v := <-second:
			chk.Equal(9, v)
		case <-time.After(5 * time.Second):
			chk.Fail("wake-up was lost")
		}
	}
}
