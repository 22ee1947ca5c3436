// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package waitq_test

import (
	"testing"

	"github.com/petenewcomb/tpool-go/internal/waitq"
	"github.com/stretchr/testify/require"
)

func received(w waitq.Waiter) bool {
	select {
	case <-w.Done():
		return true
	default:
		return false
	}
}

func TestNotifyWakesInFIFOOrder(t *testing.T) {
	chk := require.New(t)
	var q waitq.Queue

	w1 := q.Add()
	w2 := q.Add()
	chk.Equal(2, q.Len())

	chk.True(q.Notify())
	chk.True(received(w1))
	chk.False(received(w2))

	chk.True(q.Notify())
	chk.True(received(w2))

	chk.False(q.Notify())
	w1.Close()
	w2.Close()
	chk.Equal(0, q.Len())
}

func TestCloseRemovesUnnotifiedWaiter(t *testing.T) {
	chk := require.New(t)
	var q waitq.Queue

	w1 := q.Add()
	w2 := q.Add()
	w1.Close()
	chk.Equal(1, q.Len())

	// The notification skips the closed waiter.
	chk.True(q.Notify())
	chk.True(received(w2))
	w2.Close()
	chk.Equal(0, q.Len())
}

func TestClosePassesOnUnreceivedNotification(t *testing.T) {
	chk := require.New(t)
	var q waitq.Queue

	w1 := q.Add()
	w2 := q.Add()
	chk.True(q.Notify())

	// w1 leaves without receiving its notification, so w2 gets it instead.
	w1.Close()
	chk.True(received(w2))
	w2.Close()
	chk.Equal(0, q.Len())
}

func TestZeroWaiterCloseRequiresQueue(t *testing.T) {
	chk := require.New(t)
	var w waitq.Waiter
	chk.Nil(w.Done())
	chk.Panics(w.Close)
}
