// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package timerp

import (
	"sync"
	"time"
)

// This implementation relies on [Go 1.23+ behavior]: a stopped or reset timer
// never delivers a stale value, so pooled timers need no draining.
//
// [Go 1.23+ behavior]: https://pkg.go.dev/time#NewTimer

var pool = sync.Pool{
	New: func() any {
		t := time.NewTimer(time.Hour)
		t.Stop()
		return t
	},
}

// Get returns a timer that will fire once after d.
func Get(d time.Duration) *time.Timer {
	t := pool.Get().(*time.Timer)
	t.Reset(d)
	return t
}

// Put stops t and returns it to the pool. The caller must not use t again.
func Put(t *time.Timer) {
	t.Stop()
	pool.Put(t)
}
