// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tpool

import "github.com/petenewcomb/tpool-go/internal/cerr"

// ErrTaskPanic is wrapped by the error delivered to a [Future] whose task
// panicked. The wrapping error's message includes the panic value and the
// stack of the panicking goroutine.
const ErrTaskPanic = cerr.Error("task panicked")

// ErrTaskGoexit is delivered to the [Future] of a task that called
// [runtime.Goexit], for instance through testing.T.FailNow, instead of
// returning.
const ErrTaskGoexit = cerr.Error("task exited without returning")

// ErrAbandoned is delivered to the [Future] of a task that was still queued
// when its pool was shut down with [ShutdownAbandon].
const ErrAbandoned = cerr.Error("task abandoned on shutdown")

// ErrPoolClosed is delivered to the [Future] of a task submitted after
// [Pool.Shutdown] was called.
const ErrPoolClosed = cerr.Error("pool closed")

// ErrShutdownTimeout is returned by [Pool.Shutdown] when its context ends
// before every worker has exited.
const ErrShutdownTimeout = cerr.Error("shutdown timed out")
