// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package tpool provides a fixed-size pool of worker goroutines that execute
// submitted tasks and deliver each task's outcome to its submitter through a
// [Future].
//
// A [Pool] owns its workers and a single unbounded FIFO queue. [Submit] (or
// one of [Submit1], [Submit2], [Submit3], and [Go]) wraps a function and its
// arguments into a task, queues it, and returns a Future without waiting for
// a worker. Idle workers block on the queue without polling and wake as soon
// as a task arrives. Tasks are taken from the queue in submission order, but
// since several workers run at once they may complete in any order.
//
// A task's error, a recovered panic wrapped in [ErrTaskPanic], or
// [ErrTaskGoexit] for a task that called runtime.Goexit, is captured
// in its Future and surfaces only when the Future is read. A failing task
// never stops its worker or the pool, and is never retried.
//
// [Pool.Shutdown] stops the pool in bounded time. By default it aborts the
// queue: each worker finishes the task it is running, if any, and exits, and
// tasks still queued are abandoned, their Futures settled with
// [ErrAbandoned]. With [WithShutdownMode]([ShutdownDrain]) the workers run
// every queued task first. Tasks submitted after shutdown has begun are
// rejected with [ErrPoolClosed].
//
// Pools log through [go.uber.org/zap] and report spans and metrics through
// OpenTelemetry; both default to no-ops unless configured with [WithLogger],
// [WithTracerProvider], and [WithMeterProvider] or the OpenTelemetry global
// providers.
package tpool
