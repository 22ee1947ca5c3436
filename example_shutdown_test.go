// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tpool_test

import (
	"context"
	"errors"
	"fmt"

	// Superfluous alias needed to work around
	// https://github.com/golang/go/issues/12794
	tpool "github.com/petenewcomb/tpool-go"
)

// Shutdown demonstrates the two shutdown modes. Both pools get one worker that
// is held busy by a first task while three more tasks are queued behind it,
// and the first task is released only after shutdown has begun.
func Example_shutdown() {
	ctx := context.Background()

	run := func(mode tpool.ShutdownMode) {
		pool := tpool.New(1, tpool.WithShutdownMode(mode))

		started := make(chan struct{})
		release := make(chan struct{})
		first := tpool.Submit(ctx, pool, func(context.Context) (int, error) {
			close(started)
			<-release
			return 0, nil
		})
		<-started

		futures := []*tpool.Future[int]{first}
		for i := 1; i <= 3; i++ {
			futures = append(futures, tpool.Submit1(ctx, pool,
				func(_ context.Context, i int) (int, error) { return i, nil }, i))
		}

		// Begin the shutdown without waiting for it, so that the first task
		// is released only after the queued ones have been abandoned or
		// marked for draining.
		begun, cancel := context.WithCancel(ctx)
		cancel()
		if err := pool.Shutdown(begun); !errors.Is(err, tpool.ErrShutdownTimeout) {
			fmt.Println("shutdown:", err)
		}
		close(release)

		if err := pool.Close(); err != nil {
			fmt.Println("close:", err)
		}

		fmt.Printf("%s:", mode)
		for _, f := range futures {
			v, err := f.Wait()
			switch {
			case errors.Is(err, tpool.ErrAbandoned):
				fmt.Print(" abandoned")
			case err != nil:
				fmt.Print(" ", err)
			default:
				fmt.Print(" ", v)
			}
		}
		fmt.Println()
	}

	run(tpool.ShutdownDrain)
	run(tpool.ShutdownAbandon)

	// Output:
	// drain: 0 1 2 3
	// abandon: 0 abandoned abandoned abandoned
}
