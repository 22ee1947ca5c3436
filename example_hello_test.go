// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tpool_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	// Superfluous alias needed to work around
	// https://github.com/golang/go/issues/12794
	tpool "github.com/petenewcomb/tpool-go"
)

// "Hello world" example that uses tpool to run a couple of tasks and collect
// their results.
//
//nolint:errcheck
func Example_hello() {
	ctx := context.Background()
	pool := tpool.New(2)
	defer pool.Close()

	// Returns its argument after a short delay.
	echo := func(_ context.Context, s string) (string, error) {
		time.Sleep(1 * time.Millisecond)
		return s, nil
	}

	hello := tpool.Submit1(ctx, pool, echo, "Hello")
	world := tpool.Submit1(ctx, pool, echo, "world!")

	var results []string
	for _, f := range []*tpool.Future[string]{hello, world} {
		s, _ := f.Wait()
		results = append(results, s)
	}
	fmt.Println(strings.Join(results, " "))
	// Output: Hello world!
}
