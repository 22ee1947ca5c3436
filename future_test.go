// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tpool_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/petenewcomb/tpool-go"
	"github.com/stretchr/testify/require"
)

func TestFutureWaitContext(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()
	p := tpool.New(1)
	defer p.Close()

	release := make(chan struct{})
	f := tpool.Submit(ctx, p, func(context.Context) (int, error) {
		<-release
		return 5, nil
	})
	chk.False(f.Ready())

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	v, err := f.WaitContext(waitCtx)
	chk.ErrorIs(err, context.DeadlineExceeded)
	chk.Zero(v)

	// Giving up on the wait leaves the task alone.
	close(release)
	v, err = f.WaitContext(ctx)
	chk.NoError(err)
	chk.Equal(5, v)
	chk.True(f.Ready())

	select {
	case <-f.Done():
	default:
		chk.Fail("Done not closed on a ready future")
	}
}

func TestFutureReadByManyWaiters(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()
	p := tpool.New(1)
	defer p.Close()

	release := make(chan struct{})
	boom := errors.New("boom")
	f := tpool.Submit(ctx, p, func(context.Context) (string, error) {
		<-release
		return "partial", boom
	})

	const readers = 16
	var wg sync.WaitGroup
	values := make([]string, readers)
	errs := make([]error, readers)
	for i := range readers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			values[i], errs[i] = f.Wait()
		}()
	}
	close(release)
	wg.Wait()

	for i := range readers {
		chk.Equal("partial", values[i])
		chk.ErrorIs(errs[i], boom)
	}

	// Reading again after settlement gives the same outcome.
	v, err := f.Wait()
	chk.Equal("partial", v)
	chk.ErrorIs(err, boom)
}
