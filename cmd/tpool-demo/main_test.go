// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunDrain(t *testing.T) {
	chk := require.New(t)
	chk.NoError(run(context.Background(), options{workers: 2, tasks: 5, drain: true}))
}

func TestRunAbandon(t *testing.T) {
	chk := require.New(t)
	chk.NoError(run(context.Background(), options{workers: 1, tasks: 20}))
}

func TestRunRejectsZeroWorkers(t *testing.T) {
	chk := require.New(t)
	chk.ErrorContains(run(context.Background(), options{tasks: 1}), "--workers")
}

func TestRunRejectsNegativeTasks(t *testing.T) {
	chk := require.New(t)
	chk.ErrorContains(run(context.Background(), options{workers: 1, tasks: -1}), "--tasks")
}

func TestRootCmdFlags(t *testing.T) {
	chk := require.New(t)
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--workers", "3", "-n", "4", "--drain", "--rate", "1000"})
	chk.NoError(cmd.ExecuteContext(context.Background()))

	workers, err := cmd.Flags().GetInt("workers")
	chk.NoError(err)
	chk.Equal(3, workers)
}
