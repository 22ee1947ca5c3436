// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Command tpool-demo submits a batch of small tasks to a worker pool, each of
// which prints its submission time and sequence number, and then shuts the
// pool down.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/petenewcomb/tpool-go"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type options struct {
	workers int
	tasks   int
	drain   bool
	trace   bool
	verbose bool
	rate    float64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:          "tpool-demo",
		Short:        "Run a batch of printing tasks on a fixed-size worker pool",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}
	flags := cmd.Flags()
	flags.IntVarP(&opts.workers, "workers", "w", 4, "number of worker goroutines")
	flags.IntVarP(&opts.tasks, "tasks", "n", 10, "number of tasks to submit")
	flags.BoolVar(&opts.drain, "drain", false, "run every queued task before exiting instead of abandoning them")
	flags.BoolVar(&opts.trace, "trace", false, "export a span per task to stdout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log pool and worker lifecycle events")
	flags.Float64Var(&opts.rate, "rate", 0, "maximum tasks started per second (0 for unlimited)")
	return cmd
}

func run(ctx context.Context, opts options) error {
	if opts.workers < 1 {
		return fmt.Errorf("--workers must be at least one, got %d", opts.workers)
	}
	if opts.tasks < 0 {
		return fmt.Errorf("--tasks must not be negative, got %d", opts.tasks)
	}

	logger := zap.NewNop()
	if opts.verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
	}
	defer logger.Sync() //nolint:errcheck

	poolOpts := []tpool.Option{
		tpool.WithName("demo"),
		tpool.WithLogger(logger),
	}
	if opts.drain {
		poolOpts = append(poolOpts, tpool.WithShutdownMode(tpool.ShutdownDrain))
	}
	if opts.rate > 0 {
		poolOpts = append(poolOpts, tpool.WithRateLimit(opts.rate, 1))
	}
	if opts.trace {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return fmt.Errorf("creating trace exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
			sdktrace.WithSyncer(exporter),
		)
		defer tp.Shutdown(context.Background()) //nolint:errcheck
		poolOpts = append(poolOpts, tpool.WithTracerProvider(tp))
	}

	pool := tpool.New(opts.workers, poolOpts...)

	futures := make([]*tpool.Future[bool], opts.tasks)
	for i := range opts.tasks {
		futures[i] = tpool.Submit2(ctx, pool,
			func(_ context.Context, submitted time.Time, i int) (bool, error) {
				fmt.Printf("%s: %d\n", submitted.Format(time.StampMicro), i)
				return true, nil
			}, time.Now(), i)
	}

	if err := pool.Close(); err != nil {
		return err
	}

	var ran, abandoned int
	for _, f := range futures {
		_, err := f.Wait()
		switch {
		case err == nil:
			ran++
		case errors.Is(err, tpool.ErrAbandoned):
			abandoned++
		default:
			return err
		}
	}
	fmt.Printf("ran %d tasks, abandoned %d\n", ran, abandoned)
	return nil
}
