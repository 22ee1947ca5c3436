// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tpool

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ShutdownMode selects what [Pool.Shutdown] does with tasks that are still
// queued.
type ShutdownMode int

const (
	// ShutdownAbandon stops workers as soon as they finish their current task.
	// Queued tasks never run; their futures are settled with [ErrAbandoned].
	ShutdownAbandon ShutdownMode = iota

	// ShutdownDrain lets workers run every queued task before exiting.
	ShutdownDrain
)

func (m ShutdownMode) String() string {
	switch m {
	case ShutdownAbandon:
		return "abandon"
	case ShutdownDrain:
		return "drain"
	default:
		return "unknown"
	}
}

// DefaultRecheckInterval is how often an idle worker re-evaluates the queue
// unless overridden with [WithRecheckInterval].
const DefaultRecheckInterval = 200 * time.Millisecond

// An Option configures a [Pool] created with [New].
type Option func(*config)

type config struct {
	name           string
	logger         *zap.Logger
	shutdownMode   ShutdownMode
	recheck        time.Duration
	limiter        *rate.Limiter
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger:         zap.NewNop(),
		shutdownMode:   ShutdownAbandon,
		recheck:        DefaultRecheckInterval,
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithName labels the pool's log entries, spans, and metrics.
func WithName(name string) Option {
	return func(cfg *config) {
		cfg.name = name
	}
}

// WithLogger sets the logger used for worker lifecycle events and recovered
// task panics. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithShutdownMode sets what happens to queued tasks on shutdown. The default
// is [ShutdownAbandon].
func WithShutdownMode(mode ShutdownMode) Option {
	return func(cfg *config) {
		cfg.shutdownMode = mode
	}
}

// WithRecheckInterval sets how often an idle worker re-evaluates the queue
// without having been woken. Zero or a negative value disables the re-check,
// leaving workers to rely solely on wake-ups.
func WithRecheckInterval(d time.Duration) Option {
	return func(cfg *config) {
		cfg.recheck = d
	}
}

// WithRateLimit caps the rate at which workers start tasks, pooled across all
// workers. Non-positive arguments leave the pool unlimited.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *config) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.limiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithTracerProvider sets the source of the tracer used to create one span per
// executed task. The default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		if tp != nil {
			cfg.tracerProvider = tp
		}
	}
}

// WithMeterProvider sets the source of the pool's metric instruments. The
// default is the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *config) {
		if mp != nil {
			cfg.meterProvider = mp
		}
	}
}
