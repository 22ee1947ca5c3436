// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package tpool

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/petenewcomb/tpool-go"

// instruments bundles the OpenTelemetry tracer and metric instruments of one
// pool. Instrument creation errors are ignored: the API returns usable no-op
// instruments alongside them.
type instruments struct {
	tracer    trace.Tracer
	attrs     metric.MeasurementOption
	spanAttrs []attribute.KeyValue

	submitted metric.Int64Counter
	completed metric.Int64Counter
	failed    metric.Int64Counter
	abandoned metric.Int64Counter
	duration  metric.Float64Histogram
	queueWait metric.Float64Histogram

	depth metric.Registration
}

func newInstruments(
	name string,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	queueDepth func() int,
) *instruments {
	meter := mp.Meter(instrumentationName)
	poolAttr := attribute.String("tpool.pool", name)
	inst := &instruments{
		tracer:    tp.Tracer(instrumentationName),
		attrs:     metric.WithAttributeSet(attribute.NewSet(poolAttr)),
		spanAttrs: []attribute.KeyValue{poolAttr},
	}

	inst.submitted, _ = meter.Int64Counter("tpool.tasks.submitted",
		metric.WithDescription("Tasks accepted into the queue."))
	inst.completed, _ = meter.Int64Counter("tpool.tasks.completed",
		metric.WithDescription("Tasks that returned a nil error."))
	inst.failed, _ = meter.Int64Counter("tpool.tasks.failed",
		metric.WithDescription("Tasks that returned an error or panicked."))
	inst.abandoned, _ = meter.Int64Counter("tpool.tasks.abandoned",
		metric.WithDescription("Tasks dropped from the queue by shutdown."))
	inst.duration, _ = meter.Float64Histogram("tpool.task.duration",
		metric.WithDescription("Task execution time."),
		metric.WithUnit("s"))
	inst.queueWait, _ = meter.Float64Histogram("tpool.task.queue_wait",
		metric.WithDescription("Time from submission to the start of execution."),
		metric.WithUnit("s"))

	gauge, err := meter.Int64ObservableGauge("tpool.queue.depth",
		metric.WithDescription("Tasks waiting for a worker."))
	if err == nil {
		inst.depth, _ = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
			o.ObserveInt64(gauge, int64(queueDepth()), inst.attrs)
			return nil
		}, gauge)
	}
	return inst
}

func (inst *instruments) taskSubmitted(ctx context.Context) {
	inst.submitted.Add(ctx, 1, inst.attrs)
}

func (inst *instruments) tasksAbandoned(ctx context.Context, n int) {
	if n > 0 {
		inst.abandoned.Add(ctx, int64(n), inst.attrs)
	}
}

func (inst *instruments) startTask(ctx context.Context, workerID int, enqueued time.Time) (context.Context, trace.Span) {
	inst.queueWait.Record(ctx, time.Since(enqueued).Seconds(), inst.attrs)
	return inst.tracer.Start(ctx, "tpool.task",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(inst.spanAttrs...),
		trace.WithAttributes(attribute.Int("tpool.worker", workerID)),
	)
}

func (inst *instruments) endTask(ctx context.Context, span trace.Span, started time.Time, err error) {
	inst.duration.Record(ctx, time.Since(started).Seconds(), inst.attrs)
	if err != nil {
		inst.failed.Add(ctx, 1, inst.attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		inst.completed.Add(ctx, 1, inst.attrs)
	}
	span.End()
}

func (inst *instruments) close() {
	if inst.depth != nil {
		_ = inst.depth.Unregister()
	}
}
