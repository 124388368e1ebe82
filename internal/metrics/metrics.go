// Package metrics records column binding activity through OpenTelemetry.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tuannm99/novabind/internal/bind"
)

const instrumentationName = "github.com/tuannm99/novabind"

// Recorder holds the binding instruments. A nil *Recorder records nothing.
type Recorder struct {
	columns  metric.Int64Counter
	rows     metric.Int64Counter
	bytes    metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

// NewRecorder creates the instruments on mp, or on the global meter
// provider when mp is nil.
func NewRecorder(mp metric.MeterProvider) (*Recorder, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	var (
		r   Recorder
		err error
	)
	if r.columns, err = meter.Int64Counter("novabind.columns",
		metric.WithDescription("Columns bound successfully."),
		metric.WithUnit("{column}"),
	); err != nil {
		return nil, fmt.Errorf("metrics: columns counter: %w", err)
	}
	if r.rows, err = meter.Int64Counter("novabind.rows",
		metric.WithDescription("Rows encoded into column buffers."),
		metric.WithUnit("{row}"),
	); err != nil {
		return nil, fmt.Errorf("metrics: rows counter: %w", err)
	}
	if r.bytes, err = meter.Int64Counter("novabind.bytes",
		metric.WithDescription("Bytes written into column slots."),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("metrics: bytes counter: %w", err)
	}
	if r.failures, err = meter.Int64Counter("novabind.failures",
		metric.WithDescription("Column binds that failed, by error kind."),
		metric.WithUnit("{column}"),
	); err != nil {
		return nil, fmt.Errorf("metrics: failures counter: %w", err)
	}
	if r.duration, err = meter.Float64Histogram("novabind.bind.duration",
		metric.WithDescription("Time spent binding one column."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("metrics: duration histogram: %w", err)
	}
	return &r, nil
}

func (r *Recorder) ColumnBound(ctx context.Context, d bind.Diagnostics, elapsed time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("sqlt", d.Tag.String()))
	r.columns.Add(ctx, 1, attrs)
	r.rows.Add(ctx, int64(d.Rows), attrs)
	r.bytes.Add(ctx, int64(d.Written), attrs)
	r.duration.Record(ctx, elapsed.Seconds(), attrs)
}

func (r *Recorder) ColumnFailed(ctx context.Context, err error) {
	if r == nil {
		return
	}
	r.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", bind.KindLabel(err))))
}
