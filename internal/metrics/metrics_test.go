package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/tuannm99/novabind/internal/adapter"
	"github.com/tuannm99/novabind/internal/bind"
	"github.com/tuannm99/novabind/internal/wire"
)

func newTestRecorder(t *testing.T) (*Recorder, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	rec, err := NewRecorder(mp)
	require.NoError(t, err)
	return rec, reader
}

// sumOf returns the total of an int64 sum metric across its data points.
func sumOf(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestRecorder_ColumnBound(t *testing.T) {
	rec, reader := newTestRecorder(t)

	col, err := bind.BindInt[wire.Int32](1, []adapter.Int32{1, 2, 3})
	require.NoError(t, err)
	rec.ColumnBound(context.Background(), col.Diagnostics(), time.Millisecond)

	require.Equal(t, int64(1), sumOf(t, reader, "novabind.columns"))
	require.Equal(t, int64(3), sumOf(t, reader, "novabind.rows"))
	require.Equal(t, int64(12), sumOf(t, reader, "novabind.bytes"))
}

func TestRecorder_ColumnFailed(t *testing.T) {
	rec, reader := newTestRecorder(t)

	_, err := bind.BindInt[wire.Int16](1, []adapter.Int64{1})
	require.Error(t, err)
	rec.ColumnFailed(context.Background(), err)

	require.Equal(t, int64(1), sumOf(t, reader, "novabind.failures"))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var rec *Recorder
	rec.ColumnBound(context.Background(), bind.Diagnostics{}, 0)
	rec.ColumnFailed(context.Background(), nil)
}
