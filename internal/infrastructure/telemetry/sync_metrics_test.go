package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewSyncMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewSyncMetrics(nil)
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestSyncMetrics_Noop(t *testing.T) {
	m, err := telemetry.NewSyncMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordSync(context.Background(), integration.ErrorClassNone, time.Second, 2)
	})
}

func TestSyncMetrics_RecordSync(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := telemetry.NewSyncMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSync(ctx, integration.ErrorClassNone, 200*time.Millisecond, 3)
	m.RecordSync(ctx, integration.ErrorClassNone, 300*time.Millisecond, 2)
	m.RecordSync(ctx, integration.ErrorClassNotFound, 10*time.Millisecond, 0)
	m.RecordSync(ctx, integration.ErrorClassTransport, time.Second, 4)

	metrics := collect(t, reader)

	attempts, ok := metrics["catalogsync_product_sync_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byClass := make(map[string]int64)
	for _, dp := range attempts.DataPoints {
		class, _ := dp.Attributes.Value(attribute.Key("error_class"))
		byClass[class.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"none": 2, "not_found": 1, "transport": 1}, byClass)

	variations, ok := metrics["catalogsync_variations_committed_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, variations.DataPoints, 1)
	assert.Equal(t, int64(5), variations.DataPoints[0].Value)

	duration, ok := metrics["catalogsync_product_sync_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range duration.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(4), count)
}
