package telemetry

import (
	"context"
	"time"

	"github.com/erp/catalogsync/internal/domain/integration"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AttrErrorClass labels sync metrics with the outcome class
var AttrErrorClass = attribute.Key("error_class")

// SyncMetrics records one observation per product synchronization attempt
type SyncMetrics struct {
	attempts   *Counter
	variations *Counter
	duration   *Histogram
}

// NewSyncMetrics creates the sync instruments on meter
func NewSyncMetrics(meter metric.Meter) (*SyncMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	attempts, err := NewCounter(meter,
		"catalogsync_product_sync_total",
		"Product synchronization attempts by outcome",
		"{attempts}",
	)
	if err != nil {
		return nil, err
	}
	variations, err := NewCounter(meter,
		"catalogsync_variations_committed_total",
		"Variations saved by successful synchronizations",
		"{variations}",
	)
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "catalogsync_product_sync_duration_seconds",
		Description: "Duration of one product synchronization",
		Unit:        "s",
		Boundaries:  []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{attempts: attempts, variations: variations, duration: duration}, nil
}

// RecordSync records the outcome of one attempt
func (m *SyncMetrics) RecordSync(ctx context.Context, class integration.ErrorClass, duration time.Duration, variations int) {
	attrs := []attribute.KeyValue{AttrErrorClass.String(class.String())}
	m.attempts.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, duration, attrs...)
	if class == integration.ErrorClassNone && variations > 0 {
		m.variations.Add(ctx, int64(variations))
	}
}
