package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal  = "codecortex.scan.files.total"
	metricBytesTotal  = "codecortex.scan.bytes.total"
	metricRunDuration = "codecortex.scan.duration.seconds"
	metricQuality     = "codecortex.quality.score"

	attrDriver  = "driver"
	attrOutcome = "outcome"
)

// durationBuckets covers small repositories through large monorepos.
var durationBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300}

// ScanMetrics holds the instruments recorded during a scan. A nil
// *ScanMetrics records nothing.
type ScanMetrics struct {
	files    metric.Int64Counter
	bytes    metric.Int64Counter
	duration metric.Float64Histogram
	quality  metric.Int64Gauge
}

// NewScanMetrics creates the scan instruments from mt.
func NewScanMetrics(mt metric.Meter) (*ScanMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Files visited by driver and outcome"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	bytes, err := mt.Int64Counter(metricBytesTotal,
		metric.WithDescription("Bytes of analyzed source"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricBytesTotal, err)
	}

	duration, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Traversal duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	quality, err := mt.Int64Gauge(metricQuality,
		metric.WithDescription("Code quality score of the last Laravel analysis"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricQuality, err)
	}

	return &ScanMetrics{files: files, bytes: bytes, duration: duration, quality: quality}, nil
}

// RecordFile counts one file. driver is empty for unclaimed files.
func (sm *ScanMetrics) RecordFile(ctx context.Context, driver, outcome string, bytes int64) {
	if sm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrDriver, driver),
		attribute.String(attrOutcome, outcome),
	)

	sm.files.Add(ctx, 1, attrs)

	if bytes > 0 {
		sm.bytes.Add(ctx, bytes, metric.WithAttributes(attribute.String(attrDriver, driver)))
	}
}

// RecordRun records the traversal duration.
func (sm *ScanMetrics) RecordRun(ctx context.Context, d time.Duration) {
	if sm == nil {
		return
	}

	sm.duration.Record(ctx, d.Seconds())
}

// RecordQuality records a quality score.
func (sm *ScanMetrics) RecordQuality(ctx context.Context, score int) {
	if sm == nil {
		return
	}

	sm.quality.Record(ctx, int64(score))
}
