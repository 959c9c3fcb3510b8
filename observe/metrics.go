package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records control-loop telemetry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic; recording is best-effort.
type Metrics interface {
	// RecordCycle records one completed evaluation cycle.
	RecordCycle(ctx context.Context, duration time.Duration, score float64, status string)

	// RecordAlert records one raised alert.
	RecordAlert(ctx context.Context, severity string)

	// RecordEmergency records one emergency activation and how many of
	// its actions failed.
	RecordEmergency(ctx context.Context, trigger, severity string, failed int)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	cycleCount     metric.Int64Counter
	cycleDuration  metric.Float64Histogram
	healthScore    metric.Float64Gauge
	alertCount     metric.Int64Counter
	emergencyCount metric.Int64Counter
	actionFailures metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	cycleCount, err := meter.Int64Counter(
		"monitor.cycles.total",
		metric.WithDescription("Total number of evaluation cycles"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, err
	}

	cycleDuration, err := meter.Float64Histogram(
		"monitor.cycle.duration_ms",
		metric.WithDescription("Evaluation cycle duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	healthScore, err := meter.Float64Gauge(
		"monitor.health.score",
		metric.WithDescription("Overall weighted health score"),
	)
	if err != nil {
		return nil, err
	}

	alertCount, err := meter.Int64Counter(
		"monitor.alerts.total",
		metric.WithDescription("Total number of alerts raised"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return nil, err
	}

	emergencyCount, err := meter.Int64Counter(
		"monitor.emergencies.total",
		metric.WithDescription("Total number of emergency activations"),
		metric.WithUnit("{activation}"),
	)
	if err != nil {
		return nil, err
	}

	actionFailures, err := meter.Int64Counter(
		"monitor.emergency.action_failures",
		metric.WithDescription("Total number of failed emergency actions"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		cycleCount:     cycleCount,
		cycleDuration:  cycleDuration,
		healthScore:    healthScore,
		alertCount:     alertCount,
		emergencyCount: emergencyCount,
		actionFailures: actionFailures,
	}, nil
}

func (m *metricsImpl) RecordCycle(ctx context.Context, duration time.Duration, score float64, status string) {
	opt := metric.WithAttributes(attribute.String("status", status))

	m.cycleCount.Add(ctx, 1, opt)
	m.cycleDuration.Record(ctx, float64(duration.Milliseconds()), opt)
	m.healthScore.Record(ctx, score)
}

func (m *metricsImpl) RecordAlert(ctx context.Context, severity string) {
	m.alertCount.Add(ctx, 1, metric.WithAttributes(attribute.String("severity", severity)))
}

func (m *metricsImpl) RecordEmergency(ctx context.Context, trigger, severity string, failed int) {
	attrs := metric.WithAttributes(
		attribute.String("trigger", trigger),
		attribute.String("severity", severity),
	)
	m.emergencyCount.Add(ctx, 1, attrs)
	if failed > 0 {
		m.actionFailures.Add(ctx, int64(failed), attrs)
	}
}

// nopMetrics discards all recordings.
type nopMetrics struct{}

func (nopMetrics) RecordCycle(ctx context.Context, duration time.Duration, score float64, status string) {
}
func (nopMetrics) RecordAlert(ctx context.Context, severity string)                         {}
func (nopMetrics) RecordEmergency(ctx context.Context, trigger, severity string, failed int) {}

// NopMetrics returns a Metrics that discards everything.
func NopMetrics() Metrics {
	return nopMetrics{}
}
