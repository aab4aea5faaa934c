// Package observe provides observability primitives for Sanovox:
// OpenTelemetry metrics with a Prometheus exporter bridge so the pipeline's
// behaviour can be scraped via the standard /metrics endpoint.
//
// A package-level default [Metrics] instance ([DefaultMetrics]) is provided
// for convenience; tests should use [NewMetrics] with a custom
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Sanovox metrics.
const meterName = "github.com/sanovox/sanovox"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// UtteranceDuration tracks end-to-end processing latency for one turn
	// (normalization + classification + state merge).
	UtteranceDuration metric.Float64Histogram

	// UtterancesProcessed counts processed turns. Use with attributes:
	//   attribute.String("risk_level", ...), attribute.Bool("safe", ...)
	UtterancesProcessed metric.Int64Counter

	// BlockedUtterances counts turns where the safety gate suppressed the
	// response. Use with attribute: attribute.String("risk_level", ...)
	BlockedUtterances metric.Int64Counter

	// CorrectionsResolved counts self-corrections resolved during
	// normalization. Use with attribute: attribute.String("method", ...)
	CorrectionsResolved metric.Int64Counter

	// DisfluenciesRemoved counts distinct disfluency vocabulary hits.
	DisfluenciesRemoved metric.Int64Counter

	// ActiveSessions tracks the number of live conversation sessions.
	ActiveSessions metric.Int64UpDownCounter
}

// latencyBuckets defines histogram bucket boundaries (in seconds). The
// pipeline is in-process and fast; buckets skew low.
var latencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.UtteranceDuration, err = m.Float64Histogram("sanovox.utterance.duration",
		metric.WithDescription("End-to-end processing latency for one utterance."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.UtterancesProcessed, err = m.Int64Counter("sanovox.utterances.processed",
		metric.WithDescription("Total utterances processed by risk level and safety verdict."),
	); err != nil {
		return nil, err
	}
	if met.BlockedUtterances, err = m.Int64Counter("sanovox.utterances.blocked",
		metric.WithDescription("Total utterances where the safety gate suppressed the response."),
	); err != nil {
		return nil, err
	}
	if met.CorrectionsResolved, err = m.Int64Counter("sanovox.corrections.resolved",
		metric.WithDescription("Total self-corrections resolved by resolution method."),
	); err != nil {
		return nil, err
	}
	if met.DisfluenciesRemoved, err = m.Int64Counter("sanovox.disfluencies.removed",
		metric.WithDescription("Total distinct disfluency vocabulary hits."),
	); err != nil {
		return nil, err
	}
	if met.ActiveSessions, err = m.Int64UpDownCounter("sanovox.active_sessions",
		metric.WithDescription("Number of live conversation sessions."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordTurn records the standard instrument set for one processed turn.
func (m *Metrics) RecordTurn(ctx context.Context, riskLevel string, safe bool, seconds float64) {
	m.UtteranceDuration.Record(ctx, seconds)
	m.UtterancesProcessed.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("risk_level", riskLevel),
			attribute.Bool("safe", safe),
		),
	)
	if !safe {
		m.BlockedUtterances.Add(ctx, 1,
			metric.WithAttributes(attribute.String("risk_level", riskLevel)),
		)
	}
}

// RecordCorrection records one resolved self-correction.
func (m *Metrics) RecordCorrection(ctx context.Context, method string) {
	m.CorrectionsResolved.Add(ctx, 1,
		metric.WithAttributes(attribute.String("method", method)),
	)
}

// RecordDisfluencies records n distinct disfluency hits.
func (m *Metrics) RecordDisfluencies(ctx context.Context, n int) {
	if n > 0 {
		m.DisfluenciesRemoved.Add(ctx, int64(n))
	}
}
