package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the harness metric instruments.
type Metrics struct {
	// HTTPRequestsTotal counts requests served by harness servers.
	HTTPRequestsTotal metric.Int64Counter

	// AuthAttemptsTotal counts strategy evaluations, by strategy and outcome.
	AuthAttemptsTotal metric.Int64Counter

	// RateLimitExceeded counts requests rejected by the rate limiter.
	RateLimitExceeded metric.Int64Counter

	// BootstrapTotal counts server bootstraps, by variant.
	BootstrapTotal metric.Int64Counter
}

// newMetrics creates and registers the metric instruments.
func newMetrics(inst *Instrumentation) (*Metrics, error) {
	meter := inst.Meter()
	m := &Metrics{}

	var err error
	m.HTTPRequestsTotal, err = meter.Int64Counter(
		"harness.http.requests.total",
		metric.WithDescription("Total HTTP requests served by harness servers"))
	if err != nil {
		return nil, err
	}
	m.AuthAttemptsTotal, err = meter.Int64Counter(
		"harness.auth.attempts.total",
		metric.WithDescription("Authentication strategy evaluations"))
	if err != nil {
		return nil, err
	}
	m.RateLimitExceeded, err = meter.Int64Counter(
		"harness.ratelimit.exceeded.total",
		metric.WithDescription("Requests rejected by the rate limiter"))
	if err != nil {
		return nil, err
	}
	m.BootstrapTotal, err = meter.Int64Counter(
		"harness.bootstrap.total",
		metric.WithDescription("Harness server bootstraps"))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// RecordHTTPRequest counts one served request. Nil-safe.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path)))
}

// RecordAuthAttempt counts one strategy evaluation. Nil-safe.
func (m *Metrics) RecordAuthAttempt(ctx context.Context, strategy string, accepted bool) {
	if m == nil {
		return
	}
	m.AuthAttemptsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("auth.strategy", strategy),
		attribute.Bool("auth.accepted", accepted)))
}

// RecordRateLimited counts one rate-limited request. Nil-safe.
func (m *Metrics) RecordRateLimited(ctx context.Context) {
	if m == nil {
		return
	}
	m.RateLimitExceeded.Add(ctx, 1)
}

// RecordBootstrap counts one server bootstrap. Nil-safe.
func (m *Metrics) RecordBootstrap(ctx context.Context, variant string) {
	if m == nil {
		return
	}
	m.BootstrapTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("bootstrap.variant", variant)))
}
