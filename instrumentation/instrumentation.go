package instrumentation

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// DefaultServiceVersion is used when no service version is provided.
const DefaultServiceVersion = "unknown"

// instrumentationScope names the meter and tracer scopes.
const instrumentationScope = "github.com/apitools/docharness"

// Config holds instrumentation configuration.
type Config struct {
	// ServiceName identifies the service in telemetry. Default: "docharness".
	ServiceName string

	// ServiceVersion is the reported service version.
	ServiceVersion string

	// Enabled controls whether instrumentation is active. When false, no-op
	// providers are used and recording costs nothing.
	Enabled bool

	// Resource allows custom resource attributes. If nil, a default resource
	// is built from the service name and version.
	Resource *resource.Resource
}

// Instrumentation holds the metric and trace providers plus the
// pre-registered instruments the harness records on.
type Instrumentation struct {
	config   Config
	resource *resource.Resource

	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	metrics        *Metrics

	shutdownFuncs []func(context.Context) error
	shutdownOnce  sync.Once
}

// New creates a new instrumentation instance.
func New(config Config) (*Instrumentation, error) {
	if config.ServiceName == "" {
		config.ServiceName = "docharness"
	}
	if config.ServiceVersion == "" {
		config.ServiceVersion = DefaultServiceVersion
	}

	inst := &Instrumentation{config: config}

	if !config.Enabled {
		inst.meterProvider = metricnoop.NewMeterProvider()
		inst.tracerProvider = tracenoop.NewTracerProvider()
	} else {
		res := config.Resource
		if res == nil {
			var err error
			res, err = resource.New(
				context.Background(),
				resource.WithAttributes(
					semconv.ServiceName(config.ServiceName),
					semconv.ServiceVersion(config.ServiceVersion),
				),
			)
			if err != nil {
				return nil, fmt.Errorf("build resource: %w", err)
			}
		}
		inst.resource = res
		// Use the globally registered providers so the embedding test
		// process controls exporters.
		inst.meterProvider = otel.GetMeterProvider()
		inst.tracerProvider = otel.GetTracerProvider()
	}

	metrics, err := newMetrics(inst)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	inst.metrics = metrics
	return inst, nil
}

// Enabled reports whether real providers are wired.
func (i *Instrumentation) Enabled() bool { return i.config.Enabled }

// Resource returns the telemetry resource, or nil when disabled.
func (i *Instrumentation) Resource() *resource.Resource { return i.resource }

// Metrics returns the pre-registered instrument set.
func (i *Instrumentation) Metrics() *Metrics { return i.metrics }

// Meter returns the harness meter.
func (i *Instrumentation) Meter() metric.Meter {
	return i.meterProvider.Meter(instrumentationScope)
}

// Shutdown flushes and stops any registered telemetry components.
func (i *Instrumentation) Shutdown(ctx context.Context) error {
	var err error
	i.shutdownOnce.Do(func() {
		for _, fn := range i.shutdownFuncs {
			if e := fn(ctx); e != nil && err == nil {
				err = e
			}
		}
	})
	return err
}
