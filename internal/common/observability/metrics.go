// internal/common/observability/metrics.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

// Observability exposes OpenTelemetry instruments through the Prometheus exporter.
// A zero value is usable and records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	generations   otelmetric.Int64Counter
	latency       otelmetric.Float64Histogram
	jobCounter    otelmetric.Int64Counter
}

// New registers the exporter (on the default registerer unless opts say otherwise)
// and sets the global meter provider. Failures are logged and yield a no-op value.
func New(serviceName string, log *zap.Logger, opts ...otelprom.Option) *Observability {
	exporter, err := otelprom.New(opts...)
	if err != nil {
		log.Warn("otel prometheus exporter unavailable", zap.Error(err))
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	generations, _ := meter.Int64Counter(
		"generation.processed",
		otelmetric.WithDescription("Generations processed by source and status"),
	)
	latency, _ := meter.Float64Histogram(
		"generation.latency",
		otelmetric.WithDescription("Generation latency"),
		otelmetric.WithUnit("ms"),
	)
	jobCounter, _ := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Workflow jobs processed"),
	)

	return &Observability{
		meterProvider: provider,
		generations:   generations,
		latency:       latency,
		jobCounter:    jobCounter,
	}
}

// RecordGeneration counts one generation. source is "http", "job" or "cli".
func (o *Observability) RecordGeneration(ctx context.Context, source, mode string, elapsed time.Duration, err error) {
	if o == nil || o.generations == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("source", source),
		attribute.String("mode", mode),
		attribute.String("status", status),
	)
	o.generations.Add(ctx, 1, attrs)
	o.latency.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return o.meterProvider.Shutdown(ctx)
}
