package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/cascade/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) *MeterConfig {
	return &MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricRuns           = "cascade.runs"
	MetricRunDuration    = "cascade.run.duration"
	MetricUnits          = "cascade.units"
	MetricUnitDuration   = "cascade.unit.duration"
	MetricUnitsActive    = "cascade.units.active"
	MetricDeadlineMissed = "cascade.deadline.missed"
)

// CascadeMetrics holds the instruments recorded by the cascade engine.
type CascadeMetrics struct {
	runs           metric.Int64Counter
	runDuration    metric.Float64Histogram
	units          metric.Int64Counter
	unitDuration   metric.Float64Histogram
	unitsActive    metric.Int64UpDownCounter
	deadlineMissed metric.Int64Counter
}

// NewCascadeMetrics creates the cascade instruments on the given meter.
func NewCascadeMetrics(meter metric.Meter) (*CascadeMetrics, error) {
	runs, err := meter.Int64Counter(MetricRuns,
		metric.WithDescription("Total number of cascade runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRuns, err)
	}

	runDuration, err := meter.Float64Histogram(MetricRunDuration,
		metric.WithDescription("Wall-clock duration of cascade runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRunDuration, err)
	}

	units, err := meter.Int64Counter(MetricUnits,
		metric.WithDescription("Completed work units by kind and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricUnits, err)
	}

	unitDuration, err := meter.Float64Histogram(MetricUnitDuration,
		metric.WithDescription("Duration of work units in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricUnitDuration, err)
	}

	unitsActive, err := meter.Int64UpDownCounter(MetricUnitsActive,
		metric.WithDescription("Work units currently holding a slot"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricUnitsActive, err)
	}

	deadlineMissed, err := meter.Int64Counter(MetricDeadlineMissed,
		metric.WithDescription("Work units whose results were dropped at the deadline"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricDeadlineMissed, err)
	}

	return &CascadeMetrics{
		runs:           runs,
		runDuration:    runDuration,
		units:          units,
		unitDuration:   unitDuration,
		unitsActive:    unitsActive,
		deadlineMissed: deadlineMissed,
	}, nil
}

// RecordRun records a finished run.
func (m *CascadeMetrics) RecordRun(ctx context.Context, action string, cascaded bool, duration time.Duration) {
	m.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrAction, action),
		attribute.Bool(AttrCascaded, cascaded),
	))
	m.runDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrAction, action),
	))
}

// UnitStarted marks a unit as holding a slot.
func (m *CascadeMetrics) UnitStarted(ctx context.Context, kind string) {
	m.unitsActive.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrKind, kind)))
}

// UnitFinished releases the active mark and records the unit outcome.
func (m *CascadeMetrics) UnitFinished(ctx context.Context, kind, outcome string, duration time.Duration) {
	m.unitsActive.Add(ctx, -1, metric.WithAttributes(attribute.String(AttrKind, kind)))
	m.units.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrKind, kind),
		attribute.String(AttrOutcome, outcome),
	))
	m.unitDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrKind, kind),
	))
}

// RecordDeadlineMissed records units whose results were not collected in time.
func (m *CascadeMetrics) RecordDeadlineMissed(ctx context.Context, action string, pending int) {
	if pending <= 0 {
		return
	}
	m.deadlineMissed.Add(ctx, int64(pending), metric.WithAttributes(
		attribute.String(AttrAction, action),
	))
}
