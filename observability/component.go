package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/cascade/component"
	"github.com/kbukum/cascade/logger"
)

const componentName = "telemetry"

var (
	_ component.Component   = (*Telemetry)(nil)
	_ component.Describable = (*Telemetry)(nil)
)

// Telemetry owns the OTLP tracer and meter providers of a node. When
// disabled it starts nothing and the global no-op providers stay in place.
type Telemetry struct {
	cfg         Config
	service     string
	version     string
	environment string
	log         *logger.Logger

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewTelemetry creates the telemetry component for a service.
func NewTelemetry(cfg Config, service, version, environment string, log *logger.Logger) *Telemetry {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Telemetry{
		cfg:         cfg,
		service:     service,
		version:     version,
		environment: environment,
		log:         log.WithComponent(componentName),
	}
}

// Name returns the component name used for registration.
func (t *Telemetry) Name() string { return componentName }

// Start installs the tracer and meter providers.
func (t *Telemetry) Start(ctx context.Context) error {
	if !t.cfg.Enabled {
		t.log.Debug("Telemetry disabled")
		return nil
	}

	tp, err := InitTracer(ctx, t.cfg.Tracer(t.service, t.version, t.environment))
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	mp, err := InitMeter(ctx, t.cfg.Meter(t.service, t.version, t.environment))
	if err != nil {
		_ = tp.Shutdown(ctx)
		return fmt.Errorf("telemetry: %w", err)
	}
	t.tp, t.mp = tp, mp
	return nil
}

// Stop flushes and shuts down both providers.
func (t *Telemetry) Stop(ctx context.Context) error {
	var errs []error
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
		t.mp = nil
	}
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
		t.tp = nil
	}
	return errors.Join(errs...)
}

// Health reports degraded when export is enabled but not running; a node
// without telemetry still serves cascades.
func (t *Telemetry) Health(_ context.Context) component.Health {
	switch {
	case !t.cfg.Enabled:
		return component.Health{Name: componentName, Status: component.StatusHealthy, Message: "disabled"}
	case t.tp == nil:
		return component.Health{Name: componentName, Status: component.StatusDegraded, Message: "exporters not running"}
	default:
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
}

// Describe returns summary info for the startup banner.
func (t *Telemetry) Describe() component.Description {
	details := "disabled"
	if t.cfg.Enabled {
		details = fmt.Sprintf("otlp %s sample=%.2f", t.cfg.Endpoint, t.cfg.SampleRate)
	}
	return component.Description{Name: "Telemetry", Type: "telemetry", Details: details}
}
