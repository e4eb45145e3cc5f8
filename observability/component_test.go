package observability

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/cascade/component"
	"github.com/kbukum/cascade/logger"
)

func TestTelemetry_Disabled(t *testing.T) {
	tel := NewTelemetry(Config{}, "node-a", "dev", "test", logger.Nop())

	if err := tel.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := tel.Health(context.Background()); h.Status != component.StatusHealthy || h.Message != "disabled" {
		t.Errorf("Health = %+v", h)
	}
	if d := tel.Describe(); d.Details != "disabled" {
		t.Errorf("Describe = %+v", d)
	}
	if err := tel.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestTelemetry_EnabledBeforeStart(t *testing.T) {
	tel := NewTelemetry(Config{Enabled: true, Endpoint: "collector:4318"}, "node-a", "dev", "test", logger.Nop())

	if h := tel.Health(context.Background()); h.Status != component.StatusDegraded {
		t.Errorf("Health = %+v, want degraded", h)
	}
	if d := tel.Describe(); !strings.Contains(d.Details, "collector:4318") || !strings.Contains(d.Details, "sample=1.00") {
		t.Errorf("Describe = %+v", d)
	}
	if err := tel.Stop(context.Background()); err != nil {
		t.Errorf("Stop before Start = %v", err)
	}
}
