package telemetry

import (
	"context"
	"sync"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// resetGlobalConfig resets the cached config for testing.
func resetGlobalConfig() {
	globalConfig = nil
	configOnce = sync.Once{}
}

func TestInit_TracingDisabledStillCollectsMetrics(t *testing.T) {
	resetGlobalConfig()
	clearOtelEnv(t)
	defer resetGlobalConfig()

	ctx := context.Background()
	tel, err := Init(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	defer tel.Shutdown(ctx)

	if tel.tracerProvider != nil {
		t.Error("Expected no tracer provider when tracing is disabled")
	}

	counter, err := otel.Meter("telemetry-test").Int64Counter("perfstats_loads_total")
	if err != nil {
		t.Fatalf("failed to create counter: %v", err)
	}
	counter.Add(ctx, 2, metric.WithAttributes(attribute.String("status", "installed")))
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", "failed")))

	points, err := tel.Counters(ctx)
	if err != nil {
		t.Fatalf("Counters failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d: %+v", len(points), points)
	}
	if points[0].Attributes["status"] != "failed" || points[0].Value != 1 {
		t.Errorf("unexpected first point %+v", points[0])
	}
	if points[1].Attributes["status"] != "installed" || points[1].Value != 2 {
		t.Errorf("unexpected second point %+v", points[1])
	}
}

func TestTelemetry_NilIsSafe(t *testing.T) {
	var tel *Telemetry
	if err := tel.Shutdown(context.Background()); err != nil {
		t.Errorf("Expected nil shutdown error, got %v", err)
	}
	points, err := tel.Counters(context.Background())
	if err != nil || points != nil {
		t.Errorf("Expected no points, got %v, %v", points, err)
	}
}

func TestEnabled(t *testing.T) {
	resetGlobalConfig()
	defer resetGlobalConfig()
	clearOtelEnv(t)

	if Enabled() {
		t.Error("Expected Enabled() to return false")
	}
}

func TestGetConfig(t *testing.T) {
	resetGlobalConfig()
	defer resetGlobalConfig()
	clearOtelEnv(t)
	t.Setenv("OTEL_SERVICE_NAME", "test-service")

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("Expected config to be non-nil")
	}
	if cfg.ServiceName != "test-service" {
		t.Errorf("Expected ServiceName 'test-service', got '%s'", cfg.ServiceName)
	}
}
