package otel

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("KARMA_SPACE_OTEL_ENDPOINT", "")
	t.Setenv("KARMA_SPACE_OTEL_ENABLED", "")
	t.Setenv("KARMA_SPACE_OTEL_SAMPLE_RATIO", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.active() {
		t.Fatalf("config %+v should be inactive without an endpoint", cfg)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("KARMA_SPACE_OTEL_ENABLED", "maybe")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for non-boolean enabled flag")
	}
}

func TestSetupNoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("KARMA_SPACE_OTEL_ENDPOINT", "")
	t.Setenv("KARMA_SPACE_OTEL_ENABLED", "")

	shutdown, err := Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSetupNoopWhenDisabled(t *testing.T) {
	t.Setenv("KARMA_SPACE_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("KARMA_SPACE_OTEL_ENABLED", "false")

	shutdown, err := Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupWithConfigCreatesProvider(t *testing.T) {
	// Non-routable address, so nothing is exported.
	cfg := Config{Endpoint: "http://192.0.2.1:4318", Enabled: true, SampleRatio: 0.5}
	shutdown, err := SetupWithConfig(context.Background(), "test-service", cfg)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, sdktrace.AlwaysSample().Description()},
		{1, sdktrace.AlwaysSample().Description()},
		{0.25, sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}
	for _, tt := range tests {
		got := Config{SampleRatio: tt.ratio}.sampler().Description()
		if got != tt.want {
			t.Fatalf("sampler(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}
