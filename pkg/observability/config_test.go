package observability

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Tracing.Enabled {
		t.Error("Expected tracing disabled by default")
	}
	if cfg.Tracing.Exporter != "stdout" {
		t.Errorf("Expected stdout exporter, got %s", cfg.Tracing.Exporter)
	}
	if cfg.Metrics.TextfilePath != "" {
		t.Errorf("Expected no metrics file, got %s", cfg.Metrics.TextfilePath)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LABSTOP_TRACING", "stdout")
	t.Setenv("LABSTOP_METRICS_FILE", "/var/lib/node_exporter/labstop.prom")

	cfg := FromEnv()
	if !cfg.Tracing.Enabled {
		t.Error("Expected tracing enabled")
	}
	if cfg.Metrics.TextfilePath != "/var/lib/node_exporter/labstop.prom" {
		t.Errorf("Unexpected metrics file %s", cfg.Metrics.TextfilePath)
	}
}

func TestFromEnvUnset(t *testing.T) {
	t.Setenv("LABSTOP_TRACING", "")
	t.Setenv("LABSTOP_METRICS_FILE", "")

	if FromEnv().Tracing.Enabled {
		t.Error("Expected tracing disabled")
	}
}
