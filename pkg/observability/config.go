package observability

import "os"

// Config holds observability configuration
type Config struct {
	Metrics MetricsConfig
	Tracing TracingConfig
}

// MetricsConfig holds sweep metrics configuration
type MetricsConfig struct {
	// TextfilePath, when set, receives the sweep metrics in Prometheus text
	// format after each run (node_exporter textfile collector).
	TextfilePath string
}

// TracingConfig holds distributed tracing configuration
type TracingConfig struct {
	Enabled      bool
	Exporter     string
	SamplingRate float64
}

// DefaultConfig returns default observability configuration
func DefaultConfig() Config {
	return Config{
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "stdout",
			SamplingRate: 1.0,
		},
	}
}

// FromEnv returns DefaultConfig adjusted by LABSTOP_TRACING and
// LABSTOP_METRICS_FILE
func FromEnv() Config {
	cfg := DefaultConfig()
	if exporter := os.Getenv("LABSTOP_TRACING"); exporter != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = exporter
	}
	cfg.Metrics.TextfilePath = os.Getenv("LABSTOP_METRICS_FILE")
	return cfg
}
