package observability

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/smallbiznis/quoteflow/internal/config"
)

const defaultServiceName = "quoteflow"

// Config is the resolved observability setup. Traces and metrics share one
// OTLP endpoint but can be switched off independently.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel          string
	LogFormat         string
	LogSampleInitial  int
	LogSampleAfter    int
	LogSampleInterval time.Duration

	OTLPEndpoint  string
	OTLPProtocol  string
	TracesEnabled bool
	TraceRatio    float64

	MetricsEnabled bool
}

// LoadConfig layers OTEL_* and LOG_* variables over the application config.
// Exporters stay off unless an endpoint is known.
func LoadConfig(cfg config.Config) Config {
	out := Config{
		ServiceName: firstNonEmpty(cfg.AppName, defaultServiceName),
		Environment: firstNonEmpty(os.Getenv("DEPLOYMENT_ENV"), cfg.Environment),
		Version:     firstNonEmpty(os.Getenv("SERVICE_VERSION"), cfg.AppVersion),

		LogLevel:          lower(firstNonEmpty(os.Getenv("LOG_LEVEL"), "info")),
		LogFormat:         lower(firstNonEmpty(os.Getenv("LOG_FORMAT"), "json")),
		LogSampleInitial:  envInt("LOG_SAMPLING_INITIAL", 100),
		LogSampleAfter:    envInt("LOG_SAMPLING_THEREAFTER", 100),
		LogSampleInterval: time.Second,

		OTLPEndpoint: firstNonEmpty(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"), cfg.OTLPEndpoint),
		OTLPProtocol: lower(firstNonEmpty(
			os.Getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL"),
			os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"),
			"grpc",
		)),
		TraceRatio: clampRatio(envFloat("OTEL_SAMPLING_RATIO", 0.1)),
	}

	hasEndpoint := out.OTLPEndpoint != ""
	enabled := envBool("OTEL_ENABLED", hasEndpoint)
	out.TracesEnabled = hasEndpoint && envBool("OTEL_TRACES_ENABLED", enabled)
	out.MetricsEnabled = hasEndpoint && envBool("OTEL_METRICS_ENABLED", enabled)
	return out
}

// Debug is true for LOG_LEVEL=debug and for local environments.
func (c Config) Debug() bool {
	if lower(c.LogLevel) == "debug" {
		return true
	}
	switch lower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

func clampRatio(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func lower(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func envBool(key string, def bool) bool {
	switch lower(os.Getenv(key)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64)
	if err != nil {
		return def
	}
	return v
}
