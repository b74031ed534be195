// Package observability wires OpenTelemetry tracing and metrics and the
// structured logger shared by every codecortex command.
package observability

import (
	"io"
	"log/slog"
)

// AppMode identifies how the binary was launched.
type AppMode string

// ModeCLI is the only mode codecortex runs in today.
const ModeCLI AppMode = "cli"

const (
	defaultServiceName        = "codecortex"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is the OTLP gRPC collector address. Empty disables
	// export and the providers become no-op.
	OTLPEndpoint string
	OTLPHeaders  map[string]string
	OTLPInsecure bool

	// SampleRatio is the trace sampling ratio. Zero samples every root span.
	SampleRatio float64

	// PrometheusTextfile, when set, receives the scan metrics in the
	// Prometheus text format on shutdown.
	PrometheusTextfile string

	LogLevel slog.Level
	LogJSON  bool
	// LogOutput defaults to stderr.
	LogOutput io.Writer

	ShutdownTimeoutSec int
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelInfo,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}
