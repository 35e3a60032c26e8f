// Package observability wires structured logging, tracing, and metrics for
// treematch. Without an OTLP endpoint every provider is a no-op.
package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// AppMode identifies how the binary was launched.
type AppMode string

const (
	// ModeCLI is the command-line mode.
	ModeCLI AppMode = "cli"
	// ModeLibrary is used when the engine is embedded in another program.
	ModeLibrary AppMode = "library"
)

const (
	defaultServiceName        = "treematch"
	defaultShutdownTimeoutSec = 5
)

// Config holds all observability configuration.
type Config struct {
	// LogOutput receives log records. Nil means stderr.
	LogOutput io.Writer

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporters.
	OTLPHeaders map[string]string

	ServiceName    string
	ServiceVersion string
	Environment    string
	Mode           AppMode

	// OTLPEndpoint is the collector address, e.g. "localhost:4317".
	// Empty disables export.
	OTLPEndpoint string

	// SampleRatio is the trace sampling ratio. Zero samples every root span.
	SampleRatio float64

	LogLevel           slog.Level
	ShutdownTimeoutSec int
	OTLPInsecure       bool
	LogJSON            bool
}

// DefaultConfig returns a Config for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeCLI,
		LogLevel:           slog.LevelWarn,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// ParseLogLevel converts a level name (debug, info, warn, error; any case)
// to a slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level %q: %w", name, err)
	}

	return level, nil
}

func (cfg Config) logOutput() io.Writer {
	if cfg.LogOutput == nil {
		return os.Stderr
	}

	return cfg.LogOutput
}
