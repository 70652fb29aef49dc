// Package observability wires structured logging, tracing and metrics for
// nsmigrate runs.
package observability

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// AppMode says how the tool was invoked. It is attached to every log record
// and to the telemetry resource.
type AppMode string

// Application modes.
const (
	ModeApply   AppMode = "apply"
	ModeDryRun  AppMode = "dry-run"
	ModeExplain AppMode = "explain"
)

const (
	defaultServiceName        = "nsmigrate"
	defaultShutdownTimeoutSec = 5
)

// ErrUnknownLevel is returned by ParseLevel.
var ErrUnknownLevel = errors.New("unknown log level")

// Config holds observability settings.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Mode           AppMode

	LogLevel  slog.Level
	LogJSON   bool
	LogOutput io.Writer

	// OTLPEndpoint enables trace and metric export over gRPC. Empty keeps
	// tracing as a no-op; metrics still go to the local registry.
	OTLPEndpoint string
	OTLPInsecure bool
	OTLPHeaders  map[string]string
	SampleRatio  float64

	ShutdownTimeoutSec int
}

// DefaultConfig returns the settings used by the CLI before flags and
// config apply. The OTLP endpoint and headers come from the standard OTel
// environment variables.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               ModeApply,
		LogLevel:           slog.LevelInfo,
		LogOutput:          os.Stderr,
		OTLPEndpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPHeaders:        ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS")),
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// ParseLevel maps debug, info, warn and error onto slog levels.
// The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// ParseOTLPHeaders parses an OTLP headers string in "key=value,key=value"
// format. Returns nil for empty or invalid input.
func ParseOTLPHeaders(raw string) map[string]string {
	if raw == "" {
		return nil
	}

	result := make(map[string]string)

	for pair := range strings.SplitSeq(raw, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}

		result[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	if len(result) == 0 {
		return nil
	}

	return result
}
