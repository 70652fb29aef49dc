package observability

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrService = "service"
	attrVersion = "version"
	attrMode    = "mode"
	attrFile    = "file"
)

type fileKey struct{}

// WithFile returns a context whose log records name the file being migrated.
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileKey{}, path)
}

// FileFromContext returns the file set by WithFile.
func FileFromContext(ctx context.Context) (string, bool) {
	path, ok := ctx.Value(fileKey{}).(string)

	return path, ok && path != ""
}

// ContextHandler is an [slog.Handler] that stamps every record with the
// run's service metadata, the migrated file and the OpenTelemetry span it
// was logged under. Service attributes are attached once at construction;
// file and span come from the record's context.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler wraps inner. An empty version is omitted.
func NewContextHandler(inner slog.Handler, service, version string, appMode AppMode) *ContextHandler {
	attrs := []slog.Attr{
		slog.String(attrService, service),
		slog.String(attrMode, string(appMode)),
	}

	if version != "" {
		attrs = append(attrs, slog.String(attrVersion, version))
	}

	return &ContextHandler{inner: inner.WithAttrs(attrs)}
}

// Enabled delegates to the inner handler.
func (ch *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return ch.inner.Enabled(ctx, level)
}

// Handle adds the context attributes, then delegates.
func (ch *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(contextAttrs(ctx)...)

	if err := ch.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("context handler: %w", err)
	}

	return nil
}

func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	if path, ok := FileFromContext(ctx); ok {
		attrs = append(attrs, slog.String(attrFile, path))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	return attrs
}

// WithAttrs implements [slog.Handler].
func (ch *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: ch.inner.WithAttrs(attrs)}
}

// WithGroup implements [slog.Handler].
func (ch *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: ch.inner.WithGroup(name)}
}

// NewLogger builds the context-aware logger described by cfg. Output goes to
// stderr when cfg.LogOutput is nil.
func NewLogger(cfg Config) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}

	out := cfg.LogOutput
	if out == nil {
		out = os.Stderr
	}

	var inner slog.Handler
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(out, handlerOpts)
	} else {
		inner = slog.NewTextHandler(out, handlerOpts)
	}

	service := cfg.ServiceName
	if service == "" {
		service = defaultServiceName
	}

	return slog.New(NewContextHandler(inner, service, cfg.ServiceVersion, cfg.Mode))
}
