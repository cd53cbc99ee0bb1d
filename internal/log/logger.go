// Package log wraps log/slog with the component and request-scoped fields
// used across the service.
package log

import (
	"context"
	"log/slog"
	"os"
)

// Field names shared by middleware and handlers.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldUserID    = "user_id"
	FieldEntityID  = "entity_id"
	FieldMonth     = "month"
	FieldYear      = "year"
)

// Component names.
const (
	ComponentApp    = "app"
	ComponentHTTP   = "http"
	ComponentEvents = "events"
)

type contextKey struct{}

// New builds a text slog.Logger tagged with a component, honoring LOG_LEVEL.
func New(component string) *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(FieldComponent, component)
}

// Into stores a logger in the context; handlers retrieve it with FromContext
// so request-scoped fields (request id, user id) follow the request.
func Into(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the request logger, or the default logger when the
// context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
