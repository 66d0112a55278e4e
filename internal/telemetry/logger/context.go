package logger

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const (
	// loggerKey is the context key for the logger.
	loggerKey contextKey = "skycli.logger"
	// invocationIDKey is the context key for the invocation ID.
	invocationIDKey contextKey = "skycli.invocation_id"
)

// NewInvocationID returns a fresh ID correlating all log lines of one
// command run.
func NewInvocationID() string {
	return ulid.Make().String()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context, falling back to the
// default logger.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithInvocationID adds an invocation ID to the context.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey, id)
}

// InvocationIDFromContext extracts the invocation ID from context.
func InvocationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(invocationIDKey).(string); ok {
		return id
	}
	return ""
}

// L extracts the context logger enriched with the invocation ID.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := InvocationIDFromContext(ctx); id != "" {
		l = l.With("invocation_id", id)
	}
	return l
}
