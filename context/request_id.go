// Package context carries per-call identifiers through tool executions
// so log lines from one search can be correlated.
package context

import (
	stdctx "context"

	"github.com/google/uuid"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	toolNameKey
)

// NewRequestID generates a new unique request ID
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID adds a request ID to the context
func WithRequestID(parent stdctx.Context, requestID string) stdctx.Context {
	return stdctx.WithValue(parent, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request ID from the context
func RequestIDFromContext(ctx stdctx.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// EnsureRequestID returns ctx unchanged when it already carries a request ID,
// otherwise a child context with a fresh one.
func EnsureRequestID(ctx stdctx.Context) (stdctx.Context, string) {
	if id := RequestIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := NewRequestID()
	return WithRequestID(ctx, id), id
}

// WithToolName records which tool is executing.
func WithToolName(parent stdctx.Context, name string) stdctx.Context {
	return stdctx.WithValue(parent, toolNameKey, name)
}

// ToolNameFromContext returns the executing tool's name, if any.
func ToolNameFromContext(ctx stdctx.Context) string {
	name, _ := ctx.Value(toolNameKey).(string)
	return name
}
