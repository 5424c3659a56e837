// Package tracing carries the per-request trace id through context.Context.
package tracing

import (
	"context"

	"github.com/google/uuid"
)

// TraceIDKey is the log field and response header suffix used for trace ids.
const TraceIDKey = "trace_id"

// HeaderTraceID is the HTTP header that carries a trace id in and out.
const HeaderTraceID = "X-Trace-Id"

type traceKey struct{}

// GetTraceID gets a trace ID from the context.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if traceID, ok := ctx.Value(traceKey{}).(string); ok {
		return traceID
	}
	return ""
}

// SetTraceID sets a trace ID to the context.
func SetTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	if traceID := GetTraceID(ctx); traceID != "" {
		return ctx, traceID
	}
	traceID := uuid.NewString()
	return SetTraceID(ctx, traceID), traceID
}
