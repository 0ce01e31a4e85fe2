package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// ContextWithRequestID stores a request ID for WithContext to pick up.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// correlation returns the correlation fields carried by ctx.
func correlation(ctx context.Context) map[string]string {
	out := make(map[string]string, 3)
	if id := RequestIDFromContext(ctx); id != "" {
		out[FieldRequestID] = id
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		out[FieldTraceID] = sc.TraceID().String()
		out[FieldSpanID] = sc.SpanID().String()
	}
	return out
}
