package logger

import (
	"context"

	"go.uber.org/zap"
)

// Request ids travel in the context under an unexported key so other
// packages can only reach them through these helpers.
type contextKey struct{}

var requestIDKey contextKey

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// FromCtx returns the global logger, tagged with the request id when the
// context carries one.
func FromCtx(ctx context.Context) *zap.Logger {
	l := L()
	if reqID := RequestIDFrom(ctx); reqID != "" {
		l = l.With(zap.String("request_id", reqID))
	}
	return l
}
