package logger

import (
	"context"

	"go.uber.org/zap"
)

type requestLoggerKey struct{}

// WithRequest derives the per-request logger from base, tagged with the
// request ID, and stores it in ctx for handlers further down the chain.
func WithRequest(ctx context.Context, base *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	l := base.With(zap.String("request_id", requestID))
	return context.WithValue(ctx, requestLoggerKey{}, l), l
}

// FromContext returns the request logger stored by WithRequest. Contexts
// created outside an HTTP request get a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(requestLoggerKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
