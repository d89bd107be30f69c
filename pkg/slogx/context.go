package slogx

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/kyc/pkg/idx"
)

type loggerKey struct{}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// With returns ctx whose logger carries args on every record.
func With(ctx context.Context, args ...any) context.Context {
	return WithContext(ctx, FromContext(ctx).With(args...))
}

// WithRequestID scopes the ctx logger to a single request.
func WithRequestID(ctx context.Context, id idx.ID) context.Context {
	return With(ctx, "req_id", id.String())
}
