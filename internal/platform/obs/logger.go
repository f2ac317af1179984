package obs

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

const (
	loggerKey ctxKey = "logger"
	RunIDKey  ctxKey = "run_id"
)

// NewLogger builds a console logger for development and a JSON logger for
// every other environment.
func NewLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Logger returns the context logger tagged with the run id, or a no-op logger.
func Logger(ctx context.Context) *zap.Logger {
	l, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok || l == nil {
		l = zap.NewNop()
	}
	if id, ok := ctx.Value(RunIDKey).(string); ok && id != "" {
		l = l.With(zap.String("run_id", id))
	}
	return l
}

// WithRunID tags the context with a fresh run id and returns it.
func WithRunID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, RunIDKey, id), id
}
