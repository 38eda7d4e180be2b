package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger is the minimal logging surface shared by all server components.
// Kept deliberately small: structured fields plus ctx passthrough for
// trace/span correlation.
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	WithContext(ctx context.Context) Logger
}
