package logger

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap and enriches entries with the trace/span ids of the
// request context when one is present.
type Logger struct {
	base *zap.Logger
}

func New(level string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	base, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return &Logger{base: base}, nil
}

// NewNop returns a logger that discards everything. Handy in tests.
func NewNop() *Logger {
	return &Logger{base: zap.NewNop()}
}

func (l *Logger) Debug(msg string, fields ...zap.Field) { l.base.Debug(msg, fields...) }
func (l *Logger) Info(msg string, fields ...zap.Field)  { l.base.Info(msg, fields...) }
func (l *Logger) Warn(msg string, fields ...zap.Field)  { l.base.Warn(msg, fields...) }
func (l *Logger) Error(msg string, fields ...zap.Field) { l.base.Error(msg, fields...) }

// With returns a child logger carrying the given fields on every entry.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{base: l.base.With(fields...)}
}

// WithContext attaches trace_id/span_id fields when ctx carries a valid span.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	span := trace.SpanContextFromContext(ctx)
	if !span.IsValid() {
		return l
	}
	return &Logger{base: l.base.With(
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)}
}

func (l *Logger) Sync() {
	_ = l.base.Sync()
}
