// Package zaplog adapts zap to core.Logger.
package zaplog

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Swind/go-workstealing/core"
)

// Logger forwards core.Logger calls to a zap.Logger.
type Logger struct {
	l *zap.Logger
}

var _ core.Logger = (*Logger)(nil)

// New wraps l. A nil l falls back to zap.L().
func New(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.L()
	}
	return &Logger{l: l}
}

// NewProduction builds a JSON logger at the given level ("debug", "info",
// "warn", "error").
func NewProduction(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Zap returns the wrapped logger.
func (z *Logger) Zap() *zap.Logger { return z.l }

func (z *Logger) Debug(msg string, fields ...core.Field) { z.l.Debug(msg, toZap(fields)...) }
func (z *Logger) Info(msg string, fields ...core.Field)  { z.l.Info(msg, toZap(fields)...) }
func (z *Logger) Warn(msg string, fields ...core.Field)  { z.l.Warn(msg, toZap(fields)...) }
func (z *Logger) Error(msg string, fields ...core.Field) { z.l.Error(msg, toZap(fields)...) }

func toZap(fields []core.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = zap.Any(f.Key, f.Value)
	}
	return out
}
