package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger is the structured logging hook used by the scheduler and pool.
// observability/zaplog adapts zap to it.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

// F creates a new Field with the given key and value
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Level orders log severities for DefaultLogger.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// DefaultLogger writes one line per message through the standard log package:
//
//	[INFO] thread pool started pool=pool-4 workers=4
type DefaultLogger struct {
	min Level
	out *log.Logger
}

// NewDefaultLogger logs everything to stderr.
func NewDefaultLogger() *DefaultLogger {
	return NewLeveledLogger(os.Stderr, LevelDebug)
}

// NewLeveledLogger drops messages below minLevel.
func NewLeveledLogger(w io.Writer, minLevel Level) *DefaultLogger {
	return &DefaultLogger{min: minLevel, out: log.New(w, "", log.LstdFlags)}
}

func (l *DefaultLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *DefaultLogger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *DefaultLogger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *DefaultLogger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *DefaultLogger) log(level Level, msg string, fields []Field) {
	if level < l.min {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", level, msg)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Value)
	}
	l.out.Println(b.String())
}

// NoOpLogger discards all log messages. It is the scheduler default.
type NoOpLogger struct{}

func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(msg string, fields ...Field) {}
func (l *NoOpLogger) Info(msg string, fields ...Field)  {}
func (l *NoOpLogger) Warn(msg string, fields ...Field)  {}
func (l *NoOpLogger) Error(msg string, fields ...Field) {}
