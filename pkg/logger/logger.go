// Package logger provides structured logging utilities.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// ParseLevel parses a string into a zerolog level. Unknown values map to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger is a structured JSON logger taking alternating key/value pairs.
type Logger struct {
	zl zerolog.Logger
}

// New creates a new Logger writing JSON lines to output at the given level.
func New(output io.Writer, level string) *Logger {
	if output == nil {
		output = os.Stdout
	}
	zl := zerolog.New(output).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
	return &Logger{zl: zl}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a new Logger with additional fields.
func (l *Logger) With(keyvals ...interface{}) *Logger {
	return &Logger{zl: l.zl.With().Fields(fields(keyvals)).Logger()}
}

// Level returns the minimum level that is written.
func (l *Logger) Level() zerolog.Level {
	return l.zl.GetLevel()
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string, keyvals ...interface{}) {
	write(l.zl.Debug(), msg, keyvals)
}

// Info logs a message at info level.
func (l *Logger) Info(msg string, keyvals ...interface{}) {
	write(l.zl.Info(), msg, keyvals)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string, keyvals ...interface{}) {
	write(l.zl.Warn(), msg, keyvals)
}

// Error logs a message at error level.
func (l *Logger) Error(msg string, keyvals ...interface{}) {
	write(l.zl.Error(), msg, keyvals)
}

// write emits the event. Disabled levels hand back a nil event.
func write(e *zerolog.Event, msg string, keyvals []interface{}) {
	if e == nil {
		return
	}
	if len(keyvals) > 1 {
		e = e.Fields(fields(keyvals))
	}
	e.Msg(msg)
}

// fields pairs keyvals up; entries with a non-string key are dropped, as is a trailing odd value.
func fields(keyvals []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(keyvals)/2)
	for i := 0; i < len(keyvals)-1; i += 2 {
		if key, ok := keyvals[i].(string); ok {
			m[key] = keyvals[i+1]
		}
	}
	return m
}
