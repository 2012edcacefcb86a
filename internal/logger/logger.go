package logger

import (
	"io"
	"log"
)

// Logger defines the interface for logging
type Logger interface {
	Log(format string, args ...interface{})
}

// NoopLogger implements a no-op logger
type NoopLogger struct{}

func (l *NoopLogger) Log(format string, args ...interface{}) {}

// StdLogger writes through a standard library logger
type StdLogger struct {
	l *log.Logger
}

// New creates a logger writing to w with a "pngme: " prefix
func New(w io.Writer) *StdLogger {
	return &StdLogger{l: log.New(w, "pngme: ", log.LstdFlags)}
}

func (s *StdLogger) Log(format string, args ...interface{}) {
	s.l.Printf(format, args...)
}

// DefaultLogger is the default logger instance
var DefaultLogger Logger = &NoopLogger{}

// SetLogger sets the default logger
func SetLogger(l Logger) {
	DefaultLogger = l
}

// Log logs a message using the default logger
func Log(format string, args ...interface{}) {
	DefaultLogger.Log(format, args...)
}
