// Package logging is a small logrus wrapper: the core never decides
// where its logs go, a host binding can redirect Output. The parser and
// builder log through logrus's package-level logger, not through this
// wrapper.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger.
type Logger struct {
	*logrus.Logger
}

// New creates a logger instance. Level defaults to "info" and can be
// overridden with the LOG_LEVEL environment variable; format is text
// unless APP_ENV=production, in which case it's JSON.
func New() *Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	if os.Getenv("APP_ENV") == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &Logger{log}
}

// Fields is structured logging context.
type Fields logrus.Fields

// WithFields adds fields to the logging context.
func (l *Logger) WithFields(fields Fields) *logrus.Entry {
	return l.Logger.WithFields(logrus.Fields(fields))
}

// Noop returns a logger whose output is discarded, useful for library
// callers and tests that don't want log noise.
func Noop() *Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Logger{log}
}
