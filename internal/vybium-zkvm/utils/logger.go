package utils

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a text logger writing to out at the configured level.
// An unparsable level falls back to info; Validate reports it earlier.
func NewLogger(cfg *Config, out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// DiscardLogger returns a logger that drops everything, for library callers
// that do not pass one.
func DiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
