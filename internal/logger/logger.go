package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"clinica-ia/internal/config"
)

// New builds the application logger.
// Production uses JSON output for log aggregation; other environments get
// the human-readable text formatter unless LOG_FORMAT says otherwise.
func New(cfg config.LogConfig) *logrus.Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput is New with an explicit writer
func NewWithOutput(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	switch strings.ToLower(cfg.Format) {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
		log.WithField("level", cfg.Level).Warn("unknown log level, falling back to info")
	}
	log.SetLevel(level)

	return log
}

// Discard returns a logger that drops everything, for tests and defaults
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
