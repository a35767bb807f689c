package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"scan1c/internal/config"
)

// Setup configures the standard logrus logger from the log config section.
// Unknown levels fall back to info; format "json" selects JSON output.
func Setup(cfg config.LogConfig) {
	Configure(logrus.StandardLogger(), cfg, os.Stdout)
}

// Configure applies cfg to l and directs its output to w.
func Configure(l *logrus.Logger, cfg config.LogConfig, w io.Writer) {
	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	l.SetOutput(w)

	if strings.EqualFold(cfg.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
		return
	}
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
