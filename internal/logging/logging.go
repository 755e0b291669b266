// Package logging holds the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = New(os.Stderr)
}

// New returns a logger writing text lines with full timestamps to w.
func New(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return l
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *logrus.Logger {
	l := New(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// GetLogger returns the shared logger instance.
func GetLogger() *logrus.Logger {
	return logger
}

// SetLevel sets the shared logger's level: debug, info, warn or error.
func SetLevel(level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}

// ParseLevel maps a config level name to a logrus level.
func ParseLevel(level string) (logrus.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel, nil
	case "info", "":
		return logrus.InfoLevel, nil
	case "warn", "warning":
		return logrus.WarnLevel, nil
	case "error":
		return logrus.ErrorLevel, nil
	default:
		return logrus.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// ForRun returns an entry tagged with the job name and a fresh run id, so
// interleaved output from watch-mode reruns can be told apart.
func ForRun(l logrus.FieldLogger, job string) *logrus.Entry {
	if l == nil {
		l = logger
	}
	return l.WithFields(logrus.Fields{
		"job": job,
		"run": uuid.NewString()[:8],
	})
}
