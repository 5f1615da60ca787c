// Package logging builds the process logger. Codec packages never log; the
// store and the CLI take a *logrus.Logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"wldkit.dev/internal/config"
)

// New returns a logger for spec. LOG_LEVEL and LOG_FORMAT override the
// config values when set.
func New(spec config.LogSpec) *logrus.Logger {
	return newWithOutput(spec, os.Stderr)
}

func newWithOutput(spec config.LogSpec, stderr io.Writer) *logrus.Logger {
	log := logrus.New()

	lvl := spec.Level
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		lvl = v
	}
	level, err := logrus.ParseLevel(strings.TrimSpace(lvl))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	format := spec.Format
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok {
		format = v
	}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	out := stderr
	if spec.File != "" {
		out = io.MultiWriter(stderr, &lumberjack.Logger{
			Filename:   spec.File,
			MaxSize:    spec.MaxSizeMB,
			MaxBackups: spec.MaxBackups,
			MaxAge:     spec.MaxAgeDays,
			Compress:   true,
		})
	}
	log.SetOutput(out)
	return log
}

// Discard is a logger that drops everything, for tests and library callers
// that pass no logger.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
