// Package logging builds the charmbracelet loggers used across drivepicker.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a stderr logger appropriate for env. Production emits JSON,
// anything else emits timestamped text. An unparsable level falls back to
// info.
func New(env, level string) *log.Logger {
	return NewWriter(os.Stderr, env, level)
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, env, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}
	if strings.EqualFold(env, "production") {
		opts.Formatter = log.JSONFormatter
		opts.TimeFormat = time.RFC3339
	}
	return log.NewWithOptions(w, opts)
}
