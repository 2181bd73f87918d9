// Package logging builds the structured logger of the tumbler command.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options control where and how much is logged.
type Options struct {
	// Path of the log file. Logging is disabled when empty since the
	// terminal belongs to the screen.
	Path       string
	Level      string
	MaxSizeMB  int
	MaxBackups int
}

// New returns a logger writing to a rotated file and a closer for it.
func New(opts Options) (*slog.Logger, io.Closer) {
	if opts.Path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil)
	}
	w := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    max(opts.MaxSizeMB, 1),
		MaxBackups: opts.MaxBackups,
	}
	return slog.New(NewHandler(w, opts.Level)), w
}

// NewHandler returns a text handler writing to w at the named level.
func NewHandler(w io.Writer, level string) slog.Handler {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		ReportTimestamp: true,
		Prefix:          "tumbler",
	})
}

// ParseLevel maps a level name to a log level. Unknown names yield info.
func ParseLevel(name string) log.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
