// Package logging builds the slog handlers used by the command line tools.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// levelSpec is a parsed level string. Trace is debug with caller
// reporting.
type levelSpec struct {
	level slog.Level
	trace bool
}

func parseLevel(logLevel string) (levelSpec, error) {
	switch strings.ToLower(strings.TrimSpace(logLevel)) {
	case "trace":
		return levelSpec{level: slog.LevelDebug, trace: true}, nil
	case "debug":
		return levelSpec{level: slog.LevelDebug}, nil
	case "", "info":
		return levelSpec{level: slog.LevelInfo}, nil
	case "warn", "warning":
		return levelSpec{level: slog.LevelWarn}, nil
	case "error":
		return levelSpec{level: slog.LevelError}, nil
	default:
		return levelSpec{}, fmt.Errorf("unknown log level %q", logLevel)
	}
}

// NewTextHandler returns a human-readable handler writing to writer, or
// stderr when writer is nil. Debug and trace levels add timestamps.
func NewTextHandler(logLevel string, writer io.Writer) (slog.Handler, error) {
	spec, err := parseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	if writer == nil {
		writer = os.Stderr
	}

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: spec.level <= slog.LevelDebug,
		ReportCaller:    spec.trace,
		Level:           charmLevel(spec.level),
	}), nil
}

// NewJSONHandler returns a JSON handler writing to writer, or stdout when
// writer is nil.
func NewJSONHandler(logLevel string, writer io.Writer) (slog.Handler, error) {
	spec, err := parseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	if writer == nil {
		writer = os.Stdout
	}

	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     spec.level,
		AddSource: spec.trace,
	}), nil
}

// New returns a logger in the given format and level.
func New(format, logLevel string, writer io.Writer) (*slog.Logger, error) {
	var (
		handler slog.Handler
		err     error
	)
	switch strings.ToLower(format) {
	case "", FormatText:
		handler, err = NewTextHandler(logLevel, writer)
	case FormatJSON:
		handler, err = NewJSONHandler(logLevel, writer)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

func charmLevel(level slog.Level) log.Level {
	switch {
	case level <= slog.LevelDebug:
		return log.DebugLevel
	case level <= slog.LevelInfo:
		return log.InfoLevel
	case level <= slog.LevelWarn:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}
