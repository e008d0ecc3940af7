// Package logger provides leveled logging for lexroster.
// Warnings and errors are always written. When verbose mode is enabled via
// the --verbose flag, debug and info messages are written too, to help
// operators follow ingestion and the search fallback path.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	verbose bool
	pretty  bool
	output  io.Writer = os.Stderr
	zlog              = build()
)

// build creates the zerolog logger from the current settings
// (caller must hold the write lock, or be package init).
func build() zerolog.Logger {
	w := output
	if pretty {
		w = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339, NoColor: true}
	}
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", "lexroster").
		Logger()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	zlog = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetPretty switches between JSON lines (default) and human-readable
// console output.
func SetPretty(p bool) {
	mu.Lock()
	defer mu.Unlock()
	pretty = p
	zlog = build()
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	zlog = build()
}

// Get returns the underlying zerolog logger for callers that want
// structured fields.
func Get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := zlog
	return &l
}

// Debug writes a debug message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	zlog.Debug().Msgf(format, args...)
}

// Section marks the start of a pipeline stage if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	zlog.Debug().Str("section", name).Msg("=== " + name + " ===")
}

// Info writes an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	zlog.Info().Msgf(format, args...)
}

// Warn writes a warning message.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	zlog.Warn().Msgf(format, args...)
}

// Error writes an error message.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	zlog.Error().Msgf(format, args...)
}
