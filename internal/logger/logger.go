// Package logger provides levelled logging for the docu CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace each pipeline step. Warnings and errors
// are always printed.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	base              = newCharmLogger(os.Stderr, false)
)

func newCharmLogger(w io.Writer, v bool) *charmlog.Logger {
	level := charmlog.WarnLevel
	if v {
		level = charmlog.DebugLevel
	}
	return charmlog.NewWithOptions(w, charmlog.Options{
		Level:           level,
		ReportTimestamp: v,
		TimeFormat:      "15:04:05",
	})
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	base = newCharmLogger(output, v)
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	base = newCharmLogger(w, verbose)
}

// With returns a structured logger carrying the given key/value pairs.
func With(keyvals ...any) *charmlog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With(keyvals...)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Debug(fmt.Sprintf(format, args...))
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	base.Debug(fmt.Sprintf("=== %s ===", name))
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		base.Info(fmt.Sprintf(format, args...))
	}
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Warn(fmt.Sprintf(format, args...))
}

// Error prints an error message.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	base.Error(fmt.Sprintf(format, args...))
}
