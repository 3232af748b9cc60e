// Package log is the process-wide structured logger. Output goes to stderr
// so it never mixes with reports written to stdout.
package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Verbosity levels
const (
	LevelQuiet = iota // Default: only errors and warnings
	LevelInfo         // -v: per-organization progress, counts
	LevelDebug        // -vv: API calls, partial pages, per-repository results
	LevelTrace        // -vvv: request-level detail
)

const slogLevelTrace = slog.Level(-8)

var (
	mu         sync.Mutex
	verbosity  int
	logger     *slog.Logger
	output     io.Writer
	inProgress bool // tracks if we have an in-progress line
)

// Initialize sets up the global logger with the specified verbosity level
func Initialize(level int, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	verbosity = level
	output = w

	var slogLevel slog.Level
	switch {
	case level >= LevelTrace:
		slogLevel = slogLevelTrace
	case level >= LevelDebug:
		slogLevel = slog.LevelDebug
	case level >= LevelInfo:
		slogLevel = slog.LevelInfo
	default:
		slogLevel = slog.LevelWarn
	}

	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel}))
}

// Info logs at info level (-v)
func Info(msg string, args ...any) {
	if Verbosity() >= LevelInfo {
		write(slog.LevelInfo, msg, args)
	}
}

// Debug logs at debug level (-vv)
func Debug(msg string, args ...any) {
	if Verbosity() >= LevelDebug {
		write(slog.LevelDebug, msg, args)
	}
}

// Trace logs at trace level (-vvv)
func Trace(msg string, args ...any) {
	if Verbosity() >= LevelTrace {
		write(slogLevelTrace, msg, args)
	}
}

// Warn logs at warn level (always visible)
func Warn(msg string, args ...any) {
	write(slog.LevelWarn, msg, args)
}

// Error logs at error level (always visible)
func Error(msg string, args ...any) {
	write(slog.LevelError, msg, args)
}

func write(level slog.Level, msg string, args []any) {
	mu.Lock()
	defer mu.Unlock()
	clearProgress()
	logger.Log(context.Background(), level, msg, args...)
}

// Progress prints a progress message with carriage return (no newline).
// Only shown at info level or higher.
func Progress(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbosity >= LevelInfo {
		inProgress = true
		_, _ = fmt.Fprintf(output, "\r"+format, args...)
	}
}

// ProgressDone completes a progress line with "done" and newline
func ProgressDone() {
	mu.Lock()
	defer mu.Unlock()
	if verbosity >= LevelInfo && inProgress {
		_, _ = fmt.Fprintln(output, " done")
		inProgress = false
	}
}

// clearProgress ensures we don't write over a progress line. Callers hold mu.
func clearProgress() {
	if inProgress {
		_, _ = fmt.Fprintln(output)
		inProgress = false
	}
}

// Verbosity returns the current verbosity level
func Verbosity() int {
	mu.Lock()
	defer mu.Unlock()
	return verbosity
}

// Deferred holds log output while the terminal belongs to the progress
// display. Flush hands it over once the display has exited.
type Deferred struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (d *Deferred) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Write(p)
}

// Flush writes everything held so far to w and empties the buffer.
func (d *Deferred) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.buf.WriteTo(w)
	return err
}

func init() {
	output = os.Stderr
	verbosity = LevelQuiet
	logger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}
