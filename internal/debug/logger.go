// Package debug provides the process-wide structured logger built on log/slog.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	logger  *slog.Logger
	enabled bool
	mu      sync.RWMutex
)

func init() {
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Options configures the logger.
type Options struct {
	// Enable turns on debug level output. When false only warnings and errors
	// are written.
	Enable bool
	// JSON selects the JSON handler instead of the text handler.
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// Init initializes the logger. Debug messages are written only when enable
// is true.
func Init(enable bool) {
	Configure(Options{Enable: enable})
}

// Configure replaces the logger.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()

	enabled = opts.Enable

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := slog.LevelWarn
	if opts.Enable {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	} else {
		handler = slog.NewTextHandler(out, handlerOpts)
	}
	logger = slog.New(handler)
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Info logs an info message.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// Logger returns the underlying slog.Logger instance.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
