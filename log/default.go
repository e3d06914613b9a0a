package log

import (
	"log/slog"
	"os"
	"sync"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger = Make(os.Stderr)
)

// Default returns the package-level logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultLogger
}

// Config reconfigures the package-level logger. CLI flag handlers call this
// as flags are parsed so logging respects the flags immediately.
func Config(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLogger = defaultLogger.Wrap(opts...)
}

// Trace logs to the package-level logger at Trace level.
func Trace(msg string, attrs ...slog.Attr) { Default().Trace(msg, attrs...) }

// Debug logs to the package-level logger at Debug level.
func Debug(msg string, attrs ...slog.Attr) { Default().Debug(msg, attrs...) }

// Info logs to the package-level logger at Info level.
func Info(msg string, attrs ...slog.Attr) { Default().Info(msg, attrs...) }

// Warn logs to the package-level logger at Warn level.
func Warn(msg string, attrs ...slog.Attr) { Default().Warn(msg, attrs...) }

// Error logs to the package-level logger at Error level.
func Error(msg string, attrs ...slog.Attr) { Default().Error(msg, attrs...) }
