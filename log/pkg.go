package log

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
)

// DefaultContextProvider supplies the context for logging calls that do not
// take one.
var DefaultContextProvider = context.TODO

var defaultLog atomic.Pointer[Logger]

func init() {
	l := Make(os.Stderr)
	defaultLog.Store(&l)
}

// Default returns the package-level Logger.
func Default() Logger { return *defaultLog.Load() }

// SetDefault replaces the package-level Logger.
func SetDefault(l Logger) { defaultLog.Store(&l) }

// Config derives a new package-level Logger from the current one with opts
// applied.
func Config(opts ...Option) {
	l := Default().Wrap(opts...)
	defaultLog.Store(&l)
}

// With returns the package-level Logger with attrs added.
func With(attrs ...slog.Attr) Logger { return Default().With(attrs...) }

// TraceContext logs at [LevelTrace] with the package-level Logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelTrace, msg, attrs...)
}

// DebugContext logs at [LevelDebug] with the package-level Logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelDebug, msg, attrs...)
}

// Debug logs at [LevelDebug] with the package-level Logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), LevelDebug, msg, attrs...)
}

// InfoContext logs at [LevelInfo] with the package-level Logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelInfo, msg, attrs...)
}

// Info logs at [LevelInfo] with the package-level Logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), LevelInfo, msg, attrs...)
}

// WarnContext logs at [LevelWarn] with the package-level Logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelWarn, msg, attrs...)
}

// Warn logs at [LevelWarn] with the package-level Logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), LevelWarn, msg, attrs...)
}

// ErrorContext logs at [LevelError] with the package-level Logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, LevelError, msg, attrs...)
}

// Error logs at [LevelError] with the package-level Logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), LevelError, msg, attrs...)
}
