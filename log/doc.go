// Package log is a small structured logging layer over [log/slog].
//
// A [Logger] is an immutable value: options are applied when it is created
// with [Make] or derived with [Logger.Wrap], and [Logger.With] returns a new
// Logger carrying extra attributes. The zero Logger discards everything, so
// components may hold one without checking whether logging was configured.
//
// # Usage
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//	)
//	logger.Info("scan complete", slog.Int("count", 3))
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is used for per-line scanner
// events. The remaining levels match slog's.
//
// # Formats
//
// [FormatJSON] (default) and [FormatText]. With [WithPretty] both formats are
// rendered by colorizing handlers intended for terminals; colors are
// suppressed automatically when the output is not a terminal.
//
// # Time Layout
//
// [WithTimeLayout] accepts a named layout from the [time] package, compared
// case-insensitively and ignoring punctuation ("RFC3339", "rfc-3339-nano",
// "kitchen"), a short alias ("ms", "us", "ns"), or a literal layout string.
// An empty layout or "none" omits timestamps.
//
// # Package Logger
//
// [Config], [Debug], [Info], [Warn], [Error] and their Context variants
// operate on a process-wide default Logger writing to standard error.
package log
