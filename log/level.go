package log

import (
	"iter"
	"log/slog"
	"strings"
)

// Level is the severity of a log message.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the level of a Logger created without [WithLevel].
const DefaultLevel = LevelInfo

var levelNames = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
}

// String returns the lowercase level name, or slog's offset notation
// (e.g. "INFO+2") for levels between the named ones.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}

	return slog.Level(l).String()
}

// Levels returns an iterator over the named levels in increasing severity.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, l := range []Level{
			LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError,
		} {
			if !yield(l.String()) {
				return
			}
		}
	}
}

// ParseLevel parses a level name. Besides "trace", any string accepted by
// [slog.Level.UnmarshalText] is valid. Unrecognized input yields
// [DefaultLevel].
func ParseLevel(s string) Level {
	if strings.EqualFold(strings.TrimSpace(s), "trace") {
		return LevelTrace
	}

	var l slog.Level

	err := l.UnmarshalText([]byte(strings.TrimSpace(s)))
	if err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format is the encoding of log records.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the format of a Logger created without [WithFormat].
const DefaultFormat = FormatJSON

// String returns "text" or "json".
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Formats returns an iterator over the format names.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, f := range []Format{FormatJSON, FormatText} {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat parses "json" or "text". Unrecognized input yields
// [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return DefaultFormat
	}
}
