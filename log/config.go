package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// Option modifies a Logger configuration.
type Option func(config) config

// FormatTime renders a record timestamp. An empty result omits the time.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the timestamp layout used without [WithTimeLayout].
const DefaultTimeLayout = time.RFC3339

const (
	// DefaultCaller is whether source locations are logged by default.
	DefaultCaller = false
	// DefaultPretty is whether colorized output is enabled by default.
	DefaultPretty = false
)

// config is the immutable configuration behind a Logger. Options receive and
// return copies, so a config is never shared between two Loggers.
type config struct {
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	return apply(WithDefaults(w)(config{}), opts...)
}

func apply(c config, opts ...Option) config {
	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// handlerOptions returns the slog options shared by all handlers.
func (c config) handlerOptions() *slog.HandlerOptions {
	formatTime := c.formatTime
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return &slog.HandlerOptions{
		AddSource: c.caller,
		Level:     slog.Level(c.level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return a
			}

			switch a.Key {
			case slog.TimeKey:
				t, ok := a.Value.Any().(time.Time)
				if !ok {
					return a
				}

				s := formatTime(t)
				if s == "" {
					return slog.Attr{}
				}

				return slog.String(slog.TimeKey, s)

			case slog.LevelKey:
				l, ok := a.Value.Any().(slog.Level)
				if !ok {
					return a
				}

				return slog.String(slog.LevelKey, strings.ToUpper(Level(l).String()))
			}

			return a
		},
	}
}

// handler builds the slog.Handler described by c.
func (c config) handler() slog.Handler {
	out := c.output
	if out == nil {
		out = io.Discard
	}

	opts := c.handlerOptions()

	switch {
	case c.pretty && c.format == FormatText:
		return newPrettyHandler(out, opts, false)
	case c.pretty && c.format == FormatJSON:
		return newPrettyHandler(out, opts, true)
	case c.format == FormatText:
		return slog.NewTextHandler(out, opts)
	case c.format == FormatJSON:
		return slog.NewJSONHandler(out, opts)
	default:
		return slog.DiscardHandler
	}
}

// WithDefaults resets every setting to its default and directs output to w.
// A nil w discards output.
func WithDefaults(w io.Writer) Option {
	return func(config) config {
		if w == nil {
			w = io.Discard
		}

		return config{
			output:     w,
			formatTime: makeFormatTimeFunc(DefaultTimeLayout),
			level:      DefaultLevel,
			format:     DefaultFormat,
			caller:     DefaultCaller,
			pretty:     DefaultPretty,
		}
	}
}

// WithOutput directs output to w. A nil w discards output.
func WithOutput(w io.Writer) Option {
	return func(c config) config {
		if w == nil {
			w = io.Discard
		}

		c.output = w

		return c
	}
}

// WithLevel sets the minimum level written.
func WithLevel(level Level) Option {
	return func(c config) config {
		c.level = level

		return c
	}
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(c config) config {
		c.format = format

		return c
	}
}

// WithTimeLayout sets the timestamp layout. See the package documentation for
// accepted names.
func WithTimeLayout(layout string) Option {
	return func(c config) config {
		c.formatTime = makeFormatTimeFunc(layout)

		return c
	}
}

// WithCaller includes the source location of each call when enable is true.
func WithCaller(enable bool) Option {
	return func(c config) config {
		c.caller = enable

		return c
	}
}

// WithPretty enables colorized, human-oriented output.
func WithPretty(enable bool) Option {
	return func(c config) config {
		c.pretty = enable

		return c
	}
}

var namedLayouts = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rubydate":    time.RubyDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"rfc1123":     time.RFC1123,
	"rfc1123z":    time.RFC1123Z,
	"kitchen":     time.Kitchen,
	"datetime":    time.DateTime,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"ms":          time.StampMilli,
	"stampmicro":  time.StampMicro,
	"us":          time.StampMicro,
	"stampnano":   time.StampNano,
	"ns":          time.StampNano,
	"none":        "",
}

// makeFormatTimeFunc resolves layout to a FormatTime. Named layouts are
// matched on their lowercase letters and digits only; anything else is used
// verbatim.
func makeFormatTimeFunc(layout string) FormatTime {
	key := strings.Map(func(r rune) rune {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			return r
		}

		return -1
	}, strings.ToLower(layout))

	if key == "" {
		return func(time.Time) string { return "" }
	}

	if named, ok := namedLayouts[key]; ok {
		layout = named
	}

	if layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
