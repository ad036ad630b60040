package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/varscan/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"    enum:"${logLevelEnum}" help:"Set log level."`
	Format     logFormat `default:"json"    enum:"json,text"       help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                        help:"Set timestamp format (RFC3339, Kitchen, DateTime, none, or a Go layout)."`
	Caller     bool      `default:"false"                          help:"Include caller information."                                               negatable:""`
	Pretty     bool      `default:"true"                           help:"Enable colorized pretty printing."                                         negatable:""`
}

func (*logConfig) vars() kong.Vars {
	names := make([]string, 0, 5)
	for level := range log.Levels() {
		names = append(names, strings.ToLower(level))
	}

	return kong.Vars{
		"logLevelEnum": strings.Join(names, ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing. This ensures the
// logger is configured properly regardless of flag position on the command
// line.
//
// Boolean flags like Pretty don't go through encoding.TextUnmarshaler, and
// values from configuration files are resolved after parsing begins, so
// every logger flag is applied here first.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := strings.Cut(args[i], "=")

		negated := strings.HasPrefix(name, "--no-log-")
		if !negated && !strings.HasPrefix(name, "--log-") {
			continue
		}

		switch name {
		case "--log-level", "--log-format", "--log-time-layout":
			// Non-boolean flag: consume next arg as value if not assigned
			if !assigned && i+1 < len(args) && args[i+1] != "" &&
				!strings.HasPrefix(args[i+1], "-") {
				value = args[i+1]
				i++
			}

			f.set(name, value)

		case "--log-pretty", "--no-log-pretty", "--log-caller", "--no-log-caller":
			// Boolean flag: only parse value if explicitly assigned with =
			on := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				on = v
			}

			key := strings.TrimPrefix(strings.TrimPrefix(name, "--no-log-"), "--log-")
			f.toggle(key, on != negated)
		}
	}
}

func (f *logConfig) set(name, value string) {
	switch name {
	case "--log-level":
		_ = f.Level.UnmarshalText([]byte(value))

	case "--log-format":
		_ = f.Format.UnmarshalText([]byte(value))

	case "--log-time-layout":
		f.TimeLayout = value
		log.Config(log.WithTimeLayout(value))
	}
}

func (f *logConfig) toggle(name string, on bool) {
	switch name {
	case "pretty":
		f.Pretty = on
		log.Config(log.WithPretty(on))

	case "caller":
		f.Caller = on
		log.Config(log.WithCaller(on))
	}
}
