package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/varscan/log"
	"github.com/ardnew/varscan/profile"
	"github.com/ardnew/varscan/scan"
)

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	vars := i.buildMap(ctx)

	err = vars.Format(ctx, file)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.Int("count", vars.Len()),
	)

	return nil
}

// buildMap collects the current flag values as bindings. Flag names use
// underscores in place of hyphens so that every name is an identifier.
func (i *Init) buildMap(ctx context.Context) *scan.Map {
	ktx := kongContextFrom(ctx)

	vars := scan.NewMap()
	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val, ok := flagValue(ktx, flag)
		if ok {
			vars.Set(scan.Binding{
				Name:  strings.ReplaceAll(flag.Name, "-", "_"),
				Value: val,
			})
		}
	}

	return vars
}

// flagValue renders a flag's current value in the form the configuration
// resolver reads back. Empty strings and empty lists are omitted.
func flagValue(ktx *kong.Context, flag *kong.Flag) (string, bool) {
	val := ktx.FlagValue(flag)
	if val == nil {
		return "", false
	}

	switch v := val.(type) {
	case bool:
		return strconv.FormatBool(v), true

	case string:
		return v, v != ""

	case []string:
		return strings.Join(v, ","), len(v) > 0

	case fmt.Stringer:
		s := v.String()

		return s, s != ""

	default:
		return fmt.Sprint(v), true
	}
}
