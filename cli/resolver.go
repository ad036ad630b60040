package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/varscan/log"
	"github.com/ardnew/varscan/scan"
)

// resolve returns a [kong.ConfigurationLoader] for configuration files
// written as "name = value" lines, the same format varscan reads.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config")
//
// Flag names with hyphens (e.g., "log-level") use underscores in the file
// (e.g., "log_level"), since hyphens cannot appear in a name. Values are the
// raw text after "=" and are decoded by the flag's own type; lists are
// comma-separated. Lines that are not assignments are ignored, so comments
// need no special syntax.
//
// Example config file:
//
//	log_level = debug
//	log_pretty = false
//	scan_policy = chunk
//
// Command-line flags override config file values.
func resolve(ctx context.Context) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		vars, err := scan.ReadCached(ctx, r)
		if err != nil {
			// Keep whatever was read before the failure.
			log.WarnContext(ctx, "configuration incomplete",
				slog.Any("error", err),
				slog.Int("count", vars.Len()),
			)
		}

		return config(vars.ToMap()), nil
	}
}

// config implements [kong.Resolver] over scanned bindings.
type config map[string]string

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Look up the flag name first in case a caller built the map by hand,
	// then the underscore form used in files.
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
