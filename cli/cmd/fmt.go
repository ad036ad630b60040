package cmd

import (
	"context"
	"log/slog"
)

// Fmt scans the sources and prints the variable map in the chosen format.
type Fmt struct {
	Env  Env  `cmd:"" default:"withargs" help:"Format as name = value lines (default)."`
	JSON JSON `cmd:""                    help:"Format as JSON."`
	YAML YAML `cmd:""                    help:"Format as YAML."`
}

// Env formats the map as sorted "name = value" lines, which scan back to the
// same map.
type Env struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the env command.
func (e *Env) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	vars, err := loaderFrom(ctx).Load(ctx, e.Source)
	if err != nil {
		return err
	}

	return vars.Format(ctx, stdout(ctx))
}

// JSON formats the map as a JSON object with sorted keys.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	vars, err := loaderFrom(ctx).Load(ctx, j.Source)
	if err != nil {
		return err
	}

	err = vars.FormatJSON(ctx, stdout(ctx), j.Indent)
	if err != nil {
		return ErrFormat.
			With(slog.String("format", "json")).
			Wrap(err)
	}

	return nil
}

// YAML formats the map as a YAML mapping with sorted keys.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	vars, err := loaderFrom(ctx).Load(ctx, y.Source)
	if err != nil {
		return err
	}

	err = vars.FormatYAML(ctx, stdout(ctx), y.Indent)
	if err != nil {
		return ErrFormat.
			With(slog.String("format", "yaml")).
			Wrap(err)
	}

	return nil
}
