package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions bounds the names offered when a lookup misses.
const maxSuggestions = 3

// Get prints the value bound to a name.
type Get struct {
	Name string `arg:"" help:"Variable name to look up." name:"name"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	vars, err := loaderFrom(ctx).Load(ctx, g.Source)
	if err != nil {
		return err
	}

	value, ok := vars.Get(g.Name)
	if !ok {
		return ErrNotFound.With(
			slog.String("name", g.Name),
			slog.Any("suggestions", suggest(g.Name, vars.Names())),
		)
	}

	fmt.Fprintln(stdout(ctx), value)

	return nil
}

// suggest returns up to maxSuggestions names that fuzzy-match name, best
// match first.
func suggest(name string, names []string) []string {
	matches := fuzzy.Find(name, names)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Str
	}

	return out
}
