package cmd

import (
	"context"
	"fmt"
)

// Count prints the number of variables bound in the sources.
type Count struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the count command. A scan that fails part way still reports
// the variables found before the failure.
func (c *Count) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	vars, err := loaderFrom(ctx).Load(ctx, c.Source)
	if err == nil || partial(err) {
		fmt.Fprintln(stdout(ctx), "Number of variables:", vars.Len())
	}

	return err
}
