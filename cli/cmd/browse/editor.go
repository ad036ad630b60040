package browse

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/xyproto/env/v2"

	"github.com/ardnew/varscan/log"
	"github.com/ardnew/varscan/scan"
)

const defaultEditor = "vi"

// Reloader rescans the browsed sources.
type Reloader func(ctx context.Context) (*scan.Map, error)

// editCommand implements [tea.ExecCommand]. It opens the user's editor on
// the source file and rescans it when the editor exits.
type editCommand struct {
	path    string
	reload  Reloader
	ctxFunc func() context.Context
	logger  log.Logger
	vars    *scan.Map
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run opens the editor and rescans the sources. The rescanned map is kept
// even when the scan fails part way.
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	err := runEditor(ctx, c.stdin, c.stdout, c.stderr, c.path)
	if err != nil {
		return err
	}

	c.vars, err = c.reload(ctx)

	c.logger.TraceContext(
		ctx,
		"browse rescan",
		slog.String("path", c.path),
		slog.Int("count", c.vars.Len()),
		slog.Bool("success", err == nil),
	)

	return err
}

// editor returns the command used to edit files.
func editor() string {
	return env.Str("EDITOR", defaultEditor)
}

// runEditor launches the user's editor on the given file path.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	cmd := exec.CommandContext(ctx, editor(), path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}

	return cmd.Run()
}
