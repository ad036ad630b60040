package cmd

import (
	"context"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/varscan/cli/cmd/browse"
	"github.com/ardnew/varscan/log"
	"github.com/ardnew/varscan/scan"
)

// Browse opens an interactive fuzzy filter over the variable names.
type Browse struct {
	NoHistory bool `help:"Do not read or record query history."`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source" optional:""`
}

// Run executes the browse command.
func (b *Browse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	loader := loaderFrom(ctx)

	vars, err := loader.Load(ctx, b.Source)
	if err != nil {
		return err
	}

	opts := []browse.Option{browse.WithLogger(log.Default())}

	if h := b.history(ctx); h != nil {
		opts = append(opts, browse.WithHistory(h))
	}

	stdin := b.Source == "" || b.Source == scan.StdinPath

	if !stdin {
		opts = append(opts, browse.WithEditor(b.Source,
			func(ctx context.Context) (*scan.Map, error) {
				return loader.Load(ctx, b.Source)
			}))
	}

	var progOpts []tea.ProgramOption

	// Keys come from the terminal when stdin carries the input.
	if stdin {
		progOpts = append(progOpts, tea.WithInputTTY())
	}

	err = browse.Run(ctx, vars, opts, progOpts...)
	if err != nil {
		return ErrBrowse.Wrap(err)
	}

	return nil
}

// history loads the query history from the cache directory. A history that
// cannot be read is logged and browsing continues without one.
func (b *Browse) history(ctx context.Context) *browse.History {
	if b.NoHistory {
		return nil
	}

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return nil
	}

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok || cacheDir == "" {
		return nil
	}

	path := filepath.Join(cacheDir, browse.HistoryFile)
	h := browse.NewHistory(path)

	err := h.Load(ctx)
	if err != nil {
		log.WarnContext(ctx, "could not load history",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)

		return nil
	}

	return h
}
