package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/ardnew/varscan/log"
	"github.com/ardnew/varscan/scan"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print results to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// Loader reads sources into a [scan.Map] with a fixed set of scan options.
type Loader struct {
	// Options are passed to every scan.
	Options []scan.Option
	// Cached selects [scan.ReadCached] so identical content is scanned once
	// per process.
	Cached bool
}

type loaderKey struct{}

// WithLoader returns a new context.Context carrying l.
func WithLoader(ctx context.Context, l Loader) context.Context {
	return context.WithValue(ctx, loaderKey{}, l)
}

// loaderFrom returns the Loader stored by [WithLoader], or the zero Loader.
func loaderFrom(ctx context.Context) Loader {
	l, _ := ctx.Value(loaderKey{}).(Loader)

	return l
}

// Load scans source, a file path or "-" for standard input. An empty source
// means standard input.
//
// A source that fails part way returns the bindings found before the
// failure together with the error.
func (l Loader) Load(ctx context.Context, source string) (*scan.Map, error) {
	if source == "" {
		source = scan.StdinPath
	}

	opts := append([]scan.Option{scan.WithLogger(log.Default())}, l.Options...)

	vars, err := l.read(ctx, source, opts)
	if err != nil {
		return vars, err
	}

	log.DebugContext(ctx, "source loaded",
		slog.String("source", source),
		slog.Int("count", vars.Len()),
		slog.Bool("cached", l.Cached),
	)

	return vars, nil
}

func (l Loader) read(
	ctx context.Context,
	src string,
	opts []scan.Option,
) (*scan.Map, error) {
	if !l.Cached {
		return scan.ReadFile(ctx, src, opts...)
	}

	rc, err := scan.Open(src)
	if err != nil {
		return scan.NewMap(), err
	}
	defer rc.Close()

	vars, err := scan.ReadCached(ctx, rc, opts...)
	if err != nil {
		return vars, scan.WrapError(err).With(slog.String("path", src))
	}

	return vars, nil
}

// partial reports whether err still left a usable, partially filled map.
func partial(err error) bool {
	return errors.Is(err, scan.ErrStreamRead) ||
		errors.Is(err, scan.ErrAllocation) ||
		errors.Is(err, context.Canceled)
}
