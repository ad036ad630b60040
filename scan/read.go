package scan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/readahead"
)

// StdinPath is the path that selects standard input in [ReadFile].
const StdinPath = "-"

// Read scans r with the configured policy and returns every binding found.
//
// On a fatal error the returned Map still holds every binding extracted
// before the failure. Cancelling ctx stops the scan between lines (or chunks)
// and returns ctx's error with the partial Map.
func Read(ctx context.Context, r io.Reader, opts ...Option) (*Map, error) {
	cfg := makeConfig(opts...)

	err := cfg.validate()
	if err != nil {
		return NewMap(), err
	}

	vars := NewMap()

	switch cfg.policy {
	case ChunkScanMatch:
		err = readChunks(ctx, r, cfg, vars)
	default:
		err = readLines(ctx, r, cfg, vars)
	}

	cfg.logger.TraceContext(ctx, "scan complete",
		slog.String("policy", cfg.policy.String()),
		slog.Int("count", vars.Len()),
		slog.Bool("failed", err != nil),
	)

	return vars, err
}

// readLines applies [AnchoredLineMatch].
func readLines(ctx context.Context, r io.Reader, cfg config, vars *Map) error {
	s, err := newScanner(ctx, r, cfg)
	if err != nil {
		return err
	}

	ext := NewExtractor(cfg.syntax)

	for line := range s.Lines() {
		err := ctx.Err()
		if err != nil {
			return err
		}

		b, ok := ext.Extract(line.Bytes)
		if !ok {
			continue
		}

		b.Line = line.Number
		vars.Set(b)
	}

	return s.Err()
}

// readChunks applies [ChunkScanMatch].
func readChunks(ctx context.Context, r io.Reader, cfg config, vars *Map) error {
	chunk, err := NewBuffer(cfg.chunkSize)
	if err != nil {
		return err
	}

	match := NewChunkMatcher(cfg.syntax)

	for index := 1; ; index++ {
		err := ctx.Err()
		if err != nil {
			return err
		}

		n, err := io.ReadFull(r, chunk.Data())

		match.Match(chunk.Data()[:n], func(b Binding) bool {
			if !cfg.keepCR {
				b.Value = strings.TrimSuffix(b.Value, "\r")
			}

			b.Line = index
			vars.Set(b)

			return true
		})

		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return nil
		default:
			return ErrStreamRead.Wrap(err).With(slog.Int("chunk", index))
		}
	}
}

// ReadFile opens path and scans it with [Read]. The path [StdinPath] reads
// standard input. Files ending in ".zst" or ".gz" are decompressed.
//
// A path that cannot be opened fails with [ErrStreamOpen] before any
// scanning begins.
func ReadFile(ctx context.Context, path string, opts ...Option) (*Map, error) {
	rc, err := Open(path)
	if err != nil {
		return NewMap(), err
	}
	defer rc.Close()

	vars, err := Read(ctx, rc, opts...)
	if err != nil {
		return vars, WrapError(err).With(slog.String("path", path))
	}

	return vars, nil
}

// Open opens path for scanning as [ReadFile] does. Reads are served from an
// asynchronous read-ahead buffer. The caller must close the result.
func Open(path string) (io.ReadCloser, error) {
	var src io.ReadCloser

	if path == StdinPath {
		src = io.NopCloser(os.Stdin)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, ErrStreamOpen.Wrap(err).With(slog.String("path", path))
		}

		src = f
	}

	dec, err := decompress(src, filepath.Ext(path))
	if err != nil {
		src.Close()

		return nil, ErrStreamOpen.Wrap(err).With(slog.String("path", path))
	}

	return &stream{
		ReadCloser: readahead.NewReader(dec),
		closers:    []io.Closer{dec, src},
	}, nil
}

// decompress wraps r in a decoder selected by the file extension.
func decompress(r io.ReadCloser, ext string) (io.ReadCloser, error) {
	switch strings.ToLower(ext) {
	case ".zst", ".zstd":
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}

		return dec.IOReadCloser(), nil

	case ".gz", ".gzip":
		return gzip.NewReader(r)

	default:
		return io.NopCloser(r), nil
	}
}

// stream closes a read-ahead reader followed by the readers beneath it.
type stream struct {
	io.ReadCloser

	closers []io.Closer
}

func (s *stream) Close() error {
	errs := []error{s.ReadCloser.Close()}

	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}

	return errors.Join(errs...)
}
