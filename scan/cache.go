package scan

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores scan results keyed by a hash of source content and
// scan options.
var globalCache sync.Map

// entry is the scan result for one cache key.
type entry struct {
	once sync.Once
	vars *Map
	err  error
}

// hashConfig encodes the options that affect scan results using gob and
// hashes them with xxh3.
func hashConfig(c config) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(c.capacity)
	_ = enc.Encode(c.increment)
	_ = enc.Encode(c.chunkSize)
	_ = enc.Encode(c.maxSize)
	_ = enc.Encode(int(c.policy))
	_ = enc.Encode(int(c.syntax))
	_ = enc.Encode(c.keepCR)

	return xxh3.Hash(buf.Bytes())
}

// cacheKey combines the content hash of data with the hash of the options
// that affect scan results.
func cacheKey(data []byte, cfg config) (key string, sourceHash, optsHash uint64) {
	sourceHash = xxh3.Hash(data)
	optsHash = hashConfig(cfg)

	return strconv.FormatUint(sourceHash^optsHash, 36), sourceHash, optsHash
}

// ReadCached reads r to the end and scans its content, reusing the result of
// any earlier scan of identical content with identical options.
//
// If reading r fails, the complete lines read before the failure are scanned
// without caching and returned with the error, as [Read] does.
//
// The returned Map is a copy owned by the caller.
func ReadCached(ctx context.Context, r io.Reader, opts ...Option) (*Map, error) {
	cfg := makeConfig(opts...)

	err := cfg.validate()
	if err != nil {
		return NewMap(), err
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		readErr := ErrStreamRead.Wrap(err).With(slog.String("source", "reader"))

		complete := data[:bytes.LastIndexByte(data, '\n')+1]

		// The read error takes precedence over any scan error.
		vars, _ := Read(ctx, bytes.NewReader(complete), opts...)

		return vars, readErr
	}

	key, sourceHash, optsHash := cacheKey(data, cfg)

	for retried := false; ; retried = true {
		value, hit := globalCache.LoadOrStore(key, new(entry))
		e := value.(*entry)

		cfg.logger.TraceContext(ctx, "cache lookup",
			slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
			slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
			slog.Bool("cache_hit", hit),
		)

		e.once.Do(func() {
			e.vars, e.err = Read(ctx, bytes.NewReader(data), opts...)
		})

		if e.err != nil {
			// Failed scans are not kept; a later call may succeed.
			globalCache.CompareAndDelete(key, e)
		}

		// The scan ran under another caller's context.
		if !retried && hit && canceled(e.err) && ctx.Err() == nil {
			continue
		}

		return e.vars.Clone(), e.err
	}
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// ClearCache removes all cached scan results.
func ClearCache() {
	globalCache.Clear()
}
