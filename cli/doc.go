// Package cli contains the command line interface for varscan.
//
// # Usage
//
//	varscan [flags] [count] [SOURCE]
//	varscan list [--where EXPR] [SOURCE]
//	varscan get NAME [SOURCE]
//	varscan fmt {env|json|yaml} [SOURCE]
//	varscan browse [SOURCE]
//	varscan init [--force]
//
// SOURCE is a file path or '-' (the default) for stdin; files ending in ".gz" or
// ".zst" are decompressed.
//
// # Configuration
//
// Flag defaults are read from two files in the configuration directory,
// when present:
//
//   - config.json: a JSON object keyed by flag name
//   - config: "name = value" lines, read with the scanner itself
//
// In the native file, hyphens in flag names become underscores:
//
//	log_level = debug
//	scan_policy = chunk
//
// The init command writes the current flag values to the native file.
// VARSCAN_CONFIG_DIR and VARSCAN_CACHE_DIR override the default directories.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Scanning Options
//
//   - --scan-capacity, --scan-increment: initial line buffer size and growth
//     step
//   - --scan-max-size: upper bound for the line buffer
//   - --scan-policy: anchored (whole lines) or chunk (fixed-size reads)
//   - --scan-chunk-size: read size for the chunk policy
//   - --scan-syntax: extended (names may contain parentheses) or plain
//   - --scan-keep-cr: keep a trailing carriage return in values
//   - --scan-cache: scan identical content once per run
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: the pprof
//     directory under the cache directory)
package cli
