// Package cmd implements the varscan subcommands. Each command reads its
// sources through the [Loader] stored in the command context and prints a
// view of the resulting variable map.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the native configuration file.
	ConfigIdentifier = "config"
)
