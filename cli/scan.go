package cli

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/varscan/cli/cmd"
	"github.com/ardnew/varscan/log"
	"github.com/ardnew/varscan/scan"
)

type scanConfig struct {
	Capacity  int    `default:"${scanCapacity}"  help:"Initial line buffer size in bytes."`
	Increment int    `default:"${scanIncrement}" help:"Bytes added each time a line does not fit the buffer."`
	ChunkSize int    `default:"${scanChunkSize}" help:"Read size for the chunk policy."`
	MaxSize   int    `default:"0"                help:"Largest line buffer in bytes (0 for no limit)."`
	Policy    string `default:"anchored"         enum:"anchored,chunk"   help:"Match whole lines (anchored) or every assignment within fixed-size chunks (chunk)."`
	Syntax    string `default:"extended"         enum:"extended,plain"   help:"Allow '(' and ')' in names (extended) or only letters, digits and '_' (plain)."`
	KeepCR    bool   `default:"false"            help:"Keep a trailing carriage return as part of each value." name:"keep-cr" negatable:""`
	Cache     bool   `default:"true"             help:"Scan identical input content once per run."                          negatable:""`
}

func (*scanConfig) vars() kong.Vars {
	return kong.Vars{
		"scanCapacity":  strconv.Itoa(scan.DefaultCapacity),
		"scanIncrement": strconv.Itoa(scan.DefaultIncrement),
		"scanChunkSize": strconv.Itoa(scan.DefaultChunkSize),
	}
}

func (*scanConfig) group() kong.Group {
	var group kong.Group

	group.Key = "scan"
	group.Title = "Scanning options"

	return group
}

// options converts the flags into scan options. Sizes are validated by the
// scanner itself.
func (f *scanConfig) options() ([]scan.Option, error) {
	policy, err := scan.ParsePolicy(f.Policy)
	if err != nil {
		return nil, err
	}

	syntax, err := scan.ParseSyntax(f.Syntax)
	if err != nil {
		return nil, err
	}

	return []scan.Option{
		scan.WithCapacity(f.Capacity),
		scan.WithIncrement(f.Increment),
		scan.WithChunkSize(f.ChunkSize),
		scan.WithMaxSize(f.MaxSize),
		scan.WithPolicy(policy),
		scan.WithSyntax(syntax),
		scan.WithKeepCR(f.KeepCR),
	}, nil
}

// loader returns the command loader configured by the flags.
func (f *scanConfig) loader(ctx context.Context) (cmd.Loader, error) {
	opts, err := f.options()
	if err != nil {
		return cmd.Loader{}, err
	}

	log.DebugContext(ctx, "scanner configured",
		slog.Int("capacity", f.Capacity),
		slog.Int("increment", f.Increment),
		slog.Int("chunk_size", f.ChunkSize),
		slog.Int("max_size", f.MaxSize),
		slog.String("policy", f.Policy),
		slog.String("syntax", f.Syntax),
		slog.Bool("keep_cr", f.KeepCR),
		slog.Bool("cache", f.Cache),
	)

	return cmd.Loader{Options: opts, Cached: f.Cache}, nil
}
