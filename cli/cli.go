package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/varscan/cli/cmd"
	"github.com/ardnew/varscan/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// CLI is the top-level command-line interface for varscan.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Scan  scanConfig  `embed:"" group:"scan"  prefix:"scan-"`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Count  cmd.Count  `cmd:"" default:"withargs" help:"Count variables"`
	List   cmd.List   `cmd:""                    help:"List variables"`
	Get    cmd.Get    `cmd:""                    help:"Print the value of a variable"`
	Fmt    cmd.Fmt    `cmd:""                    help:"Format variables"`
	Browse cmd.Browse `cmd:""                    help:"Browse variables interactively"`
	Init   cmd.Init   `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the varscan CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := pkg.MkdirAll()
	if err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(baseConfig)

	vars := kong.Vars{
		"version":            pkg.Version,
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Scan.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Scan.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	loader, err := cli.Scan.loader(ctx)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithLoader(ctx, loader)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
