package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/hushlang/hush/cli/cmd"
	"github.com/hushlang/hush/pkg"
)

// CLI is the top-level command-line interface for hush.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Init cmd.Init `cmd:"" help:"Initialize configuration file"`
	Fmt  cmd.Fmt  `cmd:"" help:"Format a script in canonical form"`
	Repl cmd.Repl `cmd:"" help:"Start an interactive session"`

	Run cmd.Run `cmd:"" default:"withargs" help:"Run a script file or stdin"`
}

// Run executes the hush CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact: true,
				Summary: true,
				Tree:    true,
			}),
		kong.Configuration(resolveYAML, configFilePath),
		kong.Vars{
			"version":          pkg.Version,
			cmd.ConfigPathVar:  configFilePath,
			cmd.HistoryPathVar: historyPath(),
		},
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// Finalize logger configuration with all parsed values. The
	// TextUnmarshaler flag types apply level and format during parsing;
	// this applies the rest.
	cli.Log.start(ctx)

	// No-op unless a profiling mode was selected.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx, &cli)
}
