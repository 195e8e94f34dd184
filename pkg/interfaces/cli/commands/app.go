package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/vsinha/factorycalc/pkg/config"
	"github.com/vsinha/factorycalc/pkg/logging"
)

const name = "factorycalc"

// NewApp builds the factorycalc command tree. Flag defaults come from cfg;
// every global flag can also be set through its FACTORYCALC_* variable.
func NewApp(cfg *config.Config, version string, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:    name,
		Version: version,
		Usage:   "Size factory chains for a target production rate",
		Description: `Computes how many parallel factories of every item are needed to sustain
a target output rate, merges several targets into one plan, and renders the
production graph for Graphviz.

Recipes are read from a CSV directory (recipes.csv, requirements.csv,
scenarios.csv), a YAML/JSON file, or an HCL file. Without --recipes the
built-in Desynced recipe set is used.

# Examples

  factorycalc plan
  factorycalc plan -r recipes.yaml -t iron_plate=2 -t circuit=1 --format json
  factorycalc diagram -t robotic=4 -o robotic.dot
  factorycalc validate -r ./recipes
  factorycalc generate --items 500 --dest ./synthetic`,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "recipes",
				Aliases: []string{"r"},
				Value:   cfg.Recipes,
				Usage:   "recipe source: CSV directory, .yaml/.yml/.json or .hcl file (default: built-in Desynced recipes)",
				Sources: cli.EnvVars(config.EnvRecipes),
			},
			&cli.StringSliceFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "target as item=rate, repeatable (default: scenarios from the recipe book)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file, stdout when empty; a .zst suffix compresses with zstd",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print every expanded item with its rate to stderr",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   cfg.LogLevel,
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars(config.EnvLogLevel),
			},
			&cli.IntFlag{
				Name:    "cache-size",
				Value:   cfg.CacheSize,
				Usage:   "number of resolutions kept in the cache, 0 disables it",
				Sources: cli.EnvVars(config.EnvCacheSize),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			slog.Debug("starting", "name", name, "version", version)
			return ctx, nil
		},
		Commands: []*cli.Command{
			planCmd(cfg),
			diagramCmd(),
			validateCmd(),
			generateCmd(),
		},
	}
}
