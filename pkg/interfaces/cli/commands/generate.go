package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/vsinha/factorycalc/pkg/infrastructure/generator"
	"github.com/vsinha/factorycalc/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/factorycalc/pkg/infrastructure/repositories/yaml"
)

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Write a synthetic recipe book for load testing",
		Description: `Generates an acyclic recipe book with shared sub-components. The destination
is a CSV directory unless it ends in .yaml, .yml or .json.

# Examples

  factorycalc generate --items 100 --max-depth 5 --dest ./small
  factorycalc generate --items 30000 --max-depth 8 --scenarios 20 --dest large.yaml --seed 12345`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "items",
				Value: 100,
				Usage: "number of items to generate",
			},
			&cli.IntFlag{
				Name:  "max-depth",
				Value: 5,
				Usage: "maximum depth of the recipe tree",
			},
			&cli.IntFlag{
				Name:  "scenarios",
				Value: 1,
				Usage: "number of root items given a default scenario",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "random seed for reproducible books (default: current time)",
			},
			&cli.StringFlag{
				Name:     "dest",
				Aliases:  []string{"d"},
				Required: true,
				Usage:    "destination CSV directory or .yaml/.yml/.json file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			seed := cmd.Int64("seed")
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			cfg := generator.Config{
				Items:     int(cmd.Int("items")),
				MaxDepth:  int(cmd.Int("max-depth")),
				Scenarios: int(cmd.Int("scenarios")),
				Seed:      seed,
			}
			book, err := generator.New(cfg).Generate()
			if err != nil {
				return fmt.Errorf("failed to generate recipe book: %w", err)
			}

			dest := cmd.String("dest")
			switch strings.ToLower(filepath.Ext(dest)) {
			case ".yaml", ".yml", ".json":
				err = yaml.WriteRecipeBook(dest, book)
			default:
				err = csv.WriteRecipeBook(dest, book)
			}
			if err != nil {
				return err
			}

			slog.Info("generated recipe book",
				"dest", dest,
				"items", len(book.Items),
				"lines", len(book.Lines),
				"scenarios", len(book.Scenarios),
				"seed", seed)
			fmt.Fprintf(cmd.Root().Writer, "Generated %d items and %d requirement lines in %s (seed %d)\n",
				len(book.Items), len(book.Lines), dest, seed)
			return nil
		},
	}
}
