package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/vsinha/factorycalc/pkg/application/services/orchestration"
	"github.com/vsinha/factorycalc/pkg/config"
	"github.com/vsinha/factorycalc/pkg/infrastructure/events"
	"github.com/vsinha/factorycalc/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/factorycalc/pkg/interfaces/cli/output"
)

func planCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Resolve every target and print the merged factory plan",
		Description: `Resolves each target independently, then merges them: every item keeps the
largest whole number of factories any target needs.

# Examples

  factorycalc plan -t robotic=4
  factorycalc plan -r ./recipes -t iron_plate=2 -t circuit=1 --format yaml -o plan.yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   cfg.Format,
				Usage:   fmt.Sprintf("output format (%s)", strings.Join(output.Formats, ", ")),
				Sources: cli.EnvVars(config.EnvFormat),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format := strings.ToLower(cmd.String("format"))
			if !slices.Contains(output.Formats, format) {
				return fmt.Errorf("unknown output format: %q", format)
			}
			return runPlan(ctx, cmd, format)
		},
	}
}

func diagramCmd() *cli.Command {
	return &cli.Command{
		Name:  "diagram",
		Usage: "Print the merged plan as a Graphviz digraph",
		Description: `Same as "plan --format dot". Pipe the output to Graphviz:

  factorycalc diagram -t robotic=4 | dot -Tsvg > robotic.svg`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runPlan(ctx, cmd, output.FormatDot)
		},
	}
}

func runPlan(ctx context.Context, cmd *cli.Command, format string) error {
	source := cmd.String("recipes")
	slog.Debug("loading recipes", "source", source)

	book, err := LoadRecipeBook(source)
	if err != nil {
		return fmt.Errorf("failed to load recipes: %w", err)
	}

	repo, validation, err := memory.NewRecipeRepositoryFromBook(book)
	if err != nil {
		return fmt.Errorf("invalid recipe book: %w", err)
	}
	for _, warning := range validation.Warnings {
		slog.Warn("recipe book warning", "warning", warning)
	}

	scenarios, err := scenariosFor(cmd.StringSlice("target"), book)
	if err != nil {
		return err
	}
	scenarioRepo := memory.NewScenarioRepository()
	if err := scenarioRepo.LoadScenarios(scenarios); err != nil {
		return err
	}

	var opts []orchestration.Option
	if cmd.Bool("trace") {
		bus := events.NewBus()
		defer bus.Subscribe(output.TraceHandler(cmd.Root().ErrWriter), output.TraceEventTypes...)()
		opts = append(opts, orchestration.WithPublisher(bus))
	}

	orchestrator, err := orchestration.NewPlanningOrchestrator(repo, int(cmd.Int("cache-size")), opts...)
	if err != nil {
		return err
	}

	result, err := orchestrator.PlanScenarios(ctx, scenarioRepo)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}

	return writeOutput(cmd, func(w io.Writer) error {
		return output.Write(w, result, format)
	})
}
