package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
	"github.com/vsinha/factorycalc/pkg/domain/services"
	"github.com/vsinha/factorycalc/pkg/infrastructure/repositories/memory"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check a recipe book for cycles, unknown items and invalid numbers",
		Description: `Reports every problem found in the recipe book instead of stopping at the
first one. Duplicate requirement lines and unconnected items are warnings;
everything else is an error and makes the command exit with status 1.

Targets given with --target, or the book's own scenarios, are checked too.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			book, err := LoadRecipeBook(cmd.String("recipes"))
			if err != nil {
				return fmt.Errorf("failed to load recipes: %w", err)
			}

			result := services.ValidateRecipeBook(book)

			scenarios := book.Scenarios
			if targets := cmd.StringSlice("target"); len(targets) > 0 {
				scenarios = make([]entities.Scenario, 0, len(targets))
				for _, t := range targets {
					s, err := ParseTarget(t)
					if err != nil {
						return err
					}
					scenarios = append(scenarios, s)
				}
			}
			services.ValidateScenarios(result, book, scenarios)

			err = writeOutput(cmd, func(w io.Writer) error {
				return writeValidation(w, book, scenarios, result)
			})
			if err != nil {
				return err
			}

			if !result.IsValid() {
				return cli.Exit(fmt.Sprintf("recipe book is invalid: %d errors", len(result.Errors)), 1)
			}
			return nil
		},
	}
}

func writeValidation(w io.Writer, book *entities.RecipeBook, scenarios []entities.Scenario, result *services.ValidationResult) error {
	fmt.Fprintf(w, "Recipe book: %d items, %d requirement lines, %d scenarios\n",
		len(book.Items), len(book.Lines), len(scenarios))

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\nErrors:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  [%s] %s\n", e.Code, e.Message)
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}
	if !result.IsValid() {
		return nil
	}

	repo, _, err := memory.NewRecipeRepositoryFromBook(book)
	if err != nil {
		return err
	}
	recipes, err := repo.GetAllRecipes()
	if err != nil {
		return err
	}
	var raw []string
	for _, recipe := range recipes {
		if recipe.IsLeaf() {
			raw = append(raw, string(recipe.Name))
		}
	}
	fmt.Fprintf(w, "\nRaw inputs: %s\n", strings.Join(raw, ", "))

	_, err = fmt.Fprintln(w, "\nOK")
	return err
}
