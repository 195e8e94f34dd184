package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
	apperrors "github.com/vsinha/factorycalc/pkg/errors"
	"github.com/vsinha/factorycalc/pkg/infrastructure/repositories/builtin"
	"github.com/vsinha/factorycalc/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/factorycalc/pkg/infrastructure/repositories/hcl"
	"github.com/vsinha/factorycalc/pkg/infrastructure/repositories/yaml"
)

// LoadRecipeBook picks a loader from path: empty means the built-in Desynced
// book, a directory is read as CSV, and files are chosen by extension
func LoadRecipeBook(path string) (*entities.RecipeBook, error) {
	if path == "" {
		return builtin.DesyncedRecipeBook(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNotFound, fmt.Sprintf("recipe source %s not found", path), err)
	}
	if info.IsDir() {
		return csv.NewLoader().LoadRecipeBook(path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return yaml.NewLoader().LoadRecipeBook(path)
	case ".hcl":
		return hcl.NewLoader().LoadRecipeBook(path)
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported recipe file %s (expected a CSV directory or .yaml, .yml, .json, .hcl)", path))
	}
}

// ParseTarget parses "item=rate" into a scenario
func ParseTarget(s string) (entities.Scenario, error) {
	item, rawRate, ok := strings.Cut(s, "=")
	item = strings.TrimSpace(item)
	if !ok || item == "" {
		return entities.Scenario{}, apperrors.New(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid target %q (expected item=rate)", s))
	}

	rate, err := entities.ParseQuantity(rawRate)
	if err != nil {
		return entities.Scenario{}, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRate,
			fmt.Sprintf("invalid rate in target %q", s), err,
			map[string]any{apperrors.ContextKeyItem: item})
	}
	if !entities.IsPositiveFinite(rate) {
		return entities.Scenario{}, apperrors.NewWithContext(apperrors.ErrCodeInvalidRate,
			fmt.Sprintf("target rate for %s must be positive, got %v", item, rate),
			map[string]any{apperrors.ContextKeyItem: item})
	}

	return entities.Scenario{Item: entities.ItemName(item), Rate: rate}, nil
}

// scenariosFor returns the parsed targets, or the book's own scenarios when
// no target was given
func scenariosFor(targets []string, book *entities.RecipeBook) ([]entities.Scenario, error) {
	if len(targets) == 0 {
		if len(book.Scenarios) == 0 {
			return nil, apperrors.New(apperrors.ErrCodeInvalidRequest,
				"no targets given and the recipe book declares no scenarios (use --target item=rate)")
		}
		return book.Scenarios, nil
	}

	scenarios := make([]entities.Scenario, 0, len(targets))
	for _, t := range targets {
		s, err := ParseTarget(t)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}
