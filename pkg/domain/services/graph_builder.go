package services

import (
	"github.com/vsinha/factorycalc/pkg/domain/entities"
)

// BuildRecipeGraph validates a recipe book and links it into recipes whose
// requirements point at each other. Recipes are returned in declaration
// order; requirements keep line order. The book is rejected with the first
// validation error, so the returned graph is always acyclic.
func BuildRecipeGraph(book *entities.RecipeBook) ([]*entities.Recipe, *ValidationResult, error) {
	validation := ValidateRecipeBook(book)
	if err := validation.Err(); err != nil {
		return nil, validation, err
	}

	recipes := make([]*entities.Recipe, 0, len(book.Items))
	byName := make(map[entities.ItemName]*entities.Recipe, len(book.Items))
	for _, item := range book.Items {
		recipe := &entities.Recipe{
			Name:      item.Name,
			BuildTime: item.BuildTime,
		}
		recipes = append(recipes, recipe)
		byName[item.Name] = recipe
	}

	for _, line := range book.Lines {
		parent := byName[line.Parent]
		parent.Requirements = append(parent.Requirements, entities.Requires(byName[line.Child], line.Quantity))
	}

	return recipes, validation, nil
}
