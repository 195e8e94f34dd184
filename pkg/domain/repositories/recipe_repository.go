package repositories

import "github.com/vsinha/factorycalc/pkg/domain/entities"

// RecipeRepository provides access to a linked recipe graph
type RecipeRepository interface {
	GetRecipe(name entities.ItemName) (*entities.Recipe, error)
	GetAllRecipes() ([]*entities.Recipe, error)
	LoadRecipes(recipes []*entities.Recipe) error
}
