package memory

import (
	"fmt"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
	"github.com/vsinha/factorycalc/pkg/domain/repositories"
	"github.com/vsinha/factorycalc/pkg/domain/services"
	apperrors "github.com/vsinha/factorycalc/pkg/errors"
)

// RecipeRepository provides in-memory storage for a linked recipe graph
type RecipeRepository struct {
	recipes    []*entities.Recipe
	recipesMap map[entities.ItemName]int
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository(expectedRecipes int) *RecipeRepository {
	return &RecipeRepository{
		recipes:    make([]*entities.Recipe, 0, expectedRecipes),
		recipesMap: make(map[entities.ItemName]int, expectedRecipes),
	}
}

// NewRecipeRepositoryFromBook links book into a recipe graph and stores it.
// The validation result is returned even when linking fails.
func NewRecipeRepositoryFromBook(book *entities.RecipeBook) (*RecipeRepository, *services.ValidationResult, error) {
	recipes, validation, err := services.BuildRecipeGraph(book)
	if err != nil {
		return nil, validation, err
	}

	repo := NewRecipeRepository(len(recipes))
	if err := repo.LoadRecipes(recipes); err != nil {
		return nil, validation, err
	}
	return repo, validation, nil
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipes loads recipes into the repository
func (r *RecipeRepository) LoadRecipes(recipes []*entities.Recipe) error {
	for _, recipe := range recipes {
		if err := r.AddRecipe(recipe); err != nil {
			return err
		}
	}
	return nil
}

// AddRecipe adds a recipe to the repository. Names must be unique.
func (r *RecipeRepository) AddRecipe(recipe *entities.Recipe) error {
	if recipe == nil {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "recipe cannot be nil")
	}
	if _, exists := r.recipesMap[recipe.Name]; exists {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("duplicate recipe: %s", recipe.Name),
			map[string]any{apperrors.ContextKeyItem: string(recipe.Name)})
	}
	r.recipesMap[recipe.Name] = len(r.recipes)
	r.recipes = append(r.recipes, recipe)
	return nil
}

// GetRecipe returns the recipe for an item name
func (r *RecipeRepository) GetRecipe(name entities.ItemName) (*entities.Recipe, error) {
	index, exists := r.recipesMap[name]
	if !exists {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound,
			fmt.Sprintf("recipe not found: %s", name),
			map[string]any{apperrors.ContextKeyItem: string(name)})
	}
	return r.recipes[index], nil
}

// GetAllRecipes returns all recipes in load order
func (r *RecipeRepository) GetAllRecipes() ([]*entities.Recipe, error) {
	return append([]*entities.Recipe(nil), r.recipes...), nil
}
