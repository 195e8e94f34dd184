package csv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoader_LoadRecipeBook(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, RecipesFile, "name,build_time\niron_plate,3\niron_ingot,4\niron_ore,3\n")
	writeFile(t, dir, RequirementsFile, "parent,child,quantity\niron_plate,iron_ingot,1\niron_ingot,iron_ore,1.5\n")
	writeFile(t, dir, ScenariosFile, "item,rate\niron_plate,2\n")

	book, err := NewLoader().LoadRecipeBook(dir)
	require.NoError(t, err)

	assert.Equal(t, []entities.ItemDefinition{
		{Name: "iron_plate", BuildTime: 3},
		{Name: "iron_ingot", BuildTime: 4},
		{Name: "iron_ore", BuildTime: 3},
	}, book.Items)
	assert.Equal(t, []entities.RecipeLine{
		{Parent: "iron_plate", Child: "iron_ingot", Quantity: 1},
		{Parent: "iron_ingot", Child: "iron_ore", Quantity: 1.5},
	}, book.Lines)
	assert.Equal(t, []entities.Scenario{{Item: "iron_plate", Rate: 2}}, book.Scenarios)
}

func TestLoader_ScenariosOptional(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, RecipesFile, "name,build_time\nore,3\n")
	writeFile(t, dir, RequirementsFile, "parent,child,quantity\n")

	book, err := NewLoader().LoadRecipeBook(dir)
	require.NoError(t, err)
	assert.Len(t, book.Items, 1)
	assert.Empty(t, book.Lines)
	assert.Empty(t, book.Scenarios)
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name         string
		recipes      string
		requirements string
		wantErr      string
	}{
		{
			name:         "header mismatch",
			recipes:      "item,time\nore,3\n",
			requirements: "parent,child,quantity\n",
			wantErr:      "recipes CSV header mismatch",
		},
		{
			name:         "no data rows",
			recipes:      "name,build_time\n",
			requirements: "parent,child,quantity\n",
			wantErr:      "at least one data row",
		},
		{
			name:         "bad build time",
			recipes:      "name,build_time\nore,fast\n",
			requirements: "parent,child,quantity\n",
			wantErr:      "recipes CSV row 2: invalid build_time",
		},
		{
			name:         "bad quantity",
			recipes:      "name,build_time\nore,3\ningot,4\n",
			requirements: "parent,child,quantity\ningot,ore,x\n",
			wantErr:      "requirements CSV row 2: invalid quantity",
		},
		{
			name:         "column count",
			recipes:      "name,build_time\nore,3\n",
			requirements: "parent,child,quantity\ningot,ore\n",
			wantErr:      "requirements CSV row 2: expected 3 columns, got 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, RecipesFile, tt.recipes)
			writeFile(t, dir, RequirementsFile, tt.requirements)

			_, err := NewLoader().LoadRecipeBook(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoader_MissingRequirements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, RecipesFile, "name,build_time\nore,3\n")

	_, err := NewLoader().LoadRecipeBook(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open requirements file")
}

func TestWriteRecipeBook_RoundTrip(t *testing.T) {
	book := &entities.RecipeBook{
		Items: []entities.ItemDefinition{
			{Name: "cristal", BuildTime: 2.4},
			{Name: "circuit", BuildTime: 12},
		},
		Lines: []entities.RecipeLine{
			{Parent: "circuit", Child: "cristal", Quantity: 5},
		},
		Scenarios: []entities.Scenario{{Item: "circuit", Rate: 0.5}},
	}

	dir := filepath.Join(t.TempDir(), "book")
	require.NoError(t, WriteRecipeBook(dir, book))

	loaded, err := NewLoader().LoadRecipeBook(dir)
	require.NoError(t, err)
	assert.Equal(t, book, loaded)
}

func TestWriteRecipeBook_NoScenarios(t *testing.T) {
	book := &entities.RecipeBook{
		Items: []entities.ItemDefinition{{Name: "ore", BuildTime: 3}},
	}

	dir := t.TempDir()
	require.NoError(t, WriteRecipeBook(dir, book))

	_, err := os.Stat(filepath.Join(dir, ScenariosFile))
	assert.True(t, os.IsNotExist(err))

	loaded, err := NewLoader().LoadRecipeBook(dir)
	require.NoError(t, err)
	assert.Equal(t, book.Items, loaded.Items)
	assert.Empty(t, loaded.Lines)
}
