// Package builtin ships recipe books that need no input files.
package builtin

import "github.com/vsinha/factorycalc/pkg/domain/entities"

// DesyncedDefaultScenario is the target used when no other is given
var DesyncedDefaultScenario = entities.Scenario{Item: "robotic", Rate: 4}

type recipe struct {
	name      entities.ItemName
	buildTime float64
	requires  []entities.RecipeLine
}

func needs(child entities.ItemName, quantity float64) entities.RecipeLine {
	return entities.RecipeLine{Child: child, Quantity: quantity}
}

// desyncedRecipes lists the Desynced production chain up to the robotics
// component, raw resources first
var desyncedRecipes = []recipe{
	{name: "iron_ore", buildTime: 3},
	{name: "iron_ingot", buildTime: 4, requires: []entities.RecipeLine{needs("iron_ore", 1)}},
	{name: "iron_plate", buildTime: 6, requires: []entities.RecipeLine{needs("iron_ingot", 2)}},
	{name: "iron_hardend_plate", buildTime: 8, requires: []entities.RecipeLine{needs("iron_ingot", 2), needs("iron_plate", 1)}},
	{name: "cristal", buildTime: 2.4},
	{name: "energy_plate", buildTime: 30, requires: []entities.RecipeLine{needs("cristal", 6), needs("iron_hardend_plate", 2)}},
	{name: "silica", buildTime: 3},
	{name: "coil", buildTime: 16, requires: []entities.RecipeLine{needs("silica", 1), needs("iron_plate", 1)}},
	{name: "silicium", buildTime: 16, requires: []entities.RecipeLine{needs("silica", 1)}},
	{name: "cable", buildTime: 20, requires: []entities.RecipeLine{needs("coil", 2), needs("cristal", 2), needs("silicium", 2)}},
	{name: "circuit", buildTime: 12, requires: []entities.RecipeLine{needs("cristal", 5), needs("iron_plate", 3)}},
	{name: "frame", buildTime: 40, requires: []entities.RecipeLine{needs("cable", 3), needs("energy_plate", 2)}},
	{name: "cristal_powder", buildTime: 10, requires: []entities.RecipeLine{needs("silica", 2), needs("cristal", 5)}},
	{name: "data_core", buildTime: 20, requires: []entities.RecipeLine{needs("cristal_powder", 1), needs("frame", 1)}},
	{name: "cristal_core", buildTime: 20, requires: []entities.RecipeLine{needs("energy_plate", 2), needs("cristal_powder", 2)}},
	{name: "optic_cable", buildTime: 10, requires: []entities.RecipeLine{needs("cristal_core", 2), needs("cable", 2)}},
	{name: "matrix", buildTime: 64, requires: []entities.RecipeLine{needs("optic_cable", 4), needs("frame", 2)}},
	{name: "robotic", buildTime: 60, requires: []entities.RecipeLine{needs("matrix", 1), needs("data_core", 1)}},
}

// DesyncedRecipeBook returns a fresh copy of the Desynced recipe set with
// its default scenario
func DesyncedRecipeBook() *entities.RecipeBook {
	book := &entities.RecipeBook{
		Items:     make([]entities.ItemDefinition, 0, len(desyncedRecipes)),
		Scenarios: []entities.Scenario{DesyncedDefaultScenario},
	}
	for _, r := range desyncedRecipes {
		book.Items = append(book.Items, entities.ItemDefinition{Name: r.name, BuildTime: r.buildTime})
		for _, line := range r.requires {
			line.Parent = r.name
			book.Lines = append(book.Lines, line)
		}
	}
	return book
}
