package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vsinha/factorycalc/pkg/application/dto"
	"github.com/vsinha/factorycalc/pkg/application/services/resolver"
	"github.com/vsinha/factorycalc/pkg/domain/entities"
	"github.com/vsinha/factorycalc/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	// Set up a small smelting chain
	plate, circuit, err := buildRecipes()
	if err != nil {
		fmt.Printf("❌ Invalid recipes: %v\n", err)
		os.Exit(1)
	}

	res := resolver.NewDemandResolver(resolver.WithTrace(output.TracePrinter(os.Stdout)))

	fmt.Println("🏭 Sizing 2 iron plates...")
	plates, err := res.Resolve(ctx, plate, 2)
	if err != nil {
		fmt.Printf("❌ Resolve failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()

	fmt.Println("🏭 Sizing 1 circuit...")
	circuits, err := res.Resolve(ctx, circuit, 1)
	if err != nil {
		fmt.Printf("❌ Resolve failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()

	// Each scenario keeps its raw counts; the merged plan takes the
	// larger whole number of factories per item
	combined := dto.Merge(plates, circuits)

	fmt.Println("📊 Factories needed:")
	for _, name := range combined.Order {
		fmt.Printf("  %-12s %d\n", name, combined.WholeFactories(name))
	}
	fmt.Println()

	fmt.Println("📈 Graphviz:")
	if err := output.RenderDiagram(os.Stdout, combined); err != nil {
		fmt.Printf("❌ Render failed: %v\n", err)
		os.Exit(1)
	}
}

func buildRecipes() (plate, circuit *entities.Recipe, err error) {
	ore, err := entities.NewRecipe("iron_ore", 3)
	if err != nil {
		return nil, nil, err
	}
	ingot, err := entities.NewRecipe("iron_ingot", 4, entities.Requires(ore, 1))
	if err != nil {
		return nil, nil, err
	}
	plate, err = entities.NewRecipe("iron_plate", 6, entities.Requires(ingot, 2))
	if err != nil {
		return nil, nil, err
	}
	cristal, err := entities.NewRecipe("cristal", 2.4)
	if err != nil {
		return nil, nil, err
	}
	circuit, err = entities.NewRecipe("circuit", 12, entities.Requires(cristal, 5), entities.Requires(plate, 3))
	if err != nil {
		return nil, nil, err
	}
	return plate, circuit, nil
}
