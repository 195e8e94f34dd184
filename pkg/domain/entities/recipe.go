package entities

import (
	"fmt"
	"math"
)

// ItemName uniquely identifies a craftable item within a recipe graph
type ItemName string

// Requirement is one input of a recipe: Quantity units of Item are consumed
// per unit of the parent produced
type Requirement struct {
	Item     *Recipe
	Quantity float64
}

// Requires is shorthand for building a Requirement
func Requires(item *Recipe, quantity float64) Requirement {
	return Requirement{Item: item, Quantity: quantity}
}

// Recipe describes how one unit of an item is produced: how long it takes
// and which sub-items it consumes. Recipes are immutable once built.
type Recipe struct {
	Name         ItemName
	BuildTime    float64 // seconds per unit
	Requirements []Requirement
}

// NewRecipe creates a validated Recipe
func NewRecipe(name ItemName, buildTime float64, requirements ...Requirement) (*Recipe, error) {
	if name == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}
	if !IsPositiveFinite(buildTime) {
		return nil, fmt.Errorf("build time for %s must be positive, got %v", name, buildTime)
	}
	for i, req := range requirements {
		if req.Item == nil {
			return nil, fmt.Errorf("requirement %d of %s has no item", i+1, name)
		}
		if !IsPositiveFinite(req.Quantity) {
			return nil, fmt.Errorf("quantity of %s in %s must be positive, got %v", req.Item.Name, name, req.Quantity)
		}
	}

	reqs := make([]Requirement, len(requirements))
	copy(reqs, requirements)

	return &Recipe{
		Name:         name,
		BuildTime:    buildTime,
		Requirements: reqs,
	}, nil
}

// IsLeaf reports whether the recipe has no inputs
func (r *Recipe) IsLeaf() bool {
	return len(r.Requirements) == 0
}

// RequiredRate returns the factory count needed for req.Item so that a
// parent running at parentRate factories is continuously supplied:
// parentRate * (child build time * quantity) / parent build time
func (r *Recipe) RequiredRate(parentRate float64, req Requirement) float64 {
	return parentRate * (req.Item.BuildTime * req.Quantity) / r.BuildTime
}

// IsPositiveFinite reports whether v is a usable build time, quantity or rate
func IsPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
