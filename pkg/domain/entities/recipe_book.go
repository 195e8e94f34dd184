package entities

// ItemDefinition is the flat, loader-level form of a recipe header
type ItemDefinition struct {
	Name      ItemName
	BuildTime float64
}

// RecipeLine is the flat, loader-level form of one requirement edge
type RecipeLine struct {
	Parent   ItemName
	Child    ItemName
	Quantity float64
}

// Scenario is a target output rate for one root item
type Scenario struct {
	Item ItemName `json:"item" yaml:"item"`
	Rate float64  `json:"rate" yaml:"rate"`
}

// RecipeBook is everything a loader produces before the graph is linked:
// item definitions and requirement lines in declaration order, plus any
// default scenarios the source declares
type RecipeBook struct {
	Items     []ItemDefinition
	Lines     []RecipeLine
	Scenarios []Scenario
}

// LinesFor returns the requirement lines of parent in declaration order
func (b *RecipeBook) LinesFor(parent ItemName) []RecipeLine {
	var lines []RecipeLine
	for _, line := range b.Lines {
		if line.Parent == parent {
			lines = append(lines, line)
		}
	}
	return lines
}
