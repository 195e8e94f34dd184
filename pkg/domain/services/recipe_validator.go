package services

import (
	"fmt"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
	apperrors "github.com/vsinha/factorycalc/pkg/errors"
)

// ValidationResult contains the results of recipe book validation.
// Errors make the book unusable; warnings are informational.
type ValidationResult struct {
	HasCycles      bool
	CyclePaths     [][]entities.ItemName
	DuplicateLines []entities.RecipeLine
	UnknownItems   []entities.ItemName
	OrphanedItems  []entities.ItemName
	Errors         []*apperrors.StructuredError
	Warnings       []string
}

// IsValid reports whether no errors were found
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Err returns the first validation error, or nil
func (r *ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors[0]
}

func (r *ValidationResult) addError(code apperrors.ErrorCode, item entities.ItemName, format string, args ...any) {
	r.Errors = append(r.Errors, apperrors.NewWithContext(code, fmt.Sprintf(format, args...),
		map[string]any{apperrors.ContextKeyItem: string(item)}))
}

// ValidateRecipeBook performs comprehensive validation on flat recipe data
// before it is linked into a graph
func ValidateRecipeBook(book *entities.RecipeBook) *ValidationResult {
	result := &ValidationResult{
		CyclePaths:     make([][]entities.ItemName, 0),
		DuplicateLines: make([]entities.RecipeLine, 0),
		UnknownItems:   make([]entities.ItemName, 0),
		OrphanedItems:  make([]entities.ItemName, 0),
	}

	defined := make(map[entities.ItemName]bool, len(book.Items))
	for _, item := range book.Items {
		if item.Name == "" {
			result.addError(apperrors.ErrCodeInvalidRequest, item.Name, "item name cannot be empty")
			continue
		}
		if defined[item.Name] {
			result.addError(apperrors.ErrCodeInvalidRequest, item.Name, "item %s is defined more than once", item.Name)
			continue
		}
		defined[item.Name] = true
		if !entities.IsPositiveFinite(item.BuildTime) {
			result.addError(apperrors.ErrCodeInvalidBuildTime, item.Name,
				"build time for %s must be positive, got %v", item.Name, item.BuildTime)
		}
	}

	referenced := make(map[entities.ItemName]bool)
	hasChildren := make(map[entities.ItemName]bool)
	unknown := make(map[entities.ItemName]bool)
	for _, line := range book.Lines {
		referenced[line.Child] = true
		hasChildren[line.Parent] = true
		for _, name := range []entities.ItemName{line.Parent, line.Child} {
			if !defined[name] && !unknown[name] {
				unknown[name] = true
				result.UnknownItems = append(result.UnknownItems, name)
				result.addError(apperrors.ErrCodeNotFound, name, "item %s is referenced but not defined", name)
			}
		}
		if line.Parent == line.Child {
			result.addError(apperrors.ErrCodeCycleDetected, line.Parent, "item %s requires itself", line.Parent)
		}
		if !entities.IsPositiveFinite(line.Quantity) {
			result.addError(apperrors.ErrCodeInvalidQuantity, line.Parent,
				"quantity of %s in %s must be positive, got %v", line.Child, line.Parent, line.Quantity)
		}
	}

	// Detect cycles
	cycles := detectCycles(book.Items, buildAdjacencyMap(book.Lines))
	result.HasCycles = len(cycles) > 0
	result.CyclePaths = cycles
	for _, cycle := range cycles {
		result.addError(apperrors.ErrCodeCycleDetected, cycle[0], "recipe cycle detected: %v", cycle)
	}

	// Duplicate requirement lines are legal: each one is expanded on its own
	result.DuplicateLines = detectDuplicateLines(book.Lines)
	for _, line := range result.DuplicateLines {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%s requires %s more than once; each line is expanded separately", line.Parent, line.Child))
	}

	for _, item := range book.Items {
		if item.Name != "" && !referenced[item.Name] && !hasChildren[item.Name] && len(book.Items) > 1 {
			result.OrphanedItems = append(result.OrphanedItems, item.Name)
			result.Warnings = append(result.Warnings, fmt.Sprintf("item %s is not connected to any recipe", item.Name))
		}
	}

	return result
}

// buildAdjacencyMap creates a map of parent -> children relationships
func buildAdjacencyMap(lines []entities.RecipeLine) map[entities.ItemName][]entities.ItemName {
	adjacencyMap := make(map[entities.ItemName][]entities.ItemName)

	for _, line := range lines {
		children := adjacencyMap[line.Parent]

		// Avoid duplicate children in adjacency list
		found := false
		for _, child := range children {
			if child == line.Child {
				found = true
				break
			}
		}

		if !found {
			adjacencyMap[line.Parent] = append(children, line.Child)
		}
	}

	return adjacencyMap
}

// detectCycles uses DFS to find cycles, visiting items in declaration order
// so reports are stable
func detectCycles(items []entities.ItemDefinition, adjacencyMap map[entities.ItemName][]entities.ItemName) [][]entities.ItemName {
	visited := make(map[entities.ItemName]bool)
	recursionStack := make(map[entities.ItemName]bool)
	cycles := make([][]entities.ItemName, 0)

	for _, item := range items {
		if !visited[item.Name] {
			dfsDetectCycle(item.Name, adjacencyMap, visited, recursionStack, nil, &cycles)
		}
	}

	return cycles
}

// dfsDetectCycle performs depth-first search to detect cycles
func dfsDetectCycle(
	current entities.ItemName,
	adjacencyMap map[entities.ItemName][]entities.ItemName,
	visited map[entities.ItemName]bool,
	recursionStack map[entities.ItemName]bool,
	path []entities.ItemName,
	cycles *[][]entities.ItemName,
) {
	visited[current] = true
	recursionStack[current] = true
	path = append(path, current)

	for _, child := range adjacencyMap[current] {
		if child == current {
			continue // self references are reported per line
		}
		if !visited[child] {
			dfsDetectCycle(child, adjacencyMap, visited, recursionStack, path, cycles)
		} else if recursionStack[child] {
			for i, name := range path {
				if name == child {
					cycle := make([]entities.ItemName, 0, len(path)-i+1)
					cycle = append(cycle, path[i:]...)
					cycle = append(cycle, child) // close the cycle
					*cycles = append(*cycles, cycle)
					break
				}
			}
		}
	}

	recursionStack[current] = false
}

// detectDuplicateLines finds requirement lines repeating a parent/child pair
func detectDuplicateLines(lines []entities.RecipeLine) []entities.RecipeLine {
	type pair struct{ parent, child entities.ItemName }
	seen := make(map[pair]bool)
	duplicates := make([]entities.RecipeLine, 0)

	for _, line := range lines {
		key := pair{line.Parent, line.Child}
		if seen[key] {
			duplicates = append(duplicates, line)
		} else {
			seen[key] = true
		}
	}

	return duplicates
}

// ValidateReachable checks every item reachable from root before it is
// traversed: positive finite build times and quantities, and no cycles.
// The returned error is a *errors.StructuredError naming the offending item.
func ValidateReachable(root *entities.Recipe) error {
	if root == nil {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "root recipe cannot be nil")
	}

	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[*entities.Recipe]int)

	var visit func(r *entities.Recipe, path []entities.ItemName) error
	visit = func(r *entities.Recipe, path []entities.ItemName) error {
		path = append(path, r.Name)
		switch state[r] {
		case inProgress:
			return apperrors.NewWithContext(apperrors.ErrCodeCycleDetected,
				fmt.Sprintf("recipe cycle detected: %v", path),
				map[string]any{apperrors.ContextKeyItem: string(r.Name), "path": path})
		case done:
			return nil
		}
		state[r] = inProgress

		if !entities.IsPositiveFinite(r.BuildTime) {
			return apperrors.NewWithContext(apperrors.ErrCodeInvalidBuildTime,
				fmt.Sprintf("build time for %s must be positive, got %v", r.Name, r.BuildTime),
				map[string]any{apperrors.ContextKeyItem: string(r.Name)})
		}
		for i, req := range r.Requirements {
			if req.Item == nil {
				return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
					fmt.Sprintf("requirement %d of %s has no item", i+1, r.Name),
					map[string]any{apperrors.ContextKeyItem: string(r.Name)})
			}
			if !entities.IsPositiveFinite(req.Quantity) {
				return apperrors.NewWithContext(apperrors.ErrCodeInvalidQuantity,
					fmt.Sprintf("quantity of %s in %s must be positive, got %v", req.Item.Name, r.Name, req.Quantity),
					map[string]any{apperrors.ContextKeyItem: string(r.Name)})
			}
			if err := visit(req.Item, path); err != nil {
				return err
			}
		}

		state[r] = done
		return nil
	}

	return visit(root, nil)
}

// ValidateScenarios adds an error to result for every scenario whose item is
// not defined in book or whose rate is not a positive finite number
func ValidateScenarios(result *ValidationResult, book *entities.RecipeBook, scenarios []entities.Scenario) {
	defined := make(map[entities.ItemName]bool, len(book.Items))
	for _, item := range book.Items {
		defined[item.Name] = true
	}

	for _, s := range scenarios {
		if !defined[s.Item] {
			result.addError(apperrors.ErrCodeNotFound, s.Item, "scenario target %s is not defined", s.Item)
		}
		if !entities.IsPositiveFinite(s.Rate) {
			result.addError(apperrors.ErrCodeInvalidRate, s.Item, "scenario rate for %s must be positive, got %v", s.Item, s.Rate)
		}
	}
}
