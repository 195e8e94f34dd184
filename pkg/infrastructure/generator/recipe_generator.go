// Package generator builds synthetic recipe books for load testing.
package generator

import (
	"fmt"
	"math/rand"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
)

// Config controls the shape of a generated recipe book
type Config struct {
	Items     int   // total number of items
	MaxDepth  int   // maximum depth below the root items
	Scenarios int   // number of root items given a default scenario
	Seed      int64 // random seed; equal seeds give equal books
}

type node struct {
	name     entities.ItemName
	level    int
	children []edge
	parents  []*node
}

type edge struct {
	child    *node
	quantity float64
}

// Generator produces acyclic recipe books with shared sub-components
type Generator struct {
	config Config
	rand   *rand.Rand
}

// New creates a generator for config
func New(config Config) *Generator {
	return &Generator{
		config: config,
		rand:   rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds the recipe book. Items are declared roots first, then level
// by level; every requirement line points to a deeper or sibling item and
// never back to an ancestor.
func (g *Generator) Generate() (*entities.RecipeBook, error) {
	if g.config.Items < 1 {
		return nil, fmt.Errorf("items must be at least 1, got %d", g.config.Items)
	}
	if g.config.MaxDepth < 0 {
		return nil, fmt.Errorf("max depth cannot be negative, got %d", g.config.MaxDepth)
	}

	nodes, roots := g.generateTree()
	return g.toRecipeBook(nodes, roots), nil
}

func (g *Generator) generateTree() ([]*node, []*node) {
	var nodes []*node

	// About 2% of the items are roots
	numRoots := min(g.config.Items, max(1, g.config.Items/50+g.rand.Intn(3)))
	roots := make([]*node, 0, numRoots)
	for i := 0; i < numRoots; i++ {
		n := &node{name: entities.ItemName(fmt.Sprintf("root_%03d", i+1))}
		nodes = append(nodes, n)
		roots = append(roots, n)
	}

	generated := numRoots
	currentLevel := roots
	level := 0

	for level < g.config.MaxDepth && generated < g.config.Items {
		level++
		var nextLevel []*node

		for _, parent := range currentLevel {
			numChildren := 2 + g.rand.Intn(7)

			for c := 0; c < numChildren && generated < g.config.Items; c++ {
				// 20% chance to reuse an existing part
				var child *node
				if level > 1 && g.rand.Float64() < 0.2 {
					if candidates := g.shareable(nodes, level, parent); len(candidates) > 0 {
						child = candidates[g.rand.Intn(len(candidates))]
					}
				}

				if child == nil {
					child = &node{
						name:  entities.ItemName(fmt.Sprintf("part_l%d_%04d", level, generated)),
						level: level,
					}
					nodes = append(nodes, child)
					nextLevel = append(nextLevel, child)
					generated++
				}

				quantity := 1 + g.rand.Intn(5)
				if level > 2 {
					quantity += g.rand.Intn(5)
				}
				parent.children = append(parent.children, edge{child: child, quantity: float64(quantity)})
				child.parents = append(child.parents, parent)
			}
		}

		if len(nextLevel) == 0 {
			break
		}
		currentLevel = nextLevel
	}

	// Remaining items become raw resources of the deepest level
	for generated < g.config.Items {
		n := &node{
			name:  entities.ItemName(fmt.Sprintf("component_%04d", generated)),
			level: level + 1,
		}
		nodes = append(nodes, n)

		parent := currentLevel[g.rand.Intn(len(currentLevel))]
		parent.children = append(parent.children, edge{child: n, quantity: float64(1 + g.rand.Intn(10))})
		n.parents = append(n.parents, parent)

		generated++
	}

	return nodes, roots
}

// shareable lists parts parent may reuse without creating a cycle or a
// duplicate line
func (g *Generator) shareable(nodes []*node, level int, parent *node) []*node {
	var candidates []*node
	for _, n := range nodes {
		if n.level < level-1 || len(n.parents) >= 3 || n == parent {
			continue
		}
		if isAncestor(n, parent, make(map[*node]bool)) || hasChild(parent, n) {
			continue
		}
		candidates = append(candidates, n)
	}
	return candidates
}

func isAncestor(candidate, n *node, visited map[*node]bool) bool {
	if visited[n] {
		return false
	}
	visited[n] = true

	for _, parent := range n.parents {
		if parent == candidate || isAncestor(candidate, parent, visited) {
			return true
		}
	}
	return false
}

func hasChild(parent, child *node) bool {
	for _, e := range parent.children {
		if e.child == child {
			return true
		}
	}
	return false
}

func (g *Generator) toRecipeBook(nodes, roots []*node) *entities.RecipeBook {
	book := &entities.RecipeBook{
		Items: make([]entities.ItemDefinition, 0, len(nodes)),
	}

	for _, n := range nodes {
		// raw resources are quick, assemblies take longer
		buildTime := float64(1+g.rand.Intn(6)) / 2
		if len(n.children) > 0 {
			buildTime = float64(4 + g.rand.Intn(117)) / 2
		}
		book.Items = append(book.Items, entities.ItemDefinition{Name: n.name, BuildTime: buildTime})

		for _, e := range n.children {
			book.Lines = append(book.Lines, entities.RecipeLine{
				Parent:   n.name,
				Child:    e.child.name,
				Quantity: e.quantity,
			})
		}
	}

	for i := 0; i < g.config.Scenarios && i < len(roots); i++ {
		book.Scenarios = append(book.Scenarios, entities.Scenario{
			Item: roots[i].name,
			Rate: float64(1 + g.rand.Intn(4)),
		})
	}

	return book
}
