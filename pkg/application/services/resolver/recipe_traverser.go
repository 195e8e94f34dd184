package resolver

import (
	"context"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
)

// NodeContext provides context information during recipe traversal
type NodeContext struct {
	Recipe   *entities.Recipe
	Parent   *entities.Recipe // nil for the root
	Quantity float64          // units consumed per parent unit; 0 for the root
	Rate     float64          // factories required on this path
	Depth    int
}

// NodeVisitor defines the interface for processing nodes during traversal
type NodeVisitor interface {
	// VisitNode is called once per node per path, in depth-first pre-order
	VisitNode(ctx context.Context, node NodeContext) error
}

// VisitorFunc adapts a function to NodeVisitor
type VisitorFunc func(ctx context.Context, node NodeContext) error

// VisitNode calls f
func (f VisitorFunc) VisitNode(ctx context.Context, node NodeContext) error {
	return f(ctx, node)
}

// RecipeTraverser walks a recipe graph, carrying each node's required rate
// down to its inputs. There is no memoization: an item reachable over
// several paths is visited once per path, each time with that path's rate.
// The walk uses an explicit stack, so depth is not limited by the call stack.
// Callers must ensure the graph is acyclic (see services.ValidateReachable).
type RecipeTraverser struct{}

// NewRecipeTraverser creates a new recipe traverser
func NewRecipeTraverser() *RecipeTraverser {
	return &RecipeTraverser{}
}

// Traverse visits root at rate and then every transitive input
func (t *RecipeTraverser) Traverse(
	ctx context.Context,
	root *entities.Recipe,
	rate float64,
	visitor NodeVisitor,
) error {
	stack := []NodeContext{{Recipe: root, Rate: rate}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := visitor.VisitNode(ctx, node); err != nil {
			return err
		}

		// Push in reverse so the first requirement is expanded first
		reqs := node.Recipe.Requirements
		for i := len(reqs) - 1; i >= 0; i-- {
			stack = append(stack, NodeContext{
				Recipe:   reqs[i].Item,
				Parent:   node.Recipe,
				Quantity: reqs[i].Quantity,
				Rate:     node.Recipe.RequiredRate(node.Rate, reqs[i]),
				Depth:    node.Depth + 1,
			})
		}
	}

	return nil
}
