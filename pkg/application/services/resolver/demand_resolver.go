package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vsinha/factorycalc/pkg/application/dto"
	"github.com/vsinha/factorycalc/pkg/domain/entities"
	"github.com/vsinha/factorycalc/pkg/domain/services"
	apperrors "github.com/vsinha/factorycalc/pkg/errors"
)

// TraceStep describes one recorded node of a resolution
type TraceStep struct {
	Item   entities.ItemName
	Parent entities.ItemName // empty for the root
	Rate   float64
	Depth  int
}

// TraceFunc receives every recorded step in traversal order
type TraceFunc func(step TraceStep)

// Option configures a DemandResolver
type Option func(*DemandResolver)

// WithTrace registers a callback invoked for each recorded step
func WithTrace(fn TraceFunc) Option {
	return func(r *DemandResolver) {
		r.trace = fn
	}
}

// DemandResolver computes how many factories of every item are needed to
// sustain a target rate of a root item
type DemandResolver struct {
	traverser *RecipeTraverser
	trace     TraceFunc
}

// NewDemandResolver creates a new demand resolver
func NewDemandResolver(opts ...Option) *DemandResolver {
	r := &DemandResolver{
		traverser: NewRecipeTraverser(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve records root at targetRate and every transitive input at the rate
// its parent demands. Counts are raw (not rounded) and summed per item over
// every path. Inputs are validated first; failures are returned as
// *errors.StructuredError naming the offending item.
func (r *DemandResolver) Resolve(ctx context.Context, root *entities.Recipe, targetRate float64) (*dto.DemandResult, error) {
	if root == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "root recipe cannot be nil")
	}
	if !entities.IsPositiveFinite(targetRate) {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidRate,
			fmt.Sprintf("target rate for %s must be positive, got %v", root.Name, targetRate),
			map[string]any{apperrors.ContextKeyItem: string(root.Name)})
	}
	if err := services.ValidateReachable(root); err != nil {
		return nil, err
	}

	result := dto.NewDemandResult()
	visitor := &demandVisitor{result: result, trace: r.trace}

	if err := r.traverser.Traverse(ctx, root, targetRate, visitor); err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root.Name, err)
	}

	slog.Debug("resolved demand",
		"item", root.Name,
		"rate", targetRate,
		"items", len(result.FactoryCounts),
		"nodes", len(result.Edges))

	return result, nil
}

// demandVisitor implements NodeVisitor by recording every node into a result
type demandVisitor struct {
	result *dto.DemandResult
	trace  TraceFunc
}

func (v *demandVisitor) VisitNode(ctx context.Context, node NodeContext) error {
	v.result.Record(node.Recipe, node.Rate, node.Depth)

	step := TraceStep{
		Item:  node.Recipe.Name,
		Rate:  node.Rate,
		Depth: node.Depth,
	}
	if node.Parent != nil {
		step.Parent = node.Parent.Name
	}
	if v.trace != nil {
		v.trace(step)
	}
	slog.Debug("expanded item",
		"item", step.Item,
		"parent", step.Parent,
		"rate", step.Rate,
		"depth", step.Depth)

	return nil
}
