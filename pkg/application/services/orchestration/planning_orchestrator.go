package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vsinha/factorycalc/pkg/application/dto"
	"github.com/vsinha/factorycalc/pkg/application/services/resolver"
	"github.com/vsinha/factorycalc/pkg/domain/entities"
	"github.com/vsinha/factorycalc/pkg/domain/repositories"
	apperrors "github.com/vsinha/factorycalc/pkg/errors"
	"github.com/vsinha/factorycalc/pkg/infrastructure/events"
)

type cacheKey struct {
	item entities.ItemName
	rate float64
}

// Option configures a PlanningOrchestrator
type Option func(*PlanningOrchestrator)

// WithPublisher publishes an ItemExpanded event for every recorded step and a
// ResolutionCompleted event per scenario
func WithPublisher(p events.Publisher) Option {
	return func(po *PlanningOrchestrator) {
		po.publisher = p
	}
}

// PlanningOrchestrator resolves a set of scenarios against a recipe graph
// and merges the resolutions into one combined requirement
type PlanningOrchestrator struct {
	recipeRepo repositories.RecipeRepository
	cache      *lru.Cache[cacheKey, *dto.DemandResult]
	publisher  events.Publisher
}

// NewPlanningOrchestrator creates a new planning orchestrator. A cacheSize of
// zero or less disables the resolution cache.
func NewPlanningOrchestrator(
	recipeRepo repositories.RecipeRepository,
	cacheSize int,
	opts ...Option,
) (*PlanningOrchestrator, error) {
	po := &PlanningOrchestrator{
		recipeRepo: recipeRepo,
	}

	if cacheSize > 0 {
		cache, err := lru.New[cacheKey, *dto.DemandResult](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create resolution cache: %w", err)
		}
		po.cache = cache
	}

	for _, opt := range opts {
		opt(po)
	}

	return po, nil
}

// Plan resolves every scenario in order and merges the results. Cached
// resolutions are shared between runs and must be treated as read-only.
func (po *PlanningOrchestrator) Plan(ctx context.Context, scenarios []entities.Scenario) (*dto.PlanResult, error) {
	if len(scenarios) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "no scenarios provided for planning")
	}

	start := time.Now()
	runID := uuid.New().String()

	result := &dto.PlanResult{
		RunID:       runID,
		Scenarios:   append([]entities.Scenario(nil), scenarios...),
		Resolutions: make([]*dto.DemandResult, 0, len(scenarios)),
	}

	for i, scenario := range scenarios {
		resolution, err := po.resolveScenario(ctx, StreamID(runID, i, scenario), scenario)
		if err != nil {
			return nil, err
		}
		result.Resolutions = append(result.Resolutions, resolution)
	}

	result.Combined = dto.Merge(result.Resolutions...)
	result.Duration = time.Since(start)

	slog.Info("planning complete",
		"run_id", runID,
		"scenarios", len(scenarios),
		"items", len(result.Combined.FactoryCounts),
		"duration", result.Duration)

	return result, nil
}

// PlanScenarios plans every scenario stored in repo
func (po *PlanningOrchestrator) PlanScenarios(ctx context.Context, repo repositories.ScenarioRepository) (*dto.PlanResult, error) {
	scenarios, err := repo.GetScenarios()
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}
	return po.Plan(ctx, scenarios)
}

func (po *PlanningOrchestrator) resolveScenario(
	ctx context.Context,
	streamID string,
	scenario entities.Scenario,
) (*dto.DemandResult, error) {
	key := cacheKey{item: scenario.Item, rate: scenario.Rate}

	if po.cache != nil {
		if cached, ok := po.cache.Get(key); ok {
			slog.Debug("resolution cache hit", "item", scenario.Item, "rate", scenario.Rate)
			po.publish(streamID, events.ResolutionCompletedEvent, events.ResolutionCompleted{
				Scenario:      scenario,
				FactoryCounts: cached.FactoryCounts,
				Cached:        true,
			})
			return cached, nil
		}
	}

	root, err := po.recipeRepo.GetRecipe(scenario.Item)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeNotFound,
			fmt.Sprintf("unknown target item %s", scenario.Item), err,
			map[string]any{apperrors.ContextKeyItem: string(scenario.Item)})
	}

	res := resolver.NewDemandResolver(resolver.WithTrace(po.traceFor(streamID)))
	resolution, err := res.Resolve(ctx, root, scenario.Rate)
	if err != nil {
		return nil, err
	}

	if po.cache != nil {
		po.cache.Add(key, resolution)
	}

	po.publish(streamID, events.ResolutionCompletedEvent, events.ResolutionCompleted{
		Scenario:      scenario,
		FactoryCounts: resolution.FactoryCounts,
	})

	return resolution, nil
}

func (po *PlanningOrchestrator) traceFor(streamID string) resolver.TraceFunc {
	if po.publisher == nil {
		return nil
	}
	return func(step resolver.TraceStep) {
		po.publish(streamID, events.ItemExpandedEvent, events.ItemExpanded{
			Item:   step.Item,
			Parent: step.Parent,
			Rate:   step.Rate,
			Depth:  step.Depth,
		})
	}
}

func (po *PlanningOrchestrator) publish(streamID, eventType string, data any) {
	if po.publisher == nil {
		return
	}
	if err := po.publisher.Publish(streamID, eventType, data); err != nil {
		slog.Warn("failed to publish event", "type", eventType, "stream", streamID, "error", err)
	}
}

// StreamID names the event stream of the index-th scenario of a run
func StreamID(runID string, index int, scenario entities.Scenario) string {
	return fmt.Sprintf("%s/%d/%s@%v", runID, index, scenario.Item, scenario.Rate)
}
