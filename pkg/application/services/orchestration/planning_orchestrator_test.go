package orchestration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
	apperrors "github.com/vsinha/factorycalc/pkg/errors"
	"github.com/vsinha/factorycalc/pkg/infrastructure/events"
	"github.com/vsinha/factorycalc/pkg/infrastructure/repositories/memory"
)

func ironRepo(t *testing.T) *memory.RecipeRepository {
	t.Helper()
	book := &entities.RecipeBook{
		Items: []entities.ItemDefinition{
			{Name: "iron_plate", BuildTime: 3},
			{Name: "iron_ingot", BuildTime: 4},
			{Name: "iron_ore", BuildTime: 3},
			{Name: "iron_gear", BuildTime: 6},
		},
		Lines: []entities.RecipeLine{
			{Parent: "iron_plate", Child: "iron_ingot", Quantity: 1},
			{Parent: "iron_ingot", Child: "iron_ore", Quantity: 1},
			{Parent: "iron_gear", Child: "iron_plate", Quantity: 2},
		},
	}
	repo, _, err := memory.NewRecipeRepositoryFromBook(book)
	require.NoError(t, err)
	return repo
}

func TestPlanningOrchestrator_Plan(t *testing.T) {
	po, err := NewPlanningOrchestrator(ironRepo(t), 8)
	require.NoError(t, err)

	result, err := po.Plan(context.Background(), []entities.Scenario{
		{Item: "iron_plate", Rate: 1},
		{Item: "iron_gear", Rate: 1},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Resolutions, 2)

	plate := result.Resolutions[0]
	assert.InDelta(t, 1.0, plate.Count("iron_plate"), 1e-9)
	assert.InDelta(t, 4.0/3.0, plate.Count("iron_ingot"), 1e-9)
	assert.InDelta(t, 1.0, plate.Count("iron_ore"), 1e-9)

	// gear@1: plate = 1*3*2/6 = 1, ingot = 4/3, ore = 1
	gear := result.Resolutions[1]
	assert.InDelta(t, 1.0, gear.Count("iron_plate"), 1e-9)

	combined := result.Combined
	assert.InDelta(t, 1.0, combined.Count("iron_plate"), 1e-9)
	assert.InDelta(t, 2.0, combined.Count("iron_ingot"), 1e-9)
	assert.InDelta(t, 1.0, combined.Count("iron_gear"), 1e-9)
	assert.Equal(t, []entities.ItemName{"iron_plate", "iron_ingot", "iron_ore", "iron_gear"}, combined.Order)
	assert.Len(t, combined.Edges, len(plate.Edges)+len(gear.Edges))
}

func TestPlanningOrchestrator_CacheSharesResolutions(t *testing.T) {
	po, err := NewPlanningOrchestrator(ironRepo(t), 4)
	require.NoError(t, err)

	scenarios := []entities.Scenario{{Item: "iron_plate", Rate: 1}}
	first, err := po.Plan(context.Background(), scenarios)
	require.NoError(t, err)
	second, err := po.Plan(context.Background(), scenarios)
	require.NoError(t, err)

	assert.Same(t, first.Resolutions[0], second.Resolutions[0])
	assert.NotSame(t, first.Combined, second.Combined)
	assert.NotEqual(t, first.RunID, second.RunID)

	// merging must not have touched the cached raw resolution
	assert.InDelta(t, 4.0/3.0, second.Resolutions[0].Count("iron_ingot"), 1e-9)
}

func TestPlanningOrchestrator_CacheDisabled(t *testing.T) {
	po, err := NewPlanningOrchestrator(ironRepo(t), 0)
	require.NoError(t, err)

	scenarios := []entities.Scenario{{Item: "iron_plate", Rate: 1}}
	first, err := po.Plan(context.Background(), scenarios)
	require.NoError(t, err)
	second, err := po.Plan(context.Background(), scenarios)
	require.NoError(t, err)

	assert.NotSame(t, first.Resolutions[0], second.Resolutions[0])
}

func TestPlanningOrchestrator_Errors(t *testing.T) {
	po, err := NewPlanningOrchestrator(ironRepo(t), 4)
	require.NoError(t, err)

	_, err = po.Plan(context.Background(), nil)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))

	_, err = po.Plan(context.Background(), []entities.Scenario{{Item: "copper", Rate: 1}})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	_, err = po.Plan(context.Background(), []entities.Scenario{{Item: "iron_plate", Rate: 0}})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRate))
}

func TestPlanningOrchestrator_PublishesTraceEvents(t *testing.T) {
	bus := events.NewBus()
	var got []events.Event
	bus.Subscribe(func(e events.Event) error {
		got = append(got, e)
		return nil
	}, events.ItemExpandedEvent, events.ResolutionCompletedEvent)

	po, err := NewPlanningOrchestrator(ironRepo(t), 4, WithPublisher(bus))
	require.NoError(t, err)

	scenario := entities.Scenario{Item: "iron_plate", Rate: 1}
	result, err := po.Plan(context.Background(), []entities.Scenario{scenario})
	require.NoError(t, err)

	require.Len(t, got, 4)
	for _, e := range got {
		assert.Equal(t, StreamID(result.RunID, 0, scenario), e.Stream)
	}
	ore := got[2].Data.(events.ItemExpanded)
	assert.Equal(t, entities.ItemName("iron_ore"), ore.Item)
	assert.Equal(t, entities.ItemName("iron_ingot"), ore.Parent)
	assert.Equal(t, 2, ore.Depth)
	assert.Equal(t, events.ResolutionCompletedEvent, got[3].Type)
	assert.Equal(t, 4, got[3].Version)
	assert.False(t, got[3].Data.(events.ResolutionCompleted).Cached)
}

func TestPlanningOrchestrator_CacheHitPublishesCompletionOnly(t *testing.T) {
	bus := events.NewBus()
	var got []events.Event
	bus.Subscribe(func(e events.Event) error {
		got = append(got, e)
		return nil
	}, events.ItemExpandedEvent, events.ResolutionCompletedEvent)

	po, err := NewPlanningOrchestrator(ironRepo(t), 4, WithPublisher(bus))
	require.NoError(t, err)

	scenario := entities.Scenario{Item: "iron_plate", Rate: 1}
	_, err = po.Plan(context.Background(), []entities.Scenario{scenario, scenario})
	require.NoError(t, err)

	require.Len(t, got, 5)
	hit := got[4]
	assert.Equal(t, events.ResolutionCompletedEvent, hit.Type)
	assert.NotEqual(t, got[3].Stream, hit.Stream)
	assert.Equal(t, 1, hit.Version)
	completed := hit.Data.(events.ResolutionCompleted)
	assert.True(t, completed.Cached)
	assert.Equal(t, scenario, completed.Scenario)
}

func TestPlanningOrchestrator_PlanScenarios(t *testing.T) {
	po, err := NewPlanningOrchestrator(ironRepo(t), 4)
	require.NoError(t, err)

	scenarioRepo := memory.NewScenarioRepository()
	require.NoError(t, scenarioRepo.LoadScenarios([]entities.Scenario{{Item: "iron_gear", Rate: 2}}))

	result, err := po.PlanScenarios(context.Background(), scenarioRepo)
	require.NoError(t, err)
	require.Len(t, result.Scenarios, 1)
	assert.InDelta(t, 2.0, result.Combined.Count("iron_plate"), 1e-9)

	_, err = po.PlanScenarios(context.Background(), memory.NewScenarioRepository())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
}
