package memory

import (
	"fmt"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
	"github.com/vsinha/factorycalc/pkg/domain/repositories"
)

// ScenarioRepository provides in-memory scenario storage
type ScenarioRepository struct {
	scenarios []entities.Scenario
}

// NewScenarioRepository creates a new in-memory scenario repository
func NewScenarioRepository() *ScenarioRepository {
	return &ScenarioRepository{
		scenarios: []entities.Scenario{},
	}
}

// Verify interface compliance
var _ repositories.ScenarioRepository = (*ScenarioRepository)(nil)

// LoadScenarios appends scenarios to the repository
func (r *ScenarioRepository) LoadScenarios(scenarios []entities.Scenario) error {
	for _, s := range scenarios {
		if s.Item == "" {
			return fmt.Errorf("scenario item cannot be empty")
		}
		r.scenarios = append(r.scenarios, s)
	}
	return nil
}

// GetScenarios returns all scenarios in load order
func (r *ScenarioRepository) GetScenarios() ([]entities.Scenario, error) {
	return append([]entities.Scenario(nil), r.scenarios...), nil
}
