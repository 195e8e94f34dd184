package repositories

import "github.com/vsinha/factorycalc/pkg/domain/entities"

// ScenarioRepository provides access to target production scenarios
type ScenarioRepository interface {
	GetScenarios() ([]entities.Scenario, error)
	LoadScenarios(scenarios []entities.Scenario) error
}
