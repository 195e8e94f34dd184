package dto

import (
	"time"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
)

// PlanResult contains the complete output of a planning run: one raw
// resolution per scenario and their merged combination
type PlanResult struct {
	RunID       string
	Scenarios   []entities.Scenario
	Resolutions []*DemandResult
	Combined    *DemandResult
	Duration    time.Duration
}
