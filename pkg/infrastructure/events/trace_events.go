package events

import (
	"github.com/vsinha/factorycalc/pkg/domain/entities"
)

const (
	ItemExpandedEvent        = "item.expanded"
	ResolutionCompletedEvent = "resolution.completed"
)

// ItemExpanded is published for every node a resolution records
type ItemExpanded struct {
	Item   entities.ItemName `json:"item"`
	Parent entities.ItemName `json:"parent,omitempty"`
	Rate   float64           `json:"rate"`
	Depth  int               `json:"depth"`
}

// ResolutionCompleted closes the stream of one scenario. Cached is set when
// the resolution came from the cache and no ItemExpanded events preceded it.
type ResolutionCompleted struct {
	Scenario      entities.Scenario             `json:"scenario"`
	FactoryCounts map[entities.ItemName]float64 `json:"factory_counts"`
	Cached        bool                          `json:"cached"`
}
