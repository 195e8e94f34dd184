package dto

import (
	"math"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
)

// TreeEntry records one visited node of a resolution: the item, the factory
// rate computed for it on this path, and its depth below the root (root = 0)
type TreeEntry struct {
	Item  *entities.Recipe
	Rate  float64
	Depth int
}

// DemandResult holds the factory requirement per item and the expansion tree
// it was derived from.
//
// Within one resolution, counts reached over several paths are summed.
// Merging results takes the larger whole-factory count per item instead.
type DemandResult struct {
	FactoryCounts map[entities.ItemName]float64
	Order         []entities.ItemName // first-seen order of FactoryCounts keys
	Edges         []TreeEntry
}

// NewDemandResult creates an empty result, usable as a merge accumulator
func NewDemandResult() *DemandResult {
	return &DemandResult{
		FactoryCounts: make(map[entities.ItemName]float64),
		Order:         make([]entities.ItemName, 0),
		Edges:         make([]TreeEntry, 0),
	}
}

// Record appends a tree entry and adds its rate to the item's running total
func (r *DemandResult) Record(item *entities.Recipe, rate float64, depth int) {
	r.Edges = append(r.Edges, TreeEntry{Item: item, Rate: rate, Depth: depth})
	if current, exists := r.FactoryCounts[item.Name]; exists {
		r.FactoryCounts[item.Name] = current + rate
		return
	}
	r.FactoryCounts[item.Name] = rate
	r.Order = append(r.Order, item.Name)
}

// Count returns the factory requirement for an item, zero if absent
func (r *DemandResult) Count(name entities.ItemName) float64 {
	return r.FactoryCounts[name]
}

// WholeFactories returns the requirement for an item rounded up to whole units
func (r *DemandResult) WholeFactories(name entities.ItemName) int64 {
	return int64(math.Ceil(r.FactoryCounts[name]))
}

// Merge folds other into r and returns r. Each of other's counts is rounded
// up to whole factories; r keeps the larger of its current value and the
// rounded one. Edges are appended as they are, duplicates included.
func (r *DemandResult) Merge(other *DemandResult) *DemandResult {
	if other == nil {
		return r
	}

	for _, name := range other.Order {
		rounded := math.Ceil(other.FactoryCounts[name])
		current, exists := r.FactoryCounts[name]
		if !exists {
			r.FactoryCounts[name] = rounded
			r.Order = append(r.Order, name)
			continue
		}
		r.FactoryCounts[name] = math.Max(current, rounded)
	}

	r.Edges = append(r.Edges, other.Edges...)
	return r
}

// Merge folds results, in order, into a fresh accumulator
func Merge(results ...*DemandResult) *DemandResult {
	acc := NewDemandResult()
	for _, result := range results {
		acc.Merge(result)
	}
	return acc
}
