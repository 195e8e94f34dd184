package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/factorycalc/pkg/application/dto"
	"github.com/vsinha/factorycalc/pkg/domain/entities"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDot  = "dot"
)

// Formats lists every supported report format
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatDot}

// ratePlaces is the number of decimals shown for raw factory counts
const ratePlaces = 3

// FactoryCount is one item line of a report
type FactoryCount struct {
	Item      entities.ItemName `json:"item" yaml:"item"`
	Factories float64           `json:"factories" yaml:"factories"`
	Whole     int64             `json:"whole_factories" yaml:"whole_factories"`
}

// ScenarioReport is the raw resolution of one scenario
type ScenarioReport struct {
	Item      entities.ItemName `json:"item" yaml:"item"`
	Rate      float64           `json:"rate" yaml:"rate"`
	Factories []FactoryCount    `json:"factories" yaml:"factories"`
}

// Report is the serializable form of a plan
type Report struct {
	RunID     string           `json:"run_id" yaml:"run_id"`
	Duration  string           `json:"duration" yaml:"duration"`
	Scenarios []ScenarioReport `json:"scenarios" yaml:"scenarios"`
	Combined  []FactoryCount   `json:"combined" yaml:"combined"`
}

// NewReport flattens a plan result in deterministic item order
func NewReport(result *dto.PlanResult) *Report {
	report := &Report{
		RunID:     result.RunID,
		Duration:  result.Duration.String(),
		Scenarios: make([]ScenarioReport, 0, len(result.Scenarios)),
		Combined:  factoryCounts(result.Combined),
	}
	for i, scenario := range result.Scenarios {
		report.Scenarios = append(report.Scenarios, ScenarioReport{
			Item:      scenario.Item,
			Rate:      scenario.Rate,
			Factories: factoryCounts(result.Resolutions[i]),
		})
	}
	return report
}

func factoryCounts(r *dto.DemandResult) []FactoryCount {
	counts := make([]FactoryCount, 0, len(r.Order))
	for _, name := range r.Order {
		counts = append(counts, FactoryCount{
			Item:      name,
			Factories: r.Count(name),
			Whole:     r.WholeFactories(name),
		})
	}
	return counts
}

// Write renders result to w in the given format
func Write(w io.Writer, result *dto.PlanResult, format string) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		return writeText(w, result)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewReport(result)); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewReport(result)); err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return enc.Close()
	case FormatDot:
		return RenderDiagram(w, result.Combined)
	default:
		return fmt.Errorf("unsupported output format: %s (expected one of %s)", format, strings.Join(Formats, ", "))
	}
}

func writeText(w io.Writer, result *dto.PlanResult) error {
	bw := bufio.NewWriter(w)

	width := len("Item")
	for _, name := range result.Combined.Order {
		width = max(width, len(name))
	}

	fmt.Fprintf(bw, "Factory Plan\n")
	fmt.Fprintf(bw, "============\n\n")
	fmt.Fprintf(bw, "Run: %s\n", result.RunID)
	fmt.Fprintf(bw, "Scenarios: %d\n", len(result.Scenarios))
	fmt.Fprintf(bw, "Resolution Time: %v\n\n", result.Duration)

	for i, scenario := range result.Scenarios {
		resolution := result.Resolutions[i]
		fmt.Fprintf(bw, "%s @ %s:\n", scenario.Item, entities.FormatQuantity(scenario.Rate, ratePlaces))
		fmt.Fprintf(bw, "  %-*s %12s\n", width, "Item", "Factories")
		fmt.Fprintf(bw, "  %s %s\n", strings.Repeat("-", width), strings.Repeat("-", 12))
		for _, name := range resolution.Order {
			fmt.Fprintf(bw, "  %-*s %12s\n", width, name, entities.FormatQuantity(resolution.Count(name), ratePlaces))
		}
		fmt.Fprintln(bw)
	}

	fmt.Fprintf(bw, "Combined:\n")
	fmt.Fprintf(bw, "  %-*s %12s\n", width, "Item", "Factories")
	fmt.Fprintf(bw, "  %s %s\n", strings.Repeat("-", width), strings.Repeat("-", 12))
	for _, name := range result.Combined.Order {
		fmt.Fprintf(bw, "  %-*s %12d\n", width, name, result.Combined.WholeFactories(name))
	}

	return bw.Flush()
}
