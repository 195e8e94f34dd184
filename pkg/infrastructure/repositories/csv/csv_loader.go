package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
)

const (
	RecipesFile      = "recipes.csv"
	RequirementsFile = "requirements.csv"
	ScenariosFile    = "scenarios.csv"
)

// Loader handles loading recipe books from a directory of CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadRecipeBook reads recipes.csv, requirements.csv and, when present,
// scenarios.csv from dir
func (l *Loader) LoadRecipeBook(dir string) (*entities.RecipeBook, error) {
	items, err := l.LoadItems(filepath.Join(dir, RecipesFile))
	if err != nil {
		return nil, err
	}

	lines, err := l.LoadRequirements(filepath.Join(dir, RequirementsFile))
	if err != nil {
		return nil, err
	}

	scenarios, err := l.LoadScenarios(filepath.Join(dir, ScenariosFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return &entities.RecipeBook{
		Items:     items,
		Lines:     lines,
		Scenarios: scenarios,
	}, nil
}

// LoadItems loads item definitions from a CSV file
func (l *Loader) LoadItems(filename string) ([]entities.ItemDefinition, error) {
	records, err := readRecords(filename, "recipes", []string{"name", "build_time"})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("recipes CSV must have header and at least one data row")
	}

	items := make([]entities.ItemDefinition, 0, len(records))
	for i, record := range records {
		buildTime, err := entities.ParseQuantity(record[1])
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: invalid build_time: %w", i+2, err)
		}
		items = append(items, entities.ItemDefinition{
			Name:      entities.ItemName(strings.TrimSpace(record[0])),
			BuildTime: buildTime,
		})
	}

	return items, nil
}

// LoadRequirements loads requirement lines from a CSV file. A header-only
// file is valid: every item is then a raw resource.
func (l *Loader) LoadRequirements(filename string) ([]entities.RecipeLine, error) {
	records, err := readRecords(filename, "requirements", []string{"parent", "child", "quantity"})
	if err != nil {
		return nil, err
	}

	lines := make([]entities.RecipeLine, 0, len(records))
	for i, record := range records {
		quantity, err := entities.ParseQuantity(record[2])
		if err != nil {
			return nil, fmt.Errorf("requirements CSV row %d: invalid quantity: %w", i+2, err)
		}
		lines = append(lines, entities.RecipeLine{
			Parent:   entities.ItemName(strings.TrimSpace(record[0])),
			Child:    entities.ItemName(strings.TrimSpace(record[1])),
			Quantity: quantity,
		})
	}

	return lines, nil
}

// LoadScenarios loads target scenarios from a CSV file
func (l *Loader) LoadScenarios(filename string) ([]entities.Scenario, error) {
	records, err := readRecords(filename, "scenarios", []string{"item", "rate"})
	if err != nil {
		return nil, err
	}

	scenarios := make([]entities.Scenario, 0, len(records))
	for i, record := range records {
		rate, err := entities.ParseQuantity(record[1])
		if err != nil {
			return nil, fmt.Errorf("scenarios CSV row %d: invalid rate: %w", i+2, err)
		}
		scenarios = append(scenarios, entities.Scenario{
			Item: entities.ItemName(strings.TrimSpace(record[0])),
			Rate: rate,
		})
	}

	return scenarios, nil
}

// readRecords opens filename, checks the header and column counts, and
// returns the data rows
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s CSV must have a header", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return rows, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

// WriteRecipeBook writes book into dir in the layout LoadRecipeBook reads.
// scenarios.csv is only written when the book has scenarios.
func WriteRecipeBook(dir string, book *entities.RecipeBook) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	items := [][]string{{"name", "build_time"}}
	for _, item := range book.Items {
		items = append(items, []string{string(item.Name), formatNumber(item.BuildTime)})
	}
	if err := writeRecords(filepath.Join(dir, RecipesFile), items); err != nil {
		return err
	}

	lines := [][]string{{"parent", "child", "quantity"}}
	for _, line := range book.Lines {
		lines = append(lines, []string{string(line.Parent), string(line.Child), formatNumber(line.Quantity)})
	}
	if err := writeRecords(filepath.Join(dir, RequirementsFile), lines); err != nil {
		return err
	}

	if len(book.Scenarios) == 0 {
		return nil
	}
	scenarios := [][]string{{"item", "rate"}}
	for _, s := range book.Scenarios {
		scenarios = append(scenarios, []string{string(s.Item), formatNumber(s.Rate)})
	}
	return writeRecords(filepath.Join(dir, ScenariosFile), scenarios)
}

func writeRecords(filename string, records [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return file.Close()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
