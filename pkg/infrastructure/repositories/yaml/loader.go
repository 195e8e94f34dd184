package yaml

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "factorycalc://recipe-book.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func recipeBookSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString(schemaURL, schemaJSON)
	})
	return compiledSchema, schemaErr
}

// Document is the on-disk shape of a YAML or JSON recipe book
type Document struct {
	Recipes   []RecipeEntry       `yaml:"recipes" json:"recipes"`
	Scenarios []entities.Scenario `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
}

type RecipeEntry struct {
	Name      string             `yaml:"name" json:"name"`
	BuildTime float64            `yaml:"build_time" json:"build_time"`
	Requires  []RequirementEntry `yaml:"requires,omitempty" json:"requires,omitempty"`
}

type RequirementEntry struct {
	Item     string  `yaml:"item" json:"item"`
	Quantity float64 `yaml:"quantity" json:"quantity"`
}

// Loader reads recipe books from YAML or JSON files. JSON is read through the
// YAML decoder since every JSON document is valid YAML.
type Loader struct{}

// NewLoader creates a new YAML loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadRecipeBook reads and validates the recipe book at filename
func (l *Loader) LoadRecipeBook(filename string) (*entities.RecipeBook, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file %s: %w", filename, err)
	}

	book, err := l.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe file %s: %w", filename, err)
	}
	return book, nil
}

// Decode validates data against the recipe book schema and converts it
func (l *Loader) Decode(data []byte) (*entities.RecipeBook, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	return doc.RecipeBook(), nil
}

// RecipeBook flattens the document into definitions and lines in
// declaration order
func (d *Document) RecipeBook() *entities.RecipeBook {
	book := &entities.RecipeBook{
		Items:     make([]entities.ItemDefinition, 0, len(d.Recipes)),
		Scenarios: d.Scenarios,
	}
	for _, r := range d.Recipes {
		book.Items = append(book.Items, entities.ItemDefinition{
			Name:      entities.ItemName(r.Name),
			BuildTime: r.BuildTime,
		})
		for _, req := range r.Requires {
			book.Lines = append(book.Lines, entities.RecipeLine{
				Parent:   entities.ItemName(r.Name),
				Child:    entities.ItemName(req.Item),
				Quantity: req.Quantity,
			})
		}
	}
	return book
}

// validateDocument checks raw against the embedded schema. The YAML tree is
// round-tripped through encoding/json so the validator sees JSON types.
func validateDocument(raw any) error {
	schema, err := recipeBookSchema()
	if err != nil {
		return fmt.Errorf("failed to compile recipe book schema: %w", err)
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to convert document: %w", err)
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return fmt.Errorf("failed to convert document: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("recipe book does not match schema: %w", err)
	}
	return nil
}

// NewDocument converts a recipe book into its on-disk shape
func NewDocument(book *entities.RecipeBook) *Document {
	doc := &Document{
		Recipes:   make([]RecipeEntry, 0, len(book.Items)),
		Scenarios: book.Scenarios,
	}
	for _, item := range book.Items {
		entry := RecipeEntry{Name: string(item.Name), BuildTime: item.BuildTime}
		for _, line := range book.LinesFor(item.Name) {
			entry.Requires = append(entry.Requires, RequirementEntry{Item: string(line.Child), Quantity: line.Quantity})
		}
		doc.Recipes = append(doc.Recipes, entry)
	}
	return doc
}

// WriteRecipeBook writes book to filename as JSON when the name ends in
// .json and as YAML otherwise
func WriteRecipeBook(filename string, book *entities.RecipeBook) error {
	doc := NewDocument(book)

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("failed to encode recipe book: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write recipe file %s: %w", filename, err)
	}
	return nil
}
