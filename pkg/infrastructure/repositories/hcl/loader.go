package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vsinha/factorycalc/pkg/domain/entities"
)

// File is the decoded form of an HCL recipe book. Numeric attributes are kept
// as expressions so arithmetic such as `build_time = 60 / 4` is allowed.
type File struct {
	Recipes   []RecipeBlock   `hcl:"recipe,block"`
	Scenarios []ScenarioBlock `hcl:"scenario,block"`
}

type RecipeBlock struct {
	Name      string             `hcl:"name,label"`
	BuildTime hcl.Expression     `hcl:"build_time,attr"`
	Requires  []RequirementBlock `hcl:"requires,block"`
}

type RequirementBlock struct {
	Item     string         `hcl:"item,label"`
	Quantity hcl.Expression `hcl:"quantity,attr"`
}

type ScenarioBlock struct {
	Item string         `hcl:"item,label"`
	Rate hcl.Expression `hcl:"rate,attr"`
}

// Loader reads recipe books written in HCL
type Loader struct{}

// NewLoader creates a new HCL loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadRecipeBook parses and decodes the HCL file at filename
func (l *Loader) LoadRecipeBook(filename string) (*entities.RecipeBook, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}
	return decodeBody(filename, file.Body)
}

// Decode parses src as HCL; filename is used in diagnostics only
func (l *Loader) Decode(filename string, src []byte) (*entities.RecipeBook, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}
	return decodeBody(filename, file.Body)
}

func decodeBody(filename string, body hcl.Body) (*entities.RecipeBook, error) {
	var config File
	if diags := gohcl.DecodeBody(body, nil, &config); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}

	book := &entities.RecipeBook{
		Items: make([]entities.ItemDefinition, 0, len(config.Recipes)),
	}

	for _, r := range config.Recipes {
		buildTime, err := evalNumber(r.BuildTime, "build_time")
		if err != nil {
			return nil, fmt.Errorf("recipe %q: %w", r.Name, err)
		}
		book.Items = append(book.Items, entities.ItemDefinition{
			Name:      entities.ItemName(r.Name),
			BuildTime: buildTime,
		})

		for _, req := range r.Requires {
			quantity, err := evalNumber(req.Quantity, "quantity")
			if err != nil {
				return nil, fmt.Errorf("recipe %q requires %q: %w", r.Name, req.Item, err)
			}
			book.Lines = append(book.Lines, entities.RecipeLine{
				Parent:   entities.ItemName(r.Name),
				Child:    entities.ItemName(req.Item),
				Quantity: quantity,
			})
		}
	}

	for _, s := range config.Scenarios {
		rate, err := evalNumber(s.Rate, "rate")
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Item, err)
		}
		book.Scenarios = append(book.Scenarios, entities.Scenario{
			Item: entities.ItemName(s.Item),
			Rate: rate,
		})
	}

	return book, nil
}

// evalNumber evaluates a constant expression and converts it to float64
func evalNumber(expr hcl.Expression, attr string) (float64, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, fmt.Errorf("invalid %s: %s", attr, diags.Error())
	}
	if val.IsNull() {
		return 0, fmt.Errorf("missing required attribute %s", attr)
	}
	if !val.IsWhollyKnown() {
		return 0, fmt.Errorf("%s must be a constant", attr)
	}

	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", attr, err)
	}

	var out float64
	if err := gocty.FromCtyValue(num, &out); err != nil {
		return 0, fmt.Errorf("invalid %s: %w", attr, err)
	}
	return out, nil
}
