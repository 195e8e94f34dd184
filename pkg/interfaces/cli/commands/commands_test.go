package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/vsinha/factorycalc/pkg/config"
	"github.com/vsinha/factorycalc/pkg/domain/entities"
	apperrors "github.com/vsinha/factorycalc/pkg/errors"
	"github.com/vsinha/factorycalc/pkg/interfaces/cli/output"
)

const ironYAML = `
recipes:
  - name: iron_plate
    build_time: 3
    requires:
      - {item: iron_ingot, quantity: 1}
  - name: iron_ingot
    build_time: 4
    requires:
      - {item: iron_ore, quantity: 1}
  - name: iron_ore
    build_time: 3
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cfg := &config.Config{LogLevel: "error", Format: output.FormatText, CacheSize: 8}
	app := NewApp(cfg, "test", &stdout, &stderr)
	app.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	err := app.Run(context.Background(), append([]string{name}, args...))
	return stdout.String(), stderr.String(), err
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in       string
		want     entities.Scenario
		wantCode apperrors.ErrorCode
	}{
		{in: "robotic=4", want: entities.Scenario{Item: "robotic", Rate: 4}},
		{in: " iron_plate = 1.5", want: entities.Scenario{Item: "iron_plate", Rate: 1.5}},
		{in: "robotic", wantCode: apperrors.ErrCodeInvalidRequest},
		{in: "=4", wantCode: apperrors.ErrCodeInvalidRequest},
		{in: "robotic=fast", wantCode: apperrors.ErrCodeInvalidRate},
		{in: "robotic=0", wantCode: apperrors.ErrCodeInvalidRate},
		{in: "robotic=-2", wantCode: apperrors.ErrCodeInvalidRate},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTarget(tt.in)
			if tt.wantCode != "" {
				assert.True(t, apperrors.HasCode(err, tt.wantCode), "expected %s, got %v", tt.wantCode, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadRecipeBook(t *testing.T) {
	dir := t.TempDir()

	book, err := LoadRecipeBook("")
	require.NoError(t, err)
	assert.Len(t, book.Items, 18)

	yamlPath := filepath.Join(dir, "book.yml")
	writeFile(t, yamlPath, ironYAML)
	book, err = LoadRecipeBook(yamlPath)
	require.NoError(t, err)
	assert.Len(t, book.Items, 3)

	hclPath := filepath.Join(dir, "book.hcl")
	writeFile(t, hclPath, "recipe \"ore\" {\n  build_time = 3\n}\n")
	book, err = LoadRecipeBook(hclPath)
	require.NoError(t, err)
	assert.Len(t, book.Items, 1)

	csvDir := filepath.Join(dir, "csv")
	require.NoError(t, os.Mkdir(csvDir, 0o755))
	writeFile(t, filepath.Join(csvDir, "recipes.csv"), "name,build_time\nore,3\n")
	writeFile(t, filepath.Join(csvDir, "requirements.csv"), "parent,child,quantity\n")
	book, err = LoadRecipeBook(csvDir)
	require.NoError(t, err)
	assert.Len(t, book.Items, 1)

	txtPath := filepath.Join(dir, "book.txt")
	writeFile(t, txtPath, "")
	_, err = LoadRecipeBook(txtPath)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))

	_, err = LoadRecipeBook(filepath.Join(dir, "missing.yaml"))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
}

func TestPlan_BuiltinDefaultScenario(t *testing.T) {
	stdout, _, err := runApp(t, "plan")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Factory Plan")
	assert.Contains(t, stdout, "robotic @ 4:")
	assert.Contains(t, stdout, "Combined:")
}

func TestPlan_JSONWithTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.yaml")
	writeFile(t, path, ironYAML)

	stdout, _, err := runApp(t, "-r", path, "-t", "iron_plate=1", "-t", "iron_ingot=3", "plan", "--format", "json")
	require.NoError(t, err)

	var report output.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.Len(t, report.Scenarios, 2)
	require.Len(t, report.Combined, 3)

	// ingot: max(ceil(4/3), ceil(3)) = 3; ore: max(1, ceil(3*3/4)) = 3
	assert.Equal(t, output.FactoryCount{Item: "iron_plate", Factories: 1, Whole: 1}, report.Combined[0])
	assert.Equal(t, output.FactoryCount{Item: "iron_ingot", Factories: 3, Whole: 3}, report.Combined[1])
	assert.Equal(t, output.FactoryCount{Item: "iron_ore", Factories: 3, Whole: 3}, report.Combined[2])
}

func TestPlan_Trace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.yaml")
	writeFile(t, path, ironYAML)

	_, stderr, err := runApp(t, "-r", path, "-t", "iron_plate=1", "--trace", "plan")
	require.NoError(t, err)
	assert.Contains(t, stderr, "iron_plate:  1\n  iron_ingot:  1.3333333333333333\n    iron_ore:  1\n")
}

func TestPlan_TraceMarksCachedScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.yaml")
	writeFile(t, path, ironYAML)

	block := "iron_plate:  1\n  iron_ingot:  1.3333333333333333\n    iron_ore:  1\n"

	_, stderr, err := runApp(t, "-r", path, "-t", "iron_plate=1", "-t", "iron_plate=1", "--trace", "plan")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stderr, block))
	assert.Contains(t, stderr, block+"iron_plate:  1  (cached)\n")

	_, stderr, err = runApp(t, "-r", path, "-t", "iron_plate=1", "-t", "iron_plate=1", "--trace", "--cache-size", "0", "plan")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(stderr, block))
	assert.NotContains(t, stderr, "(cached)")
}

func TestPlan_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.yaml")
	writeFile(t, path, ironYAML)

	_, _, err := runApp(t, "-r", path, "plan")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest), "expected missing scenarios error, got %v", err)

	_, _, err = runApp(t, "-r", path, "-t", "copper=1", "plan")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound), "expected unknown target error, got %v", err)

	_, _, err = runApp(t, "plan", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestDiagram_CompressedOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "robotic.dot.zst")

	stdout, _, err := runApp(t, "-o", out, "diagram")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	data, err := io.ReadAll(dec)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph {\n  robotic [label=\"robotic 4\"]\n")
	assert.Contains(t, string(data), "  matrix -> robotic\n")
}

func TestValidate(t *testing.T) {
	stdout, _, err := runApp(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Recipe book: 18 items, 28 requirement lines, 1 scenarios")
	assert.Contains(t, stdout, "OK")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "recipes.csv"), "name,build_time\na,1\nb,0\n")
	writeFile(t, filepath.Join(dir, "requirements.csv"), "parent,child,quantity\na,b,1\nb,a,1\n")

	stdout, _, err = runApp(t, "-r", dir, "-t", "a=1", "validate")
	require.Error(t, err)
	var exitErr cli.ExitCoder
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, stdout, "[INVALID_BUILD_TIME]")
	assert.Contains(t, stdout, "[CYCLE_DETECTED]")
}

func TestValidate_ListsRawInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "book.yaml")
	writeFile(t, path, ironYAML)
	out := filepath.Join(dir, "report.txt.zst")

	stdout, _, err := runApp(t, "-r", path, "-o", out, "validate")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	data, err := io.ReadAll(dec)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Raw inputs: iron_ore\n")
	assert.Contains(t, string(data), "OK\n")
}

type failingCloser struct {
	bytes.Buffer
}

func (*failingCloser) Close() error { return errors.New("disk full") }

func TestWriteAndClose_ReportsCloseError(t *testing.T) {
	w := &failingCloser{}
	err := writeAndClose(w, func(out io.Writer) error {
		_, err := io.WriteString(out, "report")
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close output: disk full")
	assert.Equal(t, "report", w.String())

	writeErr := errors.New("bad format")
	err = writeAndClose(&failingCloser{}, func(io.Writer) error { return writeErr })
	assert.ErrorIs(t, err, writeErr)
}

func TestGenerate_ThenPlan(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "synthetic")

	stdout, _, err := runApp(t, "generate", "--items", "60", "--max-depth", "3", "--scenarios", "2", "--seed", "5", "--dest", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Generated 60 items")

	stdout, _, err = runApp(t, "-r", dir, "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "OK")

	stdout, _, err = runApp(t, "-r", dir, "plan", "--format", "json")
	require.NoError(t, err)
	var report output.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.NotEmpty(t, report.Scenarios)
	assert.NotEmpty(t, report.Combined)
}

func TestGenerate_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synthetic.yaml")

	_, _, err := runApp(t, "generate", "--items", "30", "--seed", "3", "--dest", path)
	require.NoError(t, err)

	book, err := LoadRecipeBook(path)
	require.NoError(t, err)
	assert.Len(t, book.Items, 30)
	assert.Len(t, book.Scenarios, 1)
}
