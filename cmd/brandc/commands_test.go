package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "tempo.json", tempoJSON)

	stdout, _, err := execute(t, "", "compile", "--in", in)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Contains(t, result, "brandSpec")
	assert.Contains(t, result, "assets")
	assert.Len(t, result["specHash"], 64)
}

func TestCompileCommand_HashIsStableAcrossFormats(t *testing.T) {
	dir := t.TempDir()
	jsonIn := writeFile(t, dir, "tempo.json", tempoJSON)
	yamlIn := writeFile(t, dir, "tempo.yaml", tempoYAML)

	fromJSON, _, err := execute(t, "", "compile", "--in", jsonIn, "--format", "hash")
	require.NoError(t, err)
	again, _, err := execute(t, "", "compile", "--in", jsonIn, "--format", "hash")
	require.NoError(t, err)
	fromYAML, _, err := execute(t, "", "compile", "--in", yamlIn, "--format", "hash")
	require.NoError(t, err)

	assert.Equal(t, fromJSON, again)
	assert.Equal(t, fromJSON, fromYAML)
}

func TestCompileCommand_StdinAndOutFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "brand.md")

	stdout, _, err := execute(t, tempoJSON, "compile", "--in", "-", "--format", "markdown", "--out", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Positioning")
}

func TestCompileCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "tempo.json", tempoJSON)
	broken := writeFile(t, dir, "broken.json", `["not", "an", "object"]`)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing in flag", args: []string{"compile"}, want: `required flag(s) "in" not set`},
		{name: "missing file", args: []string{"compile", "--in", filepath.Join(dir, "nope.json")}, want: "not found"},
		{name: "not an object", args: []string{"compile", "--in", broken}, want: "failed to parse JSON inputs"},
		{name: "unknown format", args: []string{"compile", "--in", in, "--format", "pdf"}, want: `unknown format "pdf"`},
		{name: "bad log level", args: []string{"compile", "--in", in, "--log-level", "loud"}, want: "config error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCompileCommand_VerboseSummary(t *testing.T) {
	in := writeFile(t, t.TempDir(), "tempo.json", tempoJSON)

	_, stderr, err := execute(t, "", "compile", "--in", in, "--format", "hash", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "COMPILED BRAND SPEC")
	assert.Contains(t, stderr, "NAME INFERENCE")
}

func TestBatchCommand(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeFile(t, inDir, "tempo.json", tempoJSON)
	writeFile(t, inDir, "ledgerly.yaml", "q1_core_what: Ledgerly is bookkeeping software for freelancers\n")
	writeFile(t, inDir, "notes.txt", "ignored")

	stdout, _, err := execute(t, "", "batch", "--dir", inDir, "--out-dir", outDir, "-c", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], filepath.Join(inDir, "ledgerly.yaml")))
	assert.True(t, strings.HasPrefix(lines[1], filepath.Join(inDir, "tempo.json")))

	for _, name := range []string{"tempo.brand.json", "ledgerly.brand.json"} {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		var result map[string]any
		require.NoError(t, json.Unmarshal(data, &result))
		assert.Contains(t, result, "specHash")
	}
}

func TestBatchCommand_FailsOnBadInput(t *testing.T) {
	inDir := t.TempDir()
	writeFile(t, inDir, "bad.json", "{")

	_, _, err := execute(t, "", "batch", "--dir", inDir, "--out-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch failed")
}

func TestBatchCommand_DuplicateOutputNames(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	a := writeFile(t, dirA, "tempo.json", tempoJSON)
	b := writeFile(t, dirB, "tempo.yaml", tempoYAML)
	outDir := filepath.Join(t.TempDir(), "out")

	_, _, err := execute(t, "", "batch", a, b, "--out-dir", outDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both write tempo.brand.json")
	assert.NoDirExists(t, outDir)
}

func TestBatchCommand_NoInputs(t *testing.T) {
	_, _, err := execute(t, "", "batch", "--out-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestMixTonesCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "mix-tones", "--tones", "sage,creator", "--weights", "0.7,0.3")
	require.NoError(t, err)

	var mixed map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &mixed))
	assert.Contains(t, mixed, "constraints")
	assert.Contains(t, mixed, "banned_lexicon")

	equal, _, err := execute(t, "", "mix-tones", "--tones", "sage")
	require.NoError(t, err)
	assert.Contains(t, equal, "sliders")
}

func TestMixTonesCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown tone", args: []string{"mix-tones", "--tones", "pirate"}, want: `unknown tone sheet "pirate"`},
		{name: "bad weight", args: []string{"mix-tones", "--tones", "sage", "--weights", "heavy"}, want: `invalid weight "heavy"`},
		{name: "count mismatch", args: []string{"mix-tones", "--tones", "sage,creator", "--weights", "1"}, want: "tone mix contract error"},
		{name: "negative weight", args: []string{"mix-tones", "--tones", "sage", "--weights", "-1"}, want: "must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestInferNameCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "infer-name", "A tool called Bladr for cutting.")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "Bladr", result["name"])
	assert.Equal(t, "high", result["confidence"])

	_, _, err = execute(t, "", "infer-name")
	require.Error(t, err)
}

func TestInferNameCommand_FromFile(t *testing.T) {
	in := writeFile(t, t.TempDir(), "answers.json", `{"q1_core_what":"A scheduling tool.","productName":"SchedulerPro"}`)

	stdout, _, err := execute(t, "", "infer-name", "--in", in)
	require.NoError(t, err)
	assert.Contains(t, stdout, `"name": "SchedulerPro"`)
}

func TestScoreArchetypeCommand(t *testing.T) {
	stdout, _, err := execute(t, "", "score-archetype", "A fun game full of jokes and memes")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "The Jester", result["archetype"])
	assert.Equal(t, 6.5, result["score"])
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "tempo.json", tempoJSON)
	spec := filepath.Join(dir, "spec.json")

	_, _, err := execute(t, "", "compile", "--in", in, "--format", "spec", "--out", spec)
	require.NoError(t, err)

	stdout, _, err := execute(t, "", "validate", "--schema", "brand_spec", "--json", spec)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Validation passed")

	_, stderr, err := execute(t, "", "validate", "--schema", "brand-assets", "--json", spec)
	require.Error(t, err)
	assert.Contains(t, stderr, "Validation failed")
	assert.Contains(t, err.Error(), "schema violations")
}

func TestValidateCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "doc.json", "{}")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "missing schema flag", args: []string{"validate", "--json", doc}, want: "required"},
		{name: "unknown schema", args: []string{"validate", "--schema", "job_profile", "--json", doc}, want: `unknown schema "job_profile"`},
		{name: "missing file", args: []string{"validate", "--schema", "brand_spec", "--json", filepath.Join(dir, "nope.json")}, want: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSchemaName(t *testing.T) {
	for _, in := range []string{"brand_spec", "brand-spec", "brand_spec.schema.json", " brand_spec "} {
		name, err := schemaName(in)
		require.NoError(t, err, in)
		assert.Equal(t, "brand_spec.schema.json", name)
	}
}

func TestBrandPromptCommand(t *testing.T) {
	in := writeFile(t, t.TempDir(), "tempo.json", tempoJSON)

	text, _, err := execute(t, "", "brand-prompt", "--in", in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "# BRAND PROMPT: "))
	assert.Contains(t, text, "## NON-NEGOTIABLES")

	stdout, _, err := execute(t, "", "brand-prompt", "--in", in, "--json")
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &body))
	assert.Len(t, body["checksum"], 8)
	assert.Equal(t, strings.TrimSuffix(text, "\n"), body["prompt"])
}

func TestCopyCommand_RequiresAPIKey(t *testing.T) {
	in := writeFile(t, t.TempDir(), "tempo.json", tempoJSON)

	_, _, err := execute(t, "", "copy", "--in", in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestCopyCommand_RejectsUnknownTier(t *testing.T) {
	in := writeFile(t, t.TempDir(), "tempo.json", tempoJSON)

	_, _, err := execute(t, "", "copy", "--in", in, "--tier", "turbo", "--api-key", "test-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "brandc.yaml", "log:\n  level: warn\n  format: console\nllm:\n  tier: lite\n")
	in := writeFile(t, dir, "tempo.json", tempoJSON)

	_, _, err := execute(t, "", "--config", cfg, "compile", "--in", in, "--format", "hash")
	require.NoError(t, err)
	require.NotNil(t, current)
	// the command line --log-level set by execute wins over the file
	assert.Equal(t, "error", current.cfg.Log.Level)
	assert.Equal(t, "console", current.cfg.Log.Format)
	assert.Equal(t, "lite", current.cfg.LLM.Tier)
}
