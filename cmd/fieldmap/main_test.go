package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldmap/internal/action"
)

const testMapping = `
dataSources:
  - {id: src, uri: "json:"}
  - {id: tgt, uri: "json:", role: target}
mappings:
  - inputs: {field: "src:/name", actions: [Trim, Uppercase]}
    outputs: "tgt:/fullName"
  - inputs: {property: region}
    outputs: "tgt:/region"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	return p
}

func useMapping(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	mappingFile = writeFile(t, dir, "mapping.yaml", content)

	t.Cleanup(func() { mappingFile = "" })

	return dir
}

func testCommand() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	return cmd, &out, &errOut
}

func readJSON(t *testing.T, file string) map[string]any {
	t.Helper()

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	return doc
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name    string
		items   []string
		want    map[string]string
		wantErr bool
	}{
		{"empty", nil, map[string]string{}, false},
		{"pairs", []string{"a=1", " b =x=y"}, map[string]string{"a": "1", "b": "x=y"}, false},
		{"empty value", []string{"a="}, map[string]string{"a": ""}, false},
		{"no separator", []string{"a"}, nil, true},
		{"no key", []string{"=1"}, nil, true},
		{"duplicate", []string{"a=1", "a=2"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAssignments(tt.items)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunMapping_WritesTargets(t *testing.T) {
	dir := useMapping(t, testMapping)
	src := writeFile(t, dir, "in.json", `{"name": "  ada lovelace "}`)
	out := filepath.Join(dir, "out.json")

	cmd, stdout, _ := testCommand()

	err := runMapping(cmd, runOptions{
		sources:    []string{"src=" + src},
		targets:    []string{"tgt=" + out},
		properties: []string{"region=eu"},
	})
	require.NoError(t, err)

	assert.Empty(t, stdout.String())
	assert.Equal(t, map[string]any{"fullName": "ADA LOVELACE", "region": "eu"}, readJSON(t, out))
}

func TestRunMapping_PrintsTargets(t *testing.T) {
	dir := useMapping(t, testMapping)
	src := writeFile(t, dir, "in.json", `{"name": "bob"}`)

	cmd, stdout, _ := testCommand()

	err := runMapping(cmd, runOptions{
		sources:    []string{"src=" + src},
		properties: []string{"region=us"},
	})
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	assert.Equal(t, map[string]any{"fullName": "BOB", "region": "us"}, doc)
}

func TestRunMapping_ReportsErrors(t *testing.T) {
	dir := useMapping(t, testMapping)
	src := writeFile(t, dir, "in.json", `{"name": "bob"}`)

	cmd, _, stderr := testCommand()

	// region is neither a session, mapping nor environment property
	t.Setenv("REGION", "")
	require.NoError(t, os.Unsetenv("REGION"))

	err := runMapping(cmd, runOptions{sources: []string{"src=" + src}})
	require.ErrorIs(t, err, errRunFailed)
	assert.Contains(t, stderr.String(), "source_field_failed")
}

func TestRunMapping_RejectsUnknownTarget(t *testing.T) {
	useMapping(t, testMapping)

	cmd, _, _ := testCommand()

	err := runMapping(cmd, runOptions{targets: []string{"src=out.json"}})
	assert.ErrorContains(t, err, "not a target data source")
}

func TestRunValidate(t *testing.T) {
	useMapping(t, testMapping)

	cmd, stdout, _ := testCommand()
	require.NoError(t, runValidate(cmd))
	assert.Equal(t, "mapping is valid\n", stdout.String())

	useMapping(t, `
dataSources:
  - {id: src, uri: "json:"}
  - {id: tgt, uri: "json:", role: target}
mappings:
  - inputs: {field: "src:/a", actions: [Upercase]}
    outputs: "tgt:/a"
`)

	cmd, stdout, _ = testCommand()
	require.ErrorIs(t, runValidate(cmd), errInvalidMapping)
	assert.Contains(t, stdout.String(), "unknown_action")
	assert.Contains(t, stdout.String(), "did you mean Uppercase?")
	assert.Contains(t, stdout.String(), "1 errors, 0 warnings, 0 infos")
}

func TestRunValidate_RequiresMapping(t *testing.T) {
	mappingFile = ""

	cmd, _, _ := testCommand()
	assert.ErrorContains(t, runValidate(cmd), "--mapping is required")
}

func TestRunBatch(t *testing.T) {
	dir := useMapping(t, testMapping)
	outDir := filepath.Join(dir, "out")

	files := []string{
		writeFile(t, dir, "a.json", `{"name": "a"}`),
		writeFile(t, dir, "b.json", `{"name": "b"}`),
		writeFile(t, dir, "c.json", `{"name": "c"}`),
	}

	cmd, stdout, _ := testCommand()

	err := runBatch(cmd, batchOptions{
		outDir:     outDir,
		parallel:   2,
		properties: []string{"region=eu"},
	}, files)
	require.NoError(t, err, stdout.String())

	for _, name := range []string{"a", "b", "c"} {
		got := readJSON(t, filepath.Join(outDir, name+".tgt.json"))
		assert.Equal(t, map[string]any{"fullName": strings.ToUpper(name), "region": "eu"}, got)
	}

	assert.Contains(t, stdout.String(), "3 FILES")
}

func TestRunBatch_MissingFile(t *testing.T) {
	dir := useMapping(t, testMapping)

	cmd, stdout, _ := testCommand()

	err := runBatch(cmd, batchOptions{outDir: dir, parallel: 1, properties: []string{"region=eu"}},
		[]string{filepath.Join(dir, "missing.json")})
	require.ErrorIs(t, err, errRunFailed)
	assert.Contains(t, stdout.String(), "1 FAILED")
}

func TestListActions(t *testing.T) {
	reg := action.NewDefaultRegistry()

	cmd, stdout, _ := testCommand()
	require.NoError(t, listActions(cmd, reg, "pad"))
	assert.Contains(t, stdout.String(), "PadStringLeft")
	assert.Contains(t, stdout.String(), "PadStringRight")
	assert.NotContains(t, stdout.String(), "Trim")

	cmd, stdout, _ = testCommand()
	require.NoError(t, listActions(cmd, reg, ""))
	assert.Contains(t, stdout.String(), "[]DOUBLE")

	cmd, _, _ = testCommand()
	assert.ErrorContains(t, listActions(cmd, reg, "Uppercse"), "did you mean Uppercase?")
}
