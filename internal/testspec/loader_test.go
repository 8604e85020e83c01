package testspec

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/skilltest/internal/validate"
)

const jsonSpec = `{
  "skill_name": "pdf",
  "skill_path": "/skills/pdf",
  "test_version": "1.0",
  "unit_tests": [
    {"name": "ok", "type": "script", "script": "echo_ok", "args": [], "expected_exit_code": 0, "expected_output": "OK"},
    {"script": "count", "args": [1, "two"], "expected_output": {"pattern": "\\d+"}, "timeout": "5s"},
    {"name": "fn", "type": "function"},
    {"name": "weird", "type": "browser"},
    {"name": "broken", "args": {"not": "a list"}}
  ],
  "integration_tests": [
    {"name": "flow", "steps": ["setup", {"action": "run", "details": "main op"}], "input": {"user_query": "q"}}
  ],
  "regression_tests": [
    {"name": "reg", "baseline_file": "baselines/reg.txt", "expected_output": {"contains": "hi"}, "validation_method": "exact_match", "timeout": 2}
  ],
  "_instructions": {"howto": "fill me in"}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "pdf-tests.json", jsonSpec)

	spec, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pdf", spec.SkillName)
	assert.Equal(t, "1.0", spec.TestVersion)
	assert.Equal(t, path, spec.Path)
	assert.Equal(t, filepath.Dir(path), spec.Dir())
	require.Len(t, spec.UnitTests, 5)

	ok := spec.UnitTests[0]
	assert.Equal(t, "ok", ok.Name)
	assert.Equal(t, TypeScript, ok.Type)
	assert.Equal(t, "echo_ok", ok.Script)
	assert.Equal(t, validate.Exact("OK"), ok.ExpectedOutput)

	unnamed := spec.UnitTests[1]
	assert.Equal(t, UnnamedTest, unnamed.Name)
	assert.Equal(t, TypeScript, unnamed.Type, "type defaults to script")
	assert.Equal(t, []string{"1", "two"}, unnamed.Args)
	assert.Equal(t, validate.Pattern(`\d+`), unnamed.ExpectedOutput)
	assert.Equal(t, 5*time.Second, unnamed.Timeout.Std())

	require.Len(t, spec.IntegrationTests, 1)
	assert.Equal(t, []Step{{Action: "setup"}, {Action: "run", Details: "main op"}}, spec.IntegrationTests[0].Steps)
	assert.Equal(t, map[string]any{"user_query": "q"}, spec.IntegrationTests[0].Input)

	require.Len(t, spec.RegressionTests, 1)
	reg := spec.RegressionTests[0]
	assert.Equal(t, "baselines/reg.txt", reg.BaselineFile)
	assert.Equal(t, validate.Contains("hi"), reg.ExpectedOutput)
	assert.Equal(t, 2*time.Second, reg.Timeout.Std())

	assert.Equal(t, map[string]any{"howto": "fill me in"}, spec.Instructions)
}

func TestLoad_YAML(t *testing.T) {
	content := `skill_name: docx
unit_tests:
  - name: prints
    script: hello.sh
    args: [--name, world]
    expected_exit_code: 2
    expected_output: null
regression_tests:
  - baseline_file: baselines/docx_baseline_1.txt
`
	for _, name := range []string{"docx-tests.yaml", "docx-tests.yml"} {
		path := writeFile(t, t.TempDir(), name, content)
		spec, err := Load(path)
		require.NoError(t, err, name)

		require.Len(t, spec.UnitTests, 1)
		u := spec.UnitTests[0]
		assert.Equal(t, []string{"--name", "world"}, u.Args)
		assert.Equal(t, 2, u.ExpectedExitCode)
		assert.Nil(t, u.ExpectedOutput)

		assert.Empty(t, spec.IntegrationTests)
		require.Len(t, spec.RegressionTests, 1)
		assert.Equal(t, UnnamedTest, spec.RegressionTests[0].Name)
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "tests.toml", "x = 1")

	_, err := Load(path)
	require.Error(t, err)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Error(), "Unsupported test file format: .toml")
}

func TestLoad_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "malformed json", file: "a.json", content: `{"unit_tests": [`},
		{name: "malformed yaml", file: "a.yaml", content: "unit_tests: [\n  - :"},
		{name: "root is a list", file: "a.json", content: `[1, 2]`},
		{name: "sequence is not a list", file: "a.yaml", content: "unit_tests: nope\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			_, err := Load(path)
			var fe *FormatError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, path, fe.Path)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestParse_EmptyDocument(t *testing.T) {
	spec, err := Parse([]byte(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, spec.Cases())
}

func TestParse_MistypedMetadataIsIgnored(t *testing.T) {
	doc := `
skill_name: pdf
skill_path: ./skills/pdf
description:
  - first line
  - second line
test_version:
  major: 1
unit_tests:
  - name: runs
    script: run.py
`
	spec, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "pdf", spec.SkillName)
	assert.Equal(t, "./skills/pdf", spec.SkillPath)
	assert.Empty(t, spec.Description)
	assert.Empty(t, spec.TestVersion)
	require.Len(t, spec.Cases(), 1)
	assert.Equal(t, "runs", spec.Cases()[0].CaseName())
}

func TestSpec_Cases(t *testing.T) {
	spec, err := Parse([]byte(jsonSpec), FormatJSON)
	require.NoError(t, err)

	cases := spec.Cases()
	require.Len(t, cases, 7)

	assert.IsType(t, ScriptCase{}, cases[0])
	assert.IsType(t, ScriptCase{}, cases[1])
	assert.IsType(t, FunctionCase{}, cases[2])
	assert.IsType(t, UnknownCase{}, cases[3])
	assert.IsType(t, InvalidCase{}, cases[4])
	assert.IsType(t, IntegrationCase{}, cases[5])
	assert.IsType(t, RegressionCase{}, cases[6])

	invalid := cases[4].(InvalidCase)
	assert.Equal(t, "broken", invalid.CaseName())
	assert.Equal(t, SectionUnit, invalid.Section())
	assert.Error(t, invalid.Error)

	var sections []Section
	for _, c := range cases {
		sections = append(sections, c.Section())
	}
	assert.Equal(t, []Section{
		SectionUnit, SectionUnit, SectionUnit, SectionUnit, SectionUnit,
		SectionIntegration, SectionRegression,
	}, sections)
}

func TestEncode_RoundTrip(t *testing.T) {
	original := &Spec{
		SkillName:   "pdf",
		TestVersion: "1.0",
		UnitTests: []UnitCase{{
			Name:           "t",
			Type:           TypeScript,
			Script:         "run.py",
			Args:           []string{"a"},
			ExpectedOutput: validate.Pattern("^ok$"),
			Timeout:        Duration(3 * time.Second),
		}},
		RegressionTests: []RegressionCase{{Name: "r", BaselineFile: "baselines/r.txt", ValidationMethod: "exact_match"}},
		Instructions:    map[string]any{"howto": "run it"},
	}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		data, err := Encode(original, format)
		require.NoError(t, err)

		loaded, err := Parse(data, format)
		require.NoError(t, err, string(data))

		require.Len(t, loaded.UnitTests, 1)
		assert.Equal(t, original.UnitTests[0].Args, loaded.UnitTests[0].Args)
		assert.Equal(t, original.UnitTests[0].ExpectedOutput, loaded.UnitTests[0].ExpectedOutput)
		assert.Equal(t, original.UnitTests[0].Timeout, loaded.UnitTests[0].Timeout)
		assert.Equal(t, original.RegressionTests[0].BaselineFile, loaded.RegressionTests[0].BaselineFile)
		assert.Equal(t, original.Instructions, loaded.Instructions)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("toml")
	assert.Error(t, err)
}
