// Package template inspects a skill directory and emits a skeleton test
// specification for a person to fill in.
package template

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/bartekus/skilltest/internal/logger"
	"github.com/bartekus/skilltest/internal/manifest"
	"github.com/bartekus/skilltest/internal/scanner"
	"github.com/bartekus/skilltest/internal/testspec"
)

// ScriptExtension is the only extension enumerated as a script.
const ScriptExtension = ".py"

// TestVersion is written into generated documents.
const TestVersion = "1.0"

// Structure is what Analyze found in a skill directory.
type Structure struct {
	SkillName   string
	SkillPath   string
	HasManifest bool
	Manifest    *manifest.Manifest
	HasScripts  bool
	Scripts     []string
}

// Analyze inspects skillDir. A missing or unparseable manifest is logged and
// never fails the analysis. A missing skillDir does, with an error matching
// os.ErrNotExist.
func Analyze(ctx context.Context, skillDir string) (*Structure, error) {
	info, err := os.Stat(skillDir)
	if err != nil {
		return nil, errors.Wrapf(err, "Skill path not found: %s", skillDir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("skill path %s is not a directory", skillDir)
	}

	abs, err := filepath.Abs(skillDir)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve skill path")
	}

	s := &Structure{
		SkillName: filepath.Base(abs),
		SkillPath: abs,
	}
	log := logger.G(ctx).WithField("skill", abs)

	if manifest.Exists(abs) {
		s.HasManifest = true
		m, err := manifest.Load(abs)
		if err != nil {
			log.WithError(err).Warn("skill manifest could not be parsed")
		} else {
			s.Manifest = m
		}
	} else {
		log.Warnf("skill has no %s", manifest.FileName)
	}

	scripts, err := scanner.ScriptFiles(filepath.Join(abs, scanner.ScriptsDir), ScriptExtension)
	if err != nil {
		return nil, err
	}
	s.Scripts = scripts
	s.HasScripts = len(scripts) > 0

	log.WithFields(logrus.Fields{
		"manifest": s.HasManifest,
		"scripts":  len(scripts),
	}).Debug("skill analyzed")

	return s, nil
}

// Generate builds the skeleton specification for s: one unit stub per
// script, one integration stub and one regression stub.
func Generate(s *Structure) *testspec.Spec {
	return &testspec.Spec{
		SkillName:        s.SkillName,
		SkillPath:        s.SkillPath,
		TestVersion:      TestVersion,
		Description:      fmt.Sprintf("Test cases for %s skill", s.SkillName),
		UnitTests:        unitTests(s),
		IntegrationTests: integrationTests(s),
		RegressionTests:  regressionTests(s),
		Instructions: map[string]any{
			"unit_tests":        "Test individual components (scripts, functions) in isolation",
			"integration_tests": "Test complete workflows and interactions between components",
			"regression_tests":  "Compare outputs against known baselines to catch regressions",
			"howto":             "Fill in test details, then run with: skilltest run <this-file>",
		},
	}
}

func unitTests(s *Structure) []testspec.UnitCase {
	tests := make([]testspec.UnitCase, 0, len(s.Scripts))
	for _, script := range s.Scripts {
		tests = append(tests, testspec.UnitCase{
			Name:             fmt.Sprintf("Test %s executes successfully", script),
			Type:             testspec.TypeScript,
			Script:           script,
			Args:             []string{},
			ExpectedExitCode: 0,
			Description:      fmt.Sprintf("Verify that %s runs without errors", script),
		})
	}
	return tests
}

func integrationTests(s *Structure) []testspec.IntegrationCase {
	return []testspec.IntegrationCase{{
		Name:        fmt.Sprintf("Test %s complete workflow", s.SkillName),
		Type:        "workflow",
		Description: fmt.Sprintf("End-to-end test of typical %s usage", s.SkillName),
		Steps: []testspec.Step{
			{Action: "Setup test environment", Details: "Create necessary test files and directories"},
			{Action: "Execute workflow", Details: "Run the main skill operation"},
			{Action: "Validate output", Details: "Check that output meets expectations"},
		},
		Input: map[string]any{
			"user_query": "Example user query that triggers this skill",
			"files":      []any{},
		},
		ExpectedOutput: map[string]any{
			"type":       "Describe expected output type (file, text, etc.)",
			"validation": "Describe how to validate the output",
		},
	}}
}

func regressionTests(s *Structure) []testspec.RegressionCase {
	return []testspec.RegressionCase{{
		Name:        fmt.Sprintf("Regression: %s baseline behavior", s.SkillName),
		Description: "Ensure skill behavior hasn't changed from established baseline",
		Input: map[string]any{
			"user_query": "Example query with known expected behavior",
			"files":      []any{},
		},
		BaselineFile:     BaselinePath(s.SkillName),
		ValidationMethod: "exact_match",
		Notes:            "Update baseline_file path with actual baseline output location",
	}}
}

// BaselinePath is the conventional first baseline of a skill.
func BaselinePath(skillName string) string {
	return fmt.Sprintf("baselines/%s_baseline_1.txt", skillName)
}

// DefaultOutputPath is the file name a generated document is written to when
// no output is given.
func DefaultOutputPath(skillName string, format testspec.Format) string {
	return fmt.Sprintf("%s-tests.%s", skillName, format.Extension())
}
