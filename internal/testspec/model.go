// SPDX-License-Identifier: AGPL-3.0-or-later

// Package testspec loads, encodes and describes skill test specification
// documents: a named collection of unit, integration and regression cases.
package testspec

import (
	"path/filepath"

	"github.com/bartekus/skilltest/internal/validate"
)

// Unit test types.
const (
	TypeScript   = "script"
	TypeFunction = "function"
)

// UnnamedTest is assigned to cases that carry no name.
const UnnamedTest = "Unnamed test"

// Spec is a test specification document.
type Spec struct {
	SkillName        string            `json:"skill_name,omitempty" yaml:"skill_name,omitempty" mapstructure:"skill_name"`
	SkillPath        string            `json:"skill_path,omitempty" yaml:"skill_path,omitempty" mapstructure:"skill_path"`
	TestVersion      string            `json:"test_version,omitempty" yaml:"test_version,omitempty" mapstructure:"test_version"`
	Description      string            `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	UnitTests        []UnitCase        `json:"unit_tests" yaml:"unit_tests" mapstructure:"-"`
	IntegrationTests []IntegrationCase `json:"integration_tests" yaml:"integration_tests" mapstructure:"-"`
	RegressionTests  []RegressionCase  `json:"regression_tests" yaml:"regression_tests" mapstructure:"-"`
	Instructions     any               `json:"_instructions,omitempty" yaml:"_instructions,omitempty" mapstructure:"_instructions"`

	// Path is the file the document was loaded from, if any.
	Path string `json:"-" yaml:"-" mapstructure:"-"`
}

// Dir returns the directory relative paths in the document resolve against.
func (s *Spec) Dir() string {
	if s.Path == "" {
		return "."
	}
	return filepath.Dir(s.Path)
}

// UnitCase exercises a single script or function.
type UnitCase struct {
	Name             string                `json:"name" yaml:"name" mapstructure:"name"`
	Type             string                `json:"type" yaml:"type" mapstructure:"type"`
	Script           string                `json:"script,omitempty" yaml:"script,omitempty" mapstructure:"script"`
	Args             []string              `json:"args" yaml:"args" mapstructure:"args"`
	ExpectedExitCode int                   `json:"expected_exit_code" yaml:"expected_exit_code" mapstructure:"expected_exit_code"`
	ExpectedOutput   *validate.Expectation `json:"expected_output" yaml:"expected_output" mapstructure:"expected_output"`
	Description      string                `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Timeout          Duration              `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`

	decodeErr error
}

// IntegrationCase describes a multi-step workflow.
type IntegrationCase struct {
	Name           string `json:"name" yaml:"name" mapstructure:"name"`
	Type           string `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Steps          []Step `json:"steps,omitempty" yaml:"steps,omitempty" mapstructure:"steps"`
	Input          any    `json:"input,omitempty" yaml:"input,omitempty" mapstructure:"input"`
	ExpectedOutput any    `json:"expected_output,omitempty" yaml:"expected_output,omitempty" mapstructure:"expected_output"`

	decodeErr error
}

// Step is one human-readable workflow step. A bare string in the document
// becomes the step's Action.
type Step struct {
	Action  string `json:"action" yaml:"action" mapstructure:"action"`
	Details string `json:"details,omitempty" yaml:"details,omitempty" mapstructure:"details"`
}

// RegressionCase compares output against an inline value or a baseline file.
// Script and Args name the command whose stdout is the output under test.
type RegressionCase struct {
	Name             string                `json:"name" yaml:"name" mapstructure:"name"`
	Description      string                `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Input            any                   `json:"input,omitempty" yaml:"input,omitempty" mapstructure:"input"`
	Script           string                `json:"script,omitempty" yaml:"script,omitempty" mapstructure:"script"`
	Args             []string              `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`
	ExpectedExitCode int                   `json:"expected_exit_code,omitempty" yaml:"expected_exit_code,omitempty" mapstructure:"expected_exit_code"`
	BaselineFile     string                `json:"baseline_file,omitempty" yaml:"baseline_file,omitempty" mapstructure:"baseline_file"`
	ExpectedOutput   *validate.Expectation `json:"expected_output,omitempty" yaml:"expected_output,omitempty" mapstructure:"expected_output"`
	ValidationMethod string                `json:"validation_method,omitempty" yaml:"validation_method,omitempty" mapstructure:"validation_method"`
	Notes            string                `json:"notes,omitempty" yaml:"notes,omitempty" mapstructure:"notes"`
	Timeout          Duration              `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`

	decodeErr error
}
