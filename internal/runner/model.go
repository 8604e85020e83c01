package runner

import (
	"fmt"
	"time"

	"github.com/bartekus/skilltest/internal/testspec"
)

// Status represents the outcome of a test case.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	// StatusPending marks a case the executor cannot verify yet. It is
	// neither a pass nor a failure.
	StatusPending Status = "pending"
)

// Kind classifies why a case did not pass.
type Kind string

const (
	KindNone        Kind = ""
	KindNotFound    Kind = "not_found"
	KindTimeout     Kind = "timeout"
	KindSpawn       Kind = "spawn"
	KindExitCode    Kind = "exit_code"
	KindValidation  Kind = "validation"
	KindInvalidCase Kind = "invalid_case"
	KindUnknownType Kind = "unknown_type"
	KindUnsupported Kind = "unsupported"
)

// Result is the outcome of a single test case. Results are never mutated
// after the executor returns them.
type Result struct {
	Name     string           `json:"name"`
	Section  testspec.Section `json:"section"`
	Index    int              `json:"index"` // position within the section
	Status   Status           `json:"status"`
	Kind     Kind             `json:"kind,omitempty"`
	Message  string           `json:"message"`
	Detail   string           `json:"detail,omitempty"`
	Expected string           `json:"expected,omitempty"`
	Actual   string           `json:"actual,omitempty"`

	// HasComparison is set when Expected and Actual hold a real comparison,
	// so an empty actual output is still shown.
	HasComparison bool          `json:"has_comparison,omitempty"`
	Duration      time.Duration `json:"duration_ns"`
}

// Passed reports whether the case passed.
func (r Result) Passed() bool { return r.Status == StatusPass }

// Key identifies the case across runs. Names need not be unique, so the
// key carries the section index as well.
func (r Result) Key() string { return caseKey(r.Section, r.Index, r.Name) }

func caseKey(section testspec.Section, index int, name string) string {
	return fmt.Sprintf("%s/%d/%s", section, index, name)
}

// LastRun represents the summary of the last execution.
// Matches <state-dir>/last-run.json.
type LastRun struct {
	RunID     string    `json:"run_id"`
	Spec      string    `json:"spec"`
	Status    string    `json:"status"` // "pass" or "fail"
	StartedAt time.Time `json:"started_at"`
	Cases     []string  `json:"cases"`   // Ordered list of case keys run
	Failed    []string  `json:"failed"`  // Case keys that failed
	Pending   []string  `json:"pending"` // Case keys left pending
}

// ResultSet is the full result list of one run.
// Matches <state-dir>/results.json.
type ResultSet struct {
	RunID   string   `json:"run_id"`
	Spec    string   `json:"spec"`
	Results []Result `json:"results"`
}
