// Package validate compares captured output against an expectation using
// one of three comparison modes: exact, contains or pattern.
//
// Comparison failures are always returned as data. Nothing in this package
// panics or returns an error for a mismatch or an unparseable pattern.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// Mode selects the comparison semantics.
type Mode string

const (
	ModeExact    Mode = "exact"
	ModeContains Mode = "contains"
	ModePattern  Mode = "pattern"
)

// DefaultDiffLimit bounds the number of characters of the diff embedded in
// an exact-mode failure message.
const DefaultDiffLimit = 500

const truncatedMarker = "\n... (truncated)"

// ParseMode maps a user-facing mode name to a Mode. The regression spelling
// "exact_match" is accepted as an alias for exact. An empty name is exact.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "exact", "exact_match":
		return ModeExact, nil
	case "contains":
		return ModeContains, nil
	case "pattern":
		return ModePattern, nil
	default:
		return "", fmt.Errorf("Unknown validation mode: %s", name)
	}
}

// Result is the outcome of one comparison.
type Result struct {
	Passed  bool
	Message string
}

// Validator compares outputs with a default mode. An Expectation that carries
// its own mode overrides the default.
type Validator struct {
	mode      Mode
	diffLimit int
}

// Option configures a Validator.
type Option func(*Validator)

// WithDiffLimit sets the diff truncation cap. Non-positive values keep the default.
func WithDiffLimit(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.diffLimit = n
		}
	}
}

// New returns a Validator using mode for plain expectations.
func New(mode Mode, opts ...Option) *Validator {
	v := &Validator{mode: mode, diffLimit: DefaultDiffLimit}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate is a convenience for New(mode).Validate(actual, expected).
func Validate(actual string, expected *Expectation, mode Mode) Result {
	return New(mode).Validate(actual, expected)
}

// Validate compares actual against expected. A nil expectation always passes.
func (v *Validator) Validate(actual string, expected *Expectation) Result {
	if expected == nil {
		return Result{Passed: true, Message: "No expected output specified"}
	}

	mode := v.mode
	if expected.Mode != "" {
		mode = expected.Mode
	}

	switch mode {
	case ModeExact, "":
		return v.exact(actual, expected.Value)
	case ModeContains:
		return contains(actual, expected.Value)
	case ModePattern:
		return pattern(actual, expected.Value)
	default:
		return Result{Passed: false, Message: fmt.Sprintf("Unknown validation mode: %s", mode)}
	}
}

func (v *Validator) exact(actual, expected string) Result {
	a := strings.TrimSpace(actual)
	e := strings.TrimSpace(expected)
	if a == e {
		return Result{Passed: true, Message: "Exact match"}
	}
	return Result{Passed: false, Message: "Content mismatch:\n" + v.diff(e, a)}
}

func contains(actual, expected string) Result {
	if strings.Contains(actual, expected) {
		return Result{Passed: true, Message: "Contains expected content"}
	}
	return Result{Passed: false, Message: fmt.Sprintf("Expected substring not found: '%s'", expected)}
}

func pattern(actual, expr string) Result {
	// Compile the bare pattern first so parse errors quote the user's text.
	if _, err := regexp.Compile(expr); err != nil {
		return Result{Passed: false, Message: fmt.Sprintf("Invalid regex pattern: %v", err)}
	}
	re := regexp.MustCompile("(?ms)" + expr)
	if re.MatchString(actual) {
		return Result{Passed: true, Message: "Pattern matched"}
	}
	return Result{Passed: false, Message: fmt.Sprintf("Pattern not matched: %s", expr)}
}

// diff renders a unified diff of expected vs actual, capped at diffLimit characters.
func (v *Validator) diff(expected, actual string) string {
	d := udiff.Unified("expected", "actual", withTrailingNewline(expected), withTrailingNewline(actual))
	return truncate(d, v.diffLimit)
}

func withTrailingNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// truncate caps s at limit characters.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i] + truncatedMarker
		}
		n++
	}
	return s
}
