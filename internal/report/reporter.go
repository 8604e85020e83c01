// Package report renders executor results for people (a sectioned console
// log with a pass-rate summary) and for machines (JSON).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/bartekus/skilltest/internal/runner"
	"github.com/bartekus/skilltest/internal/testspec"
	"github.com/bartekus/skilltest/internal/validate"
)

// ColorMode represents different color output modes.
type ColorMode int

const (
	// ColorAuto lets the color package detect terminal support.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// DetectColorMode picks a mode from the --no-color setting and the
// environment (NO_COLOR, SKILLTEST_COLOR).
func DetectColorMode(noColor bool) ColorMode {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}
	switch os.Getenv("SKILLTEST_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

const (
	heavyRule = 60
	lightRule = 40
	indent    = "     └─ "
	continued = "        "
)

var sectionTitles = map[testspec.Section]string{
	testspec.SectionUnit:        "📦 Unit Tests",
	testspec.SectionIntegration: "🔗 Integration Tests",
	testspec.SectionRegression:  "🔄 Regression Tests",
}

// Reporter writes results to an output stream.
type Reporter struct {
	out     io.Writer
	verbose bool

	pass    *color.Color
	fail    *color.Color
	pending *color.Color
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithVerbose prints diagnostics for passing cases too.
func WithVerbose(verbose bool) Option {
	return func(r *Reporter) { r.verbose = verbose }
}

// WithColorMode configures the color package for the process.
func WithColorMode(mode ColorMode) Option {
	return func(*Reporter) {
		switch mode {
		case ColorAlways:
			color.NoColor = false
		case ColorNever:
			color.NoColor = true
		case ColorAuto:
		}
	}
}

// New returns a Reporter writing to out.
func New(out io.Writer, opts ...Option) *Reporter {
	r := &Reporter{
		out:     out,
		pass:    color.New(color.FgGreen, color.Bold),
		fail:    color.New(color.FgRed, color.Bold),
		pending: color.New(color.FgYellow, color.Bold),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render prints the console report for results loaded from source and
// returns the summary it printed. Section headers appear only for sections
// that produced results.
func (r *Reporter) Render(source string, results []runner.Result) Summary {
	fmt.Fprintf(r.out, "\n🧪 Running tests from: %s\n", source)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("=", heavyRule))

	first := true
	for _, section := range testspec.Sections {
		var inSection []runner.Result
		for _, res := range results {
			if res.Section == section {
				inSection = append(inSection, res)
			}
		}
		if len(inSection) == 0 {
			continue
		}

		if !first {
			fmt.Fprintln(r.out)
		}
		first = false

		fmt.Fprintln(r.out, sectionTitles[section])
		fmt.Fprintln(r.out, strings.Repeat("-", lightRule))
		for _, res := range inSection {
			r.printResult(res)
		}
	}

	summary := Summarize(results)
	r.printSummary(summary)
	return summary
}

func (r *Reporter) printResult(res runner.Result) {
	var label string
	switch res.Status {
	case runner.StatusPass:
		label = r.pass.Sprint("✅ PASS")
	case runner.StatusPending:
		label = r.pending.Sprint("⏸ PEND")
	default:
		label = r.fail.Sprint("❌ FAIL")
	}
	fmt.Fprintf(r.out, "%s | %s\n", label, res.Name)

	if res.Passed() && !r.verbose {
		return
	}
	if res.Message != "" {
		fmt.Fprintf(r.out, "%s%s\n", indent, res.Message)
	}
	if res.Detail != "" {
		for _, line := range strings.Split(strings.TrimRight(res.Detail, "\n"), "\n") {
			fmt.Fprintf(r.out, "%s%s\n", continued, line)
		}
	}
	if res.HasComparison {
		fmt.Fprintf(r.out, "%sExpected: %s\n", indent, res.Expected)
		fmt.Fprintf(r.out, "%sActual:   %s\n", indent, res.Actual)
	}
}

func (r *Reporter) printSummary(s Summary) {
	rule := strings.Repeat("=", heavyRule)
	fmt.Fprintf(r.out, "\n%s\n", rule)
	fmt.Fprintln(r.out, "📊 Test Summary")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "Total:  %d\n", s.Total)
	fmt.Fprintf(r.out, "Passed: %d ✅\n", s.Passed)
	if s.Failed > 0 {
		fmt.Fprintf(r.out, "Failed: %d ❌\n", s.Failed)
	} else {
		fmt.Fprintf(r.out, "Failed: %d\n", s.Failed)
	}
	if s.Pending > 0 {
		fmt.Fprintf(r.out, "Pending: %d ⏸\n", s.Pending)
	}
	fmt.Fprintf(r.out, "Success Rate: %.1f%%\n\n", s.Rate())
}

type jsonReport struct {
	Spec        string          `json:"spec"`
	Results     []runner.Result `json:"results"`
	Summary     Summary         `json:"summary"`
	SuccessRate float64         `json:"success_rate"`
}

// RenderJSON writes results and their summary as one JSON document.
func (r *Reporter) RenderJSON(source string, results []runner.Result) (Summary, error) {
	if results == nil {
		results = []runner.Result{}
	}
	summary := Summarize(results)

	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	err := enc.Encode(jsonReport{
		Spec:        source,
		Results:     results,
		Summary:     summary,
		SuccessRate: summary.Rate(),
	})
	return summary, err
}

// RenderComparison prints the outcome of comparing two files.
func (r *Reporter) RenderComparison(actualPath, expectedPath string, mode validate.Mode, res validate.Result) {
	rule := strings.Repeat("=", heavyRule)
	fmt.Fprintln(r.out, "\n📊 Validation Results")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "Actual:   %s\n", actualPath)
	fmt.Fprintf(r.out, "Expected: %s\n", expectedPath)
	fmt.Fprintf(r.out, "Mode:     %s\n", mode)
	fmt.Fprintln(r.out, rule)

	if res.Passed {
		fmt.Fprintf(r.out, "%s %s\n\n", r.pass.Sprint("✅ PASS:"), res.Message)
		return
	}
	fmt.Fprintf(r.out, "%s %s\n\n", r.fail.Sprint("❌ FAIL:"), res.Message)
}

// RenderBaseline prints where a baseline snapshot was written.
func (r *Reporter) RenderBaseline(path string) {
	fmt.Fprintf(r.out, "%s %s\n", r.pass.Sprint("✅ Baseline created:"), path)
	fmt.Fprintln(r.out, "\n📝 This baseline can now be used in regression tests:")
	fmt.Fprintf(r.out, "   \"baseline_file\": %q\n", path)
}

// RenderError prints a user-facing error line.
func (r *Reporter) RenderError(msg string) {
	fmt.Fprintf(r.out, "%s %s\n", r.fail.Sprint("❌ Error:"), msg)
}
