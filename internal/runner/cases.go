package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bartekus/skilltest/internal/baseline"
	"github.com/bartekus/skilltest/internal/logger"
	"github.com/bartekus/skilltest/internal/scriptexec"
	"github.com/bartekus/skilltest/internal/testspec"
	"github.com/bartekus/skilltest/internal/validate"
)

// Messages shown for placeholder variants.
const (
	msgNotExecutable          = "Not yet executable"
	msgFunctionPlaceholder    = "Function test placeholder"
	msgIntegrationPlaceholder = "Integration test framework placeholder"
)

// execution carries what one case needs from the run it belongs to.
type execution struct {
	engine *scriptexec.Engine
	spec   *testspec.Spec
	opts   Options
}

// execute runs a single case. It never panics on bad input and always
// returns exactly one Result.
func (x *execution) execute(ctx context.Context, sc selectedCase) Result {
	c := sc.Case
	start := time.Now()

	var r Result
	switch c := c.(type) {
	case testspec.ScriptCase:
		r = x.runScriptCase(ctx, c)
	case testspec.FunctionCase:
		r = x.placeholder(msgFunctionPlaceholder)
	case testspec.IntegrationCase:
		r = x.placeholder(msgIntegrationPlaceholder)
	case testspec.RegressionCase:
		r = x.runRegressionCase(ctx, c)
	case testspec.UnknownCase:
		r = fail(KindUnknownType, fmt.Sprintf("Unknown unit test type: %s", c.Type))
	case testspec.InvalidCase:
		r = fail(KindInvalidCase, fmt.Sprintf("Invalid test case: %v", c.Error))
	default:
		r = fail(KindUnknownType, fmt.Sprintf("Unknown test case: %T", c))
	}

	r.Name = c.CaseName()
	r.Section = c.Section()
	r.Index = sc.Index
	r.Duration = time.Since(start)

	logger.G(ctx).WithFields(logrus.Fields{
		"case":    r.Key(),
		"status":  r.Status,
		"kind":    r.Kind,
		"elapsed": r.Duration,
	}).Debug("case finished")

	return r
}

func (x *execution) placeholder(compatMessage string) Result {
	if x.opts.Compat {
		return Result{Status: StatusPass, Message: compatMessage}
	}
	return Result{Status: StatusPending, Kind: KindUnsupported, Message: msgNotExecutable}
}

func (x *execution) runScriptCase(ctx context.Context, c testspec.ScriptCase) Result {
	if c.Script == "" {
		return fail(KindInvalidCase, "No script path specified")
	}

	out, r, ok := x.runGated(ctx, c.Script, c.Args, c.ExpectedExitCode, c.Timeout)
	if !ok {
		return r
	}

	pass := Result{Status: StatusPass, Message: "Script executed successfully"}
	if c.ExpectedOutput == nil {
		return pass
	}

	v := validate.New(validate.ModeExact, validate.WithDiffLimit(x.opts.DiffLimit))
	res := v.Validate(out.Stdout, c.ExpectedOutput)
	if !res.Passed {
		return withComparison(fail(KindValidation, "Output mismatch"), res.Message, c.ExpectedOutput, out.Stdout)
	}
	return withComparison(pass, "", c.ExpectedOutput, out.Stdout)
}

func (x *execution) runRegressionCase(ctx context.Context, c testspec.RegressionCase) Result {
	mode, err := validate.ParseMode(c.ValidationMethod)
	if err != nil {
		return fail(KindValidation, err.Error())
	}

	expected := baseline.Resolve(ctx, x.spec.Dir(), c.BaselineFile, c.ExpectedOutput)

	var actual string
	switch {
	case c.Script != "":
		out, r, ok := x.runGated(ctx, c.Script, c.Args, c.ExpectedExitCode, c.Timeout)
		if !ok {
			return r
		}
		actual = out.Stdout
	case !x.opts.Compat:
		return Result{Status: StatusPending, Kind: KindUnsupported, Message: msgNotExecutable}
	}

	v := validate.New(mode, validate.WithDiffLimit(x.opts.DiffLimit))
	res := v.Validate(actual, expected)
	if !res.Passed {
		return withComparison(fail(KindValidation, "Output differs from expected"), res.Message, expected, actual)
	}
	return withComparison(Result{Status: StatusPass, Message: "Output matches expected"}, "", expected, actual)
}

// runGated runs a script and applies the exit-code gate. When ok is false the
// returned Result is final and no output comparison may follow.
func (x *execution) runGated(ctx context.Context, script string, args []string, expectedExit int, timeout testspec.Duration) (scriptexec.Outcome, Result, bool) {
	out := x.engine.Run(ctx, script, args, timeout.Std())

	if !out.OK() {
		return out, withStderr(fail(Kind(out.Failure), out.Message()), out.Stderr), false
	}
	if out.ExitCode != expectedExit {
		msg := fmt.Sprintf("Exit code mismatch: expected %d, got %d", expectedExit, out.ExitCode)
		return out, withStderr(fail(KindExitCode, msg), out.Stderr), false
	}
	return out, Result{}, true
}

func fail(kind Kind, msg string) Result {
	return Result{Status: StatusFail, Kind: kind, Message: msg}
}

func withStderr(r Result, stderr string) Result {
	if s := strings.TrimSpace(stderr); s != "" {
		r.Detail = "stderr: " + s
	}
	return r
}

func withComparison(r Result, detail string, expected *validate.Expectation, actual string) Result {
	r.Detail = detail
	if expected != nil {
		r.Expected = expected.String()
		r.Actual = actual
		r.HasComparison = true
	}
	return r
}
