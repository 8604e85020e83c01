package commands

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bartekus/skilltest/cmd/skilltest/internal/clierr"
	"github.com/bartekus/skilltest/internal/report"
	"github.com/bartekus/skilltest/internal/runner"
	"github.com/bartekus/skilltest/internal/scriptexec"
	"github.com/bartekus/skilltest/internal/testspec"
	"github.com/bartekus/skilltest/internal/validate"
)

// DefaultStateDir is where report and reset look for run state.
const DefaultStateDir = ".skilltest/run"

type runOptions struct {
	skillPath     string
	json          bool
	stateDir      string
	rerunFailed   bool
	failOnPending bool
	match         string
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <test-file>",
		Short: "Run the cases of a test specification",
		Long: `Run unit, integration and regression cases from a JSON or YAML test specification.
Cases run in document order; a failing case never stops the run.
Exits 0 only when every case passed.`,
		Example: `  skilltest run tests/pdf-tests.json
  skilltest run tests/docx-tests.json --skill-path ./skills/docx --verbose
  skilltest run tests/all-tests.yaml --state-dir .skilltest/run --rerun-failed`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, a, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.skillPath, "skill-path", "", "skill root the scripts are resolved under (defaults to the document's skill_path)")
	f.BoolVar(&opts.json, "json", false, "output results in JSON")
	f.StringVar(&opts.stateDir, "state-dir", "", "directory to store run state (e.g. "+DefaultStateDir+")")
	f.BoolVar(&opts.rerunFailed, "rerun-failed", false, "run only the cases that failed in the last run")
	f.BoolVar(&opts.failOnPending, "fail-on-pending", false, "fail if any case is not yet executable")
	f.StringVar(&opts.match, "run", "", "only run cases whose name matches this glob")
	f.Duration("timeout", scriptexec.DefaultTimeout, "per-case script timeout")
	f.Int("parallel", 1, "number of cases to run at once")
	f.Int("diff-limit", validate.DefaultDiffLimit, "maximum diff size in failure messages")
	f.Bool("compat-placeholders", false, "report function and integration placeholders as passes")

	return cmd
}

func runTests(cmd *cobra.Command, a *app, opts runOptions, path string) error {
	ctx := cmd.Context()
	rep := report.New(cmd.OutOrStdout(), report.WithVerbose(a.verbose), report.WithColorMode(a.colorMode()))

	if _, err := os.Stat(path); err != nil {
		rep.RenderError("Test file not found: " + path)
		return clierr.Wrapf(clierr.ExitNotFound, err, "test file not found: %s", path)
	}

	spec, err := testspec.Load(path)
	if err != nil {
		var fe *testspec.FormatError
		if errors.As(err, &fe) {
			rep.RenderError(fe.Error())
			return clierr.Wrap(clierr.ExitFormat, "failed to load test specification", err)
		}
		return clierr.Wrap(clierr.ExitFailure, "failed to load test specification", err)
	}

	var store *runner.StateStore
	if opts.stateDir != "" {
		store = runner.NewStateStore(opts.stateDir)
	}

	executor, err := runner.NewExecutor(runner.Options{
		SkillRoot:   opts.skillPath,
		Timeout:     a.cfg.Timeout,
		DiffLimit:   a.cfg.DiffLimit,
		Compat:      a.cfg.CompatPlaceholders,
		Parallel:    a.cfg.Parallel,
		Match:       opts.match,
		RerunFailed: opts.rerunFailed,
	}, store)
	if err != nil {
		return clierr.Usage(err)
	}

	results, err := executor.Run(ctx, spec)
	if err != nil && results == nil {
		return clierr.Wrap(clierr.ExitFailure, "run failed", err)
	}

	var summary report.Summary
	if opts.json {
		s, jerr := rep.RenderJSON(path, results)
		if jerr != nil {
			return clierr.Wrap(clierr.ExitFailure, "failed to write JSON report", jerr)
		}
		summary = s
	} else {
		summary = rep.Render(filepath.Base(path), results)
	}

	// Run state errors surface after the report.
	if err != nil {
		return clierr.Wrap(clierr.ExitFailure, "failed to save run state", err)
	}
	if !summary.OK(opts.failOnPending) {
		return clierr.Newf(clierr.ExitFailure, "%d of %d test(s) did not pass", summary.Total-summary.Passed, summary.Total)
	}
	return nil
}
