package commands

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bartekus/skilltest/cmd/skilltest/internal/clierr"
	"github.com/bartekus/skilltest/internal/baseline"
	"github.com/bartekus/skilltest/internal/report"
	"github.com/bartekus/skilltest/internal/validate"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		mode           string
		createBaseline bool
	)

	cmd := &cobra.Command{
		Use:   "validate <actual-file> <expected-file> | --create-baseline <output-file> <baseline-dir>",
		Short: "Compare an output file against an expected file, or snapshot a baseline",
		Example: `  skilltest validate output.txt expected.txt
  skilltest validate output.txt expected.txt --mode contains
  skilltest validate --create-baseline test_output.txt baselines/`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := report.New(cmd.OutOrStdout(), report.WithColorMode(a.colorMode()))

			if createBaseline {
				return snapshot(rep, args[0], args[1])
			}

			m, err := validate.ParseMode(mode)
			if err != nil {
				return clierr.Newf(clierr.ExitUsage, "invalid mode %q, use 'exact', 'contains', or 'pattern'", mode)
			}
			return compareFiles(rep, args[0], args[1], m, a.cfg.DiffLimit)
		},
	}

	cmd.Flags().StringVar(&mode, "mode", string(validate.ModeExact), "comparison mode (exact, contains, pattern)")
	cmd.Flags().BoolVar(&createBaseline, "create-baseline", false, "copy <output-file> into <baseline-dir> as a new baseline")
	cmd.Flags().Int("diff-limit", validate.DefaultDiffLimit, "maximum diff size in the mismatch message")
	return cmd
}

func snapshot(rep *report.Reporter, source, dir string) error {
	target, err := baseline.Create(source, dir)
	if err != nil {
		var nf *baseline.NotFoundError
		if errors.As(err, &nf) {
			rep.RenderError("Output file not found: " + nf.Path)
			return clierr.Wrap(clierr.ExitNotFound, "cannot create baseline", err)
		}
		return clierr.Wrap(clierr.ExitFailure, "cannot create baseline", err)
	}
	rep.RenderBaseline(target)
	return nil
}

func compareFiles(rep *report.Reporter, actualPath, expectedPath string, mode validate.Mode, diffLimit int) error {
	actual, err := readInput(rep, "Actual", actualPath)
	if err != nil {
		return err
	}
	expected, err := readInput(rep, "Expected", expectedPath)
	if err != nil {
		return err
	}

	v := validate.New(mode, validate.WithDiffLimit(diffLimit))
	res := v.Validate(actual, validate.Exact(expected))
	rep.RenderComparison(actualPath, expectedPath, mode, res)

	if !res.Passed {
		return clierr.New(clierr.ExitFailure, "outputs do not match")
	}
	return nil
}

func readInput(rep *report.Reporter, label, path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is a CLI argument
	if err != nil {
		if os.IsNotExist(err) {
			rep.RenderError(fmt.Sprintf("%s file not found: %s", label, path))
			return "", clierr.Wrap(clierr.ExitNotFound, "cannot compare", &baseline.NotFoundError{Path: path})
		}
		return "", clierr.Wrapf(clierr.ExitFailure, err, "failed to read %s", path)
	}
	return string(data), nil
}
