package commands

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bartekus/skilltest/cmd/skilltest/internal/clierr"
	"github.com/bartekus/skilltest/internal/testspec"
)

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <test-file>...",
		Short: "Check test specifications against the JSON Schema",
		Long: `Validate test specification documents strictly against the generated JSON Schema.
Unlike run, lint reports unknown fields and mistyped values.`,
		Args: func(cmd *cobra.Command, args []string) error {
			return clierr.Usage(cobra.MinimumNArgs(1)(cmd, args))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			code := clierr.ExitOK

			for _, path := range args {
				err := testspec.Lint(path)
				if err == nil {
					_, _ = fmt.Fprintf(out, "✅ %s\n", path)
					continue
				}

				_, _ = fmt.Fprintf(out, "❌ %s\n", path)
				var merr *multierror.Error
				var fe *testspec.FormatError
				switch {
				case errors.As(err, &merr):
					for _, v := range merr.Errors {
						_, _ = fmt.Fprintf(out, "   - %v\n", v)
					}
					code = max(code, clierr.ExitFailure)
				case errors.As(err, &fe):
					_, _ = fmt.Fprintf(out, "   - %v\n", fe)
					code = max(code, clierr.ExitFormat)
				default:
					_, _ = fmt.Fprintf(out, "   - %v\n", err)
					code = max(code, clierr.ExitNotFound)
				}
			}

			if code != clierr.ExitOK {
				return clierr.New(code, "lint found problems")
			}
			return nil
		},
	}
}
