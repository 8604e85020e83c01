package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bartekus/skilltest/cmd/skilltest/internal/clierr"
	"github.com/bartekus/skilltest/internal/report"
	"github.com/bartekus/skilltest/internal/runner"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		stateDir string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the results of the last saved run",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			store := runner.NewStateStore(stateDir)
			set, err := store.ReadResults()
			if err != nil {
				return clierr.Wrap(clierr.ExitFailure, "failed to read run state", err)
			}
			if set == nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No run state found.")
				return nil
			}

			rep := report.New(cmd.OutOrStdout(), report.WithVerbose(a.verbose), report.WithColorMode(a.colorMode()))
			if asJSON {
				if _, err := rep.RenderJSON(set.Spec, set.Results); err != nil {
					return clierr.Wrap(clierr.ExitFailure, "failed to write JSON report", err)
				}
				return nil
			}
			rep.Render(filepath.Base(set.Spec), set.Results)
			return nil
		},
	}

	cmd.Flags().StringVar(&stateDir, "state-dir", DefaultStateDir, "directory the run state was stored in")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results in JSON")
	return cmd
}

func newResetCmd() *cobra.Command {
	var stateDir string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear saved run state",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runner.NewStateStore(stateDir).Reset(); err != nil {
				return clierr.Wrap(clierr.ExitFailure, "failed to clear run state", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&stateDir, "state-dir", DefaultStateDir, "directory the run state is stored in")
	return cmd
}
