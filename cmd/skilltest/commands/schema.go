package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bartekus/skilltest/cmd/skilltest/internal/clierr"
	"github.com/bartekus/skilltest/internal/testspec"
)

func newSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the test specification format",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := testspec.GenerateJSONSchema()
			if err != nil {
				return clierr.Wrap(clierr.ExitFailure, "failed to generate schema", err)
			}
			data = append(data, '\n')

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil { //nolint:gosec // schema is meant to be shared
				return clierr.Wrapf(clierr.ExitFailure, err, "failed to write %s", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the schema to a file instead of stdout")
	return cmd
}
