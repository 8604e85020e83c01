package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bartekus/skilltest/cmd/skilltest/internal/clierr"
	"github.com/bartekus/skilltest/internal/report"
	"github.com/bartekus/skilltest/internal/template"
	"github.com/bartekus/skilltest/internal/testspec"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "generate <skill-dir>",
		Short: "Generate a test specification skeleton for a skill",
		Example: `  skilltest generate ./skills/pdf
  skilltest generate ./skills/docx --output docx-tests.json
  skilltest generate ../my-skill --format yaml`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			rep := report.New(out, report.WithColorMode(a.colorMode()))
			skillDir := args[0]

			f, err := testspec.ParseFormat(format)
			if err != nil {
				return clierr.Usage(err)
			}
			if !cmd.Flags().Changed("format") && output != "" {
				if inferred, err := testspec.FormatFromPath(output); err == nil {
					f = inferred
				}
			}

			structure, err := template.Analyze(cmd.Context(), skillDir)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					rep.RenderError("Skill path not found: " + skillDir)
					return clierr.Wrap(clierr.ExitNotFound, "skill path not found", err)
				}
				return clierr.Wrap(clierr.ExitFailure, "failed to analyze skill", err)
			}

			if output == "" {
				output = template.DefaultOutputPath(structure.SkillName, f)
			}

			_, _ = fmt.Fprintf(out, "🔍 Analyzing skill: %s\n", filepath.Base(structure.SkillPath))
			_, _ = fmt.Fprintf(out, "📄 Output format: %s\n", f)
			if structure.Manifest != nil && structure.Manifest.Description != "" {
				_, _ = fmt.Fprintf(out, "📘 Manifest: %s\n", structure.Manifest.Description)
			}
			_, _ = fmt.Fprintf(out, "📜 Scripts found: %d\n\n", len(structure.Scripts))

			if err := testspec.WriteFile(template.Generate(structure), output, f); err != nil {
				return clierr.Wrap(clierr.ExitFailure, "failed to write test template", err)
			}

			_, _ = fmt.Fprintf(out, "✅ Test template generated: %s\n", output)
			_, _ = fmt.Fprintln(out, "\n📝 Next steps:")
			_, _ = fmt.Fprintf(out, "   1. Edit %s to fill in test details\n", output)
			_, _ = fmt.Fprintln(out, "   2. Add expected outputs and validation criteria")
			_, _ = fmt.Fprintln(out, "   3. Create baseline files for regression tests if needed")
			_, _ = fmt.Fprintf(out, "   4. Run tests with: skilltest run %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <skill-name>-tests.<format>)")
	cmd.Flags().StringVar(&format, "format", "json", "output format (json or yaml)")
	return cmd
}
