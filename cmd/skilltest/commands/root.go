// SPDX-License-Identifier: AGPL-3.0-or-later

/*
skilltest - Declarative tests for skill packages.
It generates test specifications from a skill's layout, runs unit, integration and regression cases against the skill's bundled scripts, and manages regression baselines.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bartekus/skilltest/cmd/skilltest/internal/clierr"
	"github.com/bartekus/skilltest/internal/config"
	"github.com/bartekus/skilltest/internal/logger"
	"github.com/bartekus/skilltest/internal/report"
)

// flagKeys maps flag names to the configuration keys they override.
var flagKeys = map[string]string{
	"timeout":             config.KeyTimeout,
	"diff-limit":          config.KeyDiffLimit,
	"parallel":            config.KeyParallel,
	"compat-placeholders": config.KeyCompatPlaceholders,
	"log-level":           config.KeyLogLevel,
	"log-format":          config.KeyLogFormat,
	"no-color":            config.KeyNoColor,
}

// app is the state shared by all subcommands of one root command.
type app struct {
	v       *viper.Viper
	cfg     config.Config
	verbose bool
}

// bind loads the configuration, letting the executing command's flags
// override file and environment values, and configures logging.
func (a *app) bind(flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return clierr.Wrapf(clierr.ExitUsage, err, "failed to bind --%s", name)
			}
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return clierr.Wrap(clierr.ExitUsage, "invalid configuration", err)
	}
	if err := logger.SetLogLevel(cfg.LogLevel); err != nil {
		return clierr.Wrapf(clierr.ExitUsage, err, "invalid log level %q", cfg.LogLevel)
	}
	logger.SetLogFormat(cfg.LogFormat)

	a.cfg = cfg
	return nil
}

func (a *app) colorMode() report.ColorMode {
	return report.DetectColorMode(a.cfg.NoColor)
}

// NewRootCmd constructs the skilltest root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("SKILLTEST_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	a := &app{v: config.New()}

	cmd := &cobra.Command{
		Use:           "skilltest",
		Short:         "skilltest - Test automation for skill packages",
		Long:          "skilltest generates, runs and validates declarative test specifications for skill packages and their bundled scripts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.bind(cmd.Flags())
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.Usage(err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "fmt", "log format (fmt, json)")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of skilltest",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "skilltest version %s\n", version)
		},
	})

	cmd.AddCommand(newGenerateCmd(a))
	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newReportCmd(a))
	cmd.AddCommand(newResetCmd())
	cmd.AddCommand(newValidateCmd(a))
	cmd.AddCommand(newLintCmd())
	cmd.AddCommand(newSchemaCmd())

	return cmd
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return clierr.Usage(cobra.ExactArgs(n)(cmd, args))
	}
}
