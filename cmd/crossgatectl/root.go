// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/ddx2x/crossgate/config"
)

var deps *Deps

// NewRootCmd creates the root command for crossgatectl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crossgatectl",
		Short: "crossgatectl - query, watch, and migrate crossgate document tables",
		Long: `crossgatectl is a thin command-line driver for crossgate, a
Condition-described JSONB document store over PostgreSQL. It is a
demonstration and operational tool, not a REPL.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			deps = d
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if deps != nil {
				deps.Close()
			}
		},
	}

	// Flag names match config.Config's koanf struct tags exactly so
	// posflag.Provider's default key mapping (flag.Name as-is) lines
	// up with the unmarshal target without a custom key function.
	cmd.PersistentFlags().String("config", "", "config file path")
	cmd.PersistentFlags().String("database_url", "", "PostgreSQL connection string")
	cmd.PersistentFlags().Int("max_pool_size", 0, "maximum connection pool size (0 uses the config default)")
	cmd.PersistentFlags().String("log_format", "", "log format: json or text")

	cmd.AddCommand(NewQueryCmd())
	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
