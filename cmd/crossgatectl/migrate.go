// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/ddx2x/crossgate/store"
)

// NewMigrateCmd creates the "migrate" subcommand: apply the bootstrap
// schema migration the document-table provisioning functions depend
// on.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply crossgate's bootstrap schema migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Config.DatabaseURL == "" {
				return oops.Code("CONFIG_INVALID").Errorf("database_url is required")
			}

			m, err := store.NewMigrator(deps.Config.DatabaseURL)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			cmd.Println("Running migrations...")
			if err := m.Up(); err != nil {
				return err
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}
