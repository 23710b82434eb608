// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/crystalbox/internal/platform/config"
	"github.com/taibuivan/crystalbox/internal/platform/migration"
)

func newMigrateCommand(logger *slog.Logger) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.LoadDatabase()
			if err != nil {
				return err
			}
			if err := migration.RunUp(db.URL, db.MigrationPath, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.LoadDatabase()
			if err != nil {
				return err
			}
			state, err := migration.Status(db.URL, db.MigrationPath, logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), describeState(state))
			return nil
		},
	}

	// Bare "boxctl migrate" behaves like "boxctl migrate up".
	migrate.Args = cobra.NoArgs
	migrate.RunE = up.RunE

	migrate.AddCommand(up, status)
	return migrate
}

func describeState(state migration.State) string {
	switch {
	case state.Empty:
		return "no migrations applied"
	case state.Dirty:
		return fmt.Sprintf("version %d (dirty, manual intervention required)", state.Version)
	default:
		return fmt.Sprintf("version %d", state.Version)
	}
}
