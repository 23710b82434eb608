// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command boxctl is the operator CLI for Crystalbox.
//
// # Commands
//
//   - migrate up | status: apply or inspect schema migrations.
//   - cycles <spec>: print the expansion of a cycle specification.
//   - conflicts --ids 1,2: report cycle conflicts among stored pre-builds.
//
// Commands that touch the database read DATABASE_URL and MIGRATION_PATH from
// the environment, the same way the API server does.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/taibuivan/crystalbox/internal/platform/constants"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})).
		With(slog.String("app", "boxctl"))

	if err := newRootCommand(logger).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "boxctl",
		Short:         "Operator tooling for the Crystalbox back office",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newMigrateCommand(logger),
		newCyclesCommand(),
		newConflictsCommand(logger),
	)
	return root
}
