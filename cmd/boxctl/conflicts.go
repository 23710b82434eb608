// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/crystalbox/internal/core/prebuild"
	"github.com/taibuivan/crystalbox/internal/platform/config"
	"github.com/taibuivan/crystalbox/internal/platform/postgres"
)

// lister is the slice of the pre-build store the report needs.
type lister interface {
	ListAll(ctx context.Context) ([]*prebuild.PreBuild, error)
}

func newConflictsCommand(logger *slog.Logger) *cobra.Command {
	var (
		ids                 []int
		scopeBySubscription bool
	)

	command := &cobra.Command{
		Use:   "conflicts",
		Short: "Report cycle conflicts among stored pre-builds as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := config.LoadDatabase()
			if err != nil {
				return err
			}

			pool, err := postgres.NewPool(cmd.Context(), db.URL, logger)
			if err != nil {
				return err
			}
			defer pool.Close()

			options := prebuild.ConflictOptions{ScopeBySubscription: scopeBySubscription}
			return reportConflicts(cmd.Context(), cmd.OutOrStdout(), prebuild.NewPostgresRepository(pool), ids, options, logger)
		},
	}

	command.Flags().IntSliceVar(&ids, "ids", nil, "pre-build ids to check, comma separated")
	command.Flags().BoolVar(&scopeBySubscription, "scope-subscription", false, "only compare pre-builds of the same subscription")
	_ = command.MarkFlagRequired("ids")

	return command
}

func reportConflicts(ctx context.Context, out io.Writer, store lister, ids []int, options prebuild.ConflictOptions, logger *slog.Logger) error {
	all, err := store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("boxctl: list pre-builds: %w", err)
	}

	if invalid := prebuild.InvalidSpecs(all); len(invalid) > 0 {
		logger.Warn("prebuild_cycle_unparseable", slog.Any("prebuild_ids", invalid))
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(prebuild.FindConflicting(all, ids, options))
}
