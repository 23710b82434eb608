// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prebuild

import (
	"context"
	"log/slog"
	"slices"
)

// Reservations answers which crystals later pre-builds already hold.
type Reservations struct {
	repo   Repository
	logger *slog.Logger
}

// NewReservations constructs a lookahead over repo.
func NewReservations(repo Repository, logger *slog.Logger) *Reservations {
	return &Reservations{repo: repo, logger: logger}
}

/*
UpcomingCrystalIDs returns crystals staged for a subscription after cycle.

Description: A pre-build counts when any cycle in its specification is
strictly greater than cycle. Pre-builds whose stored specification does not
parse are skipped with a warning.

Returns:
  - []int: Ascending crystal IDs without duplicates
*/
func (reservations *Reservations) UpcomingCrystalIDs(context context.Context, subscriptionID, cycle int) ([]int, error) {
	prebuilds, err := reservations.repo.ListBySubscription(context, subscriptionID)
	if err != nil {
		return nil, err
	}

	crystalIDs := make([]int, 0)
	for _, prebuild := range prebuilds {
		cycles, err := prebuild.Cycles()
		if err != nil {
			reservations.logger.Warn("prebuild_cycle_unparseable",
				slog.Int("prebuild_id", prebuild.ID),
				slog.String("cycle", prebuild.CycleSpec()),
				slog.Any("error", err),
			)
			continue
		}

		if latest, ok := cycles.Max(); ok && latest > cycle {
			crystalIDs = append(crystalIDs, prebuild.CrystalIDs...)
		}
	}

	slices.Sort(crystalIDs)
	return slices.Compact(crystalIDs), nil
}
