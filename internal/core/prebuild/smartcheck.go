// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prebuild

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/crystalbox/internal/core/shipment"
	"github.com/taibuivan/crystalbox/internal/platform/apperr"
	"github.com/taibuivan/crystalbox/internal/platform/validate"
	"github.com/taibuivan/crystalbox/pkg/cyclespec"
)

// # Smart-Check

// CheckResult partitions candidate crystals of one pre-build.
type CheckResult struct {
	BarredCrystalIDs       []int `json:"barredCrystalIds"`
	OutInventoryCrystalIDs []int `json:"outInventoryCrystalIds"`
}

func (result CheckResult) clean() bool {
	return len(result.BarredCrystalIDs) == 0 && len(result.OutInventoryCrystalIDs) == 0
}

// CheckInput overrides parts of a stored pre-build for a single smart-check.
// Nil fields fall back to the pre-build's own values.
type CheckInput struct {
	CrystalIDs     []int
	Cycle          *string
	SubscriptionID *int
	Month          int
	Year           int
	LookbackLimit  int
}

// target is a fully resolved smart-check request.
type target struct {
	subscriptionID int
	month, year    int
	cycles         []int
	candidates     []int
	lookbackLimit  int
}

/*
SmartCheck inspects one pre-build before it is built.

Description: Candidates already shipped to the subscription (per the history
lookback) are barred; candidates whose inventory is OUT are flagged. Body
values override the stored pre-build, which must exist.

Returns:
  - *CheckResult: Barred and out-of-stock ids, in candidate order
  - error: NotFound for an unknown pre-build or subscription; validation
    errors for a missing or malformed cycle, month or year
*/
func (service *Service) SmartCheck(context context.Context, id int, input CheckInput) (*CheckResult, error) {
	prebuild, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	spec := prebuild.CycleSpec()
	if input.Cycle != nil {
		spec = *input.Cycle
	}

	validator := &validate.Validator{}
	shipment.ValidatePeriod(validator, input.Month, input.Year)
	cycles, err := cyclespec.Parse(spec)
	if err != nil {
		validator.Custom(FieldCycle, true, err.Error())
	} else {
		validator.NotEmpty(FieldCycle, len(cycles))
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	resolved := target{
		subscriptionID: prebuild.SubscriptionID,
		month:          input.Month,
		year:           input.Year,
		cycles:         cycles,
		candidates:     prebuild.CrystalIDs,
		lookbackLimit:  input.LookbackLimit,
	}
	if input.SubscriptionID != nil {
		resolved.subscriptionID = *input.SubscriptionID
	}
	if input.CrystalIDs != nil {
		resolved.candidates = input.CrystalIDs
	}

	if _, err := service.subscriptions.GetSubscription(context, resolved.subscriptionID); err != nil {
		return nil, err
	}

	return service.check(context, resolved)
}

func (service *Service) check(context context.Context, resolved target) (*CheckResult, error) {
	var previous, outOfStock []int

	group, groupContext := errgroup.WithContext(context)

	if len(resolved.cycles) > 0 && len(resolved.candidates) > 0 {
		group.Go(func() error {
			var err error
			previous, err = service.history.PreviousCrystalIDs(groupContext, shipment.LookbackQuery{
				SubscriptionID: resolved.subscriptionID,
				Month:          resolved.month,
				Year:           resolved.year,
				Cycles:         resolved.cycles,
				Depth:          resolved.lookbackLimit,
			})
			return err
		})
	}

	group.Go(func() error {
		crystals, err := service.crystals.ListByIDs(groupContext, resolved.candidates)
		if err != nil {
			return err
		}
		for _, candidate := range crystals {
			if candidate.IsOutOfStock() {
				outOfStock = append(outOfStock, candidate.ID)
			}
		}
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &CheckResult{
		BarredCrystalIDs:       intersect(resolved.candidates, previous),
		OutInventoryCrystalIDs: intersect(resolved.candidates, outOfStock),
	}, nil
}

// intersect keeps the members of candidates found in pool, in candidate order, once each.
func intersect(candidates, pool []int) []int {
	out := make([]int, 0)
	for _, id := range candidates {
		if slices.Contains(pool, id) && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// # Batch Smart-Check

// FlaggedPreBuild is a pre-build with at least one barred or out-of-stock crystal.
type FlaggedPreBuild struct {
	ID int `json:"id"`
	CheckResult
}

// SelectedReport is the outcome of checking several pre-builds for one month.
type SelectedReport struct {
	BadPrebuilds              []FlaggedPreBuild `json:"badPrebuilds"`
	ConflictingCyclePrebuilds []Conflict        `json:"conflictingCyclePrebuilds"`
}

/*
SmartCheckSelected checks several pre-builds against the same month and year.

Description: Each selected pre-build is smart-checked with its own
subscription, cycle and crystals, with at most Settings.Concurrency checks in
flight. Only pre-builds with findings are reported. Cycle conflicts are
computed against every stored pre-build.

A pre-build without a usable cycle specification skips the history part of
its check and never conflicts.
*/
func (service *Service) SmartCheckSelected(context context.Context, ids []int, month, year int) (*SelectedReport, error) {
	validator := &validate.Validator{}
	validator.NotEmpty(FieldPrebuildIDs, len(ids))
	shipment.ValidatePeriod(validator, month, year)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	all, err := service.repo.ListAll(context)
	if err != nil {
		return nil, err
	}

	if invalid := InvalidSpecs(all); len(invalid) > 0 {
		service.logger.Warn("prebuild_cycle_unparseable", slog.Any("prebuild_ids", invalid))
	}

	selected, err := pick(all, ids)
	if err != nil {
		return nil, err
	}

	results := make([]*CheckResult, len(selected))

	group, groupContext := errgroup.WithContext(context)
	group.SetLimit(service.settings.Concurrency)

	for i, prebuild := range selected {
		group.Go(func() error {
			cycles, err := prebuild.Cycles()
			if err != nil {
				cycles = cyclespec.Set{}
			}

			result, err := service.check(groupContext, target{
				subscriptionID: prebuild.SubscriptionID,
				month:          month,
				year:           year,
				cycles:         cycles.Sorted(),
				candidates:     prebuild.CrystalIDs,
			})
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	report := &SelectedReport{
		BadPrebuilds:              make([]FlaggedPreBuild, 0),
		ConflictingCyclePrebuilds: FindConflicting(all, ids, service.settings.Conflicts),
	}
	for i, prebuild := range selected {
		if !results[i].clean() {
			report.BadPrebuilds = append(report.BadPrebuilds, FlaggedPreBuild{ID: prebuild.ID, CheckResult: *results[i]})
		}
	}

	service.logger.Info("smart_check_selected",
		slog.Int("checked", len(selected)),
		slog.Int("flagged", len(report.BadPrebuilds)),
		slog.Int("conflicting", len(report.ConflictingCyclePrebuilds)),
	)
	return report, nil
}

// pick returns the pre-builds named by ids, in ids order and once each.
func pick(all []*PreBuild, ids []int) ([]*PreBuild, error) {
	byID := make(map[int]*PreBuild, len(all))
	for _, prebuild := range all {
		byID[prebuild.ID] = prebuild
	}

	selected := make([]*PreBuild, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		prebuild, ok := byID[id]
		if !ok {
			return nil, apperr.NotFound(resourceName)
		}
		selected = append(selected, prebuild)
	}
	return selected, nil
}
