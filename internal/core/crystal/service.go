// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crystal

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/crystalbox/internal/core/shipment"
	"github.com/taibuivan/crystalbox/internal/platform/validate"
	"github.com/taibuivan/crystalbox/pkg/pagination"
)

// HistoryReader returns crystals a subscription already received.
type HistoryReader interface {
	PreviousCrystalIDs(ctx context.Context, query shipment.LookbackQuery) ([]int, error)
}

// ReservationReader returns crystals held by pre-builds scheduled after cycle.
type ReservationReader interface {
	UpcomingCrystalIDs(ctx context.Context, subscriptionID, cycle int) ([]int, error)
}

// # Service Layer

// Service orchestrates catalog management and suggestions.
type Service struct {
	repo         Repository
	history      HistoryReader
	reservations ReservationReader
	logger       *slog.Logger
}

// NewService constructs a new crystal [Service].
func NewService(repo Repository, history HistoryReader, reservations ReservationReader, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		history:      history,
		reservations: reservations,
		logger:       logger,
	}
}

// # Suggestions

// SuggestInput describes the box suggestions are computed for.
type SuggestInput struct {
	SubscriptionID int
	Month          int
	Year           int
	Cycles         []int

	SelectedIDs []int
	ExcludedIDs []int

	// Filters maps filter keys to comma-separated exclusion lists.
	Filters map[string]string

	// LookbackLimit overrides the configured history depth when positive.
	LookbackLimit int
}

/*
SuggestCrystals lists catalog crystals eligible for a box.

Description: The history lookback and the pre-build lookahead run
concurrently. Their results are unioned with the caller's excluded and
selected ids into the barred set; the remaining catalog is narrowed by the
exclusion filters and ordered by inventory rank, then name.

Returns:
  - []*Crystal: One page of suggestions
  - int: Total suggestions across all pages
  - error: Validation errors for malformed input, or upstream failures
*/
func (service *Service) SuggestCrystals(context context.Context, input SuggestInput, params pagination.Params) ([]*Crystal, int, error) {
	validator := &validate.Validator{}
	validator.Positive(FieldSubscriptionID, input.SubscriptionID)
	validator.NotEmpty(FieldCycleString, len(input.Cycles))
	validator.Custom(FieldLookbackLimit, input.LookbackLimit < 0, "Must not be negative")
	if err := validator.Err(); err != nil {
		return nil, 0, err
	}

	exclusions, err := BuildExclusions(input.Filters)
	if err != nil {
		return nil, 0, err
	}

	var previous, upcoming []int

	group, groupContext := errgroup.WithContext(context)
	group.Go(func() error {
		var err error
		previous, err = service.history.PreviousCrystalIDs(groupContext, shipment.LookbackQuery{
			SubscriptionID: input.SubscriptionID,
			Month:          input.Month,
			Year:           input.Year,
			Cycles:         input.Cycles,
			Depth:          input.LookbackLimit,
		})
		return err
	})
	group.Go(func() error {
		var err error
		upcoming, err = service.reservations.UpcomingCrystalIDs(groupContext, input.SubscriptionID, slices.Max(input.Cycles))
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, 0, err
	}

	barred := Union(previous, upcoming, input.ExcludedIDs, input.SelectedIDs)

	crystals, total, err := service.repo.List(context, Criteria{
		ExcludeIDs: barred,
		Exclusions: exclusions,
		Order:      OrderByInventory,
	}, params)
	if err != nil {
		return nil, 0, err
	}

	service.logger.Debug("suggestions_computed",
		slog.Int("subscription_id", input.SubscriptionID),
		slog.Int("previously_shipped", len(previous)),
		slog.Int("reserved", len(upcoming)),
		slog.Int("barred", len(barred)),
		slog.Int("total", total),
	)

	return crystals, total, nil
}

// Union merges id lists into one ascending list without duplicates.
func Union(lists ...[]int) []int {
	merged := make([]int, 0)
	for _, list := range lists {
		merged = append(merged, list...)
	}
	slices.Sort(merged)
	return slices.Compact(merged)
}

// # Catalog

// ListCrystals returns one page of the catalog, alphabetically.
func (service *Service) ListCrystals(context context.Context, search string, filters map[string]string, params pagination.Params) ([]*Crystal, int, error) {
	exclusions, err := BuildExclusions(filters)
	if err != nil {
		return nil, 0, err
	}

	return service.repo.List(context, Criteria{
		Exclusions: exclusions,
		Search:     strings.TrimSpace(search),
		Order:      OrderByName,
	}, params)
}

func (service *Service) GetCrystal(context context.Context, id int) (*Crystal, error) {
	return service.repo.FindByID(context, id)
}

// ListByIDs returns the known crystals among ids.
func (service *Service) ListByIDs(context context.Context, ids []int) ([]*Crystal, error) {
	return service.repo.ListByIDs(context, ids)
}

func validateCrystal(crystal *Crystal) error {
	crystal.Name = strings.TrimSpace(crystal.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, crystal.Name).MaxLen(FieldName, crystal.Name, 200)

	if crystal.Rarity != nil {
		validator.Custom(FieldRarity, !crystal.Rarity.IsValid(), "Must be one of LOW, MEDIUM, HIGH")
	}
	if crystal.FindAge != nil {
		validator.Custom(FieldFindAge, !crystal.FindAge.IsValid(), "Must be one of NEW, OLD, DEAD")
	}
	if crystal.Inventory != nil {
		validator.Custom(FieldInventory, !crystal.Inventory.IsValid(), "Must be one of HIGH, MEDIUM, LOW, OUT")
	}

	return validator.Err()
}

func (service *Service) CreateCrystal(context context.Context, crystal *Crystal) error {
	if err := validateCrystal(crystal); err != nil {
		return err
	}

	if err := service.repo.Create(context, crystal); err != nil {
		return err
	}

	service.logger.Info("crystal_created", slog.Int("crystal_id", crystal.ID), slog.String("name", crystal.Name))
	return nil
}

func (service *Service) UpdateCrystal(context context.Context, crystal *Crystal) error {
	if err := validateCrystal(crystal); err != nil {
		return err
	}

	if err := service.repo.Update(context, crystal); err != nil {
		return err
	}

	service.logger.Info("crystal_updated", slog.Int("crystal_id", crystal.ID))
	return nil
}

func (service *Service) DeleteCrystal(context context.Context, id int) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("crystal_deleted", slog.Int("crystal_id", id))
	return nil
}
