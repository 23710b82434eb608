// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prebuild

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/crystalbox/internal/core/crystal"
	"github.com/taibuivan/crystalbox/internal/core/shipment"
	"github.com/taibuivan/crystalbox/internal/core/subscription"
	"github.com/taibuivan/crystalbox/internal/platform/validate"
	"github.com/taibuivan/crystalbox/pkg/cyclespec"
	"github.com/taibuivan/crystalbox/pkg/pagination"
	"github.com/taibuivan/crystalbox/pkg/slice"
)

// CrystalReader loads catalog rows for inventory checks.
type CrystalReader interface {
	ListByIDs(ctx context.Context, ids []int) ([]*crystal.Crystal, error)
}

// SubscriptionReader resolves the box type a smart-check targets.
type SubscriptionReader interface {
	GetSubscription(ctx context.Context, id int) (*subscription.Subscription, error)
}

// Settings tunes smart-checks.
type Settings struct {
	// Concurrency bounds how many pre-builds a batch smart-check inspects at once.
	Concurrency int

	Conflicts ConflictOptions
}

// # Service Layer

// Service orchestrates pre-build staging, smart-checks and building.
type Service struct {
	repo          Repository
	crystals      CrystalReader
	history       crystal.HistoryReader
	subscriptions SubscriptionReader
	settings      Settings
	logger        *slog.Logger
}

// NewService constructs a new pre-build [Service].
func NewService(repo Repository, crystals CrystalReader, history crystal.HistoryReader, subscriptions SubscriptionReader, settings Settings, logger *slog.Logger) *Service {
	if settings.Concurrency < 1 {
		settings.Concurrency = 1
	}
	return &Service{
		repo:          repo,
		crystals:      crystals,
		history:       history,
		subscriptions: subscriptions,
		settings:      settings,
		logger:        logger,
	}
}

// # Staging

func (service *Service) ListPreBuilds(context context.Context, filter Filter, params pagination.Params) ([]*PreBuild, int, error) {
	return service.repo.List(context, filter, params)
}

func (service *Service) GetPreBuild(context context.Context, id int) (*PreBuild, error) {
	return service.repo.FindByID(context, id)
}

// normalize trims the specification, rejects malformed ones and dedupes crystals.
func normalize(prebuild *PreBuild) error {
	validator := &validate.Validator{}
	validator.Positive(FieldSubscriptionID, prebuild.SubscriptionID)

	if prebuild.Cycle != nil {
		spec := strings.TrimSpace(*prebuild.Cycle)
		if spec == "" {
			prebuild.Cycle = nil
		} else {
			prebuild.Cycle = &spec
			if _, err := cyclespec.Parse(spec); err != nil {
				validator.Custom(FieldCycle, true, err.Error())
			}
		}
	}

	validator.Custom(FieldCrystalIDs, slices.ContainsFunc(prebuild.CrystalIDs, func(id int) bool { return id < 1 }), "Must be positive ids")
	prebuild.CrystalIDs = crystal.Union(prebuild.CrystalIDs)

	return validator.Err()
}

func (service *Service) CreatePreBuild(context context.Context, prebuild *PreBuild) error {
	if err := normalize(prebuild); err != nil {
		return err
	}

	if err := service.repo.Create(context, prebuild); err != nil {
		return err
	}

	service.logger.Info("prebuild_created",
		slog.Int("prebuild_id", prebuild.ID),
		slog.Int("subscription_id", prebuild.SubscriptionID),
		slog.String("cycle", prebuild.CycleSpec()),
	)
	return nil
}

func (service *Service) UpdatePreBuild(context context.Context, prebuild *PreBuild) error {
	if err := normalize(prebuild); err != nil {
		return err
	}

	if err := service.repo.Update(context, prebuild); err != nil {
		return err
	}

	service.logger.Info("prebuild_updated", slog.Int("prebuild_id", prebuild.ID))
	return nil
}

func (service *Service) DeletePreBuild(context context.Context, id int) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("prebuild_deleted", slog.Int("prebuild_id", id))
	return nil
}

// # Building

// BuildInput carries what a pre-build lacks to become shipments.
type BuildInput struct {
	Month     int
	Year      int
	UserCount int
}

/*
BuildPreBuild turns a pre-build into one shipment per cycle.

Description: The shipments are inserted and the pre-build removed in one
transaction. A shipment that already exists for one of the cycles aborts the
build with a Conflict and leaves the pre-build in place.
*/
func (service *Service) BuildPreBuild(context context.Context, id int, input BuildInput) ([]*shipment.Shipment, error) {
	prebuild, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	shipments, err := shipment.Expand(shipment.Draft{
		SubscriptionID: prebuild.SubscriptionID,
		Month:          input.Month,
		Year:           input.Year,
		CycleSpec:      prebuild.CycleSpec(),
		UserCount:      input.UserCount,
		CrystalIDs:     prebuild.CrystalIDs,
	})
	if err != nil {
		return nil, err
	}

	if err := service.repo.Build(context, id, shipments); err != nil {
		return nil, err
	}

	service.logger.Info("prebuild_built",
		slog.Int("prebuild_id", id),
		slog.String("group_label", shipments[0].GroupLabel),
		slog.Any("shipment_ids", slice.Map(shipments, func(s *shipment.Shipment) int { return s.ID })),
	)
	return shipments, nil
}
