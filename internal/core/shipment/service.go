// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shipment

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/taibuivan/crystalbox/internal/platform/constants"
	"github.com/taibuivan/crystalbox/internal/platform/validate"
	"github.com/taibuivan/crystalbox/pkg/cyclespec"
	"github.com/taibuivan/crystalbox/pkg/pagination"
)

// LookbackSettings bounds and shapes the history walk.
type LookbackSettings struct {
	DefaultDepth int
	MaxDepth     int

	// MonthWide counts every shipment in a visited month, not only the visited cycle.
	MonthWide bool
}

// # Service Layer

// Service answers history questions and records new shipments.
type Service struct {
	repo     Repository
	cycles   CycleLengthResolver
	settings LookbackSettings
	logger   *slog.Logger
}

// NewService constructs a new shipment [Service].
func NewService(repo Repository, cycles CycleLengthResolver, settings LookbackSettings, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cycles:   cycles,
		settings: settings,
		logger:   logger,
	}
}

// ValidatePeriod adds month and year checks to validator.
func ValidatePeriod(validator *validate.Validator, month, year int) {
	validator.Range(FieldMonth, month, 0, constants.MonthsPerYear-1)
	validator.Range(FieldYear, year, constants.MinYear, constants.MaxYear)
}

// # History Lookback

/*
PreviousCrystalIDs returns the crystals a subscription already received before a target box.

Description: Walks back [LookbackQuery.Depth] cycles from the largest requested
cycle (see [Walk]), loads every shipment in the covered months with one range
query, then keeps the shipments the walk visited.

Returns:
  - []int: Ascending crystal IDs without duplicates
  - error: Validation errors for a malformed query, or repository failures
*/
func (service *Service) PreviousCrystalIDs(context context.Context, query LookbackQuery) ([]int, error) {
	depth, err := service.validateLookback(query)
	if err != nil {
		return nil, err
	}

	cycleLength, err := service.cycles.CycleLength(context, query.SubscriptionID)
	if err != nil {
		return nil, err
	}

	target := Period{Month: query.Month, Year: query.Year}
	steps := Walk(target, slices.Max(query.Cycles), cycleLength, depth)
	window := newWindow(steps, service.settings.MonthWide)

	shipments, err := service.repo.ListInPeriodRange(context, query.SubscriptionID, window.from, window.to)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	crystalIDs := make([]int, 0)
	for _, shipment := range shipments {
		if !window.matches(shipment) {
			continue
		}
		for _, crystalID := range shipment.CrystalIDs {
			if _, ok := seen[crystalID]; ok {
				continue
			}
			seen[crystalID] = struct{}{}
			crystalIDs = append(crystalIDs, crystalID)
		}
	}
	slices.Sort(crystalIDs)

	service.logger.Debug("lookback_completed",
		slog.Int("subscription_id", query.SubscriptionID),
		slog.Int("depth", depth),
		slog.Int("shipments_scanned", len(shipments)),
		slog.Int("crystals_barred", len(crystalIDs)),
	)

	return crystalIDs, nil
}

// validateLookback checks the query and resolves its depth.
func (service *Service) validateLookback(query LookbackQuery) (int, error) {
	depth := query.Depth
	if depth == 0 {
		depth = service.settings.DefaultDepth
	}

	validator := &validate.Validator{}
	validator.Positive(FieldSubscriptionID, query.SubscriptionID)
	ValidatePeriod(validator, query.Month, query.Year)
	validator.NotEmpty(FieldCycle, len(query.Cycles))
	validator.Custom(FieldCycle, slices.ContainsFunc(query.Cycles, func(cycle int) bool { return cycle < 1 }), "Cycles start at 1")
	validator.Range(FieldLookbackLimit, depth, 1, service.settings.MaxDepth)

	return depth, validator.Err()
}

// # Shipment Records

func (service *Service) ListShipments(context context.Context, filter Filter, params pagination.Params) ([]*Shipment, int, error) {
	return service.repo.List(context, filter, params)
}

func (service *Service) GetShipment(context context.Context, id int) (*Shipment, error) {
	return service.repo.FindByID(context, id)
}

// Draft describes a box before it is split into one shipment per cycle.
type Draft struct {
	SubscriptionID int
	Month          int
	Year           int
	CycleSpec      string
	UserCount      int
	CrystalIDs     []int
}

/*
Expand validates a draft and resolves it into one [Shipment] per cycle.

Description: Every resulting shipment shares the draft's crystals and a group
label such as "2024-JAN:3, 7-9". Nothing is persisted.
*/
func Expand(draft Draft) ([]*Shipment, error) {
	validator := &validate.Validator{}
	validator.Positive(FieldSubscriptionID, draft.SubscriptionID)
	ValidatePeriod(validator, draft.Month, draft.Year)
	validator.Custom(FieldUserCount, draft.UserCount < 0, "Must not be negative")

	cycles, err := cyclespec.Parse(draft.CycleSpec)
	if err != nil {
		validator.Custom(FieldCycle, true, err.Error())
	} else {
		validator.NotEmpty(FieldCycle, len(cycles))
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	label := GroupLabel(draft.Month, draft.Year, draft.CycleSpec)
	crystalIDs := slices.Compact(slices.Sorted(slices.Values(draft.CrystalIDs)))

	shipments := make([]*Shipment, 0, len(cycles))
	for _, cycle := range cycles {
		shipments = append(shipments, &Shipment{
			SubscriptionID: draft.SubscriptionID,
			Month:          draft.Month,
			Year:           draft.Year,
			Cycle:          cycle,
			UserCount:      draft.UserCount,
			GroupLabel:     label,
			CrystalIDs:     slices.Clone(crystalIDs),
		})
	}
	return shipments, nil
}

// CreateShipments expands a draft and persists every resulting shipment atomically.
func (service *Service) CreateShipments(context context.Context, draft Draft) ([]*Shipment, error) {
	draft.CycleSpec = strings.TrimSpace(draft.CycleSpec)

	shipments, err := Expand(draft)
	if err != nil {
		return nil, err
	}

	if err := service.repo.CreateBatch(context, shipments); err != nil {
		return nil, err
	}

	service.logger.Info("shipments_created",
		slog.Int("subscription_id", draft.SubscriptionID),
		slog.String("group_label", shipments[0].GroupLabel),
		slog.Int("count", len(shipments)),
	)
	return shipments, nil
}
