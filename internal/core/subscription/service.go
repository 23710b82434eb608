// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"context"
	"log/slog"

	"github.com/taibuivan/crystalbox/internal/platform/validate"
	"github.com/taibuivan/crystalbox/pkg/cyclespec"
	"github.com/taibuivan/crystalbox/pkg/slug"
)

// # Service Layer

// Service orchestrates subscription lookups and creation.
type Service struct {
	repo               Repository
	defaultCycleLength int
	logger             *slog.Logger
}

// NewService constructs a new [Service].
//
// defaultCycleLength applies to subscriptions created without an explicit cycle length
// and to history walks over subscriptions that no longer exist.
func NewService(repo Repository, defaultCycleLength int, logger *slog.Logger) *Service {
	return &Service{
		repo:               repo,
		defaultCycleLength: defaultCycleLength,
		logger:             logger,
	}
}

func (service *Service) ListSubscriptions(context context.Context) ([]*Subscription, error) {
	return service.repo.List(context)
}

func (service *Service) GetSubscription(context context.Context, id int) (*Subscription, error) {
	return service.repo.FindByID(context, id)
}

const (
	maxNameLength      = 120
	maxShortNameLength = 60
)

/*
CreateSubscription validates and persists a new box type.

Description: The short name defaults to a slug of the display name and the
cycle length defaults to the configured value.

Returns:
  - error: Validation errors, or Conflict when the short name is taken
*/
func (service *Service) CreateSubscription(context context.Context, subscription *Subscription) error {
	if subscription.ShortName == "" {
		subscription.ShortName = slug.Limit(subscription.Name, maxShortNameLength)
	}
	if subscription.CycleLength == 0 {
		subscription.CycleLength = service.defaultCycleLength
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, subscription.Name).MaxLen(FieldName, subscription.Name, maxNameLength)
	validator.Required(FieldShortName, subscription.ShortName).MaxLen(FieldShortName, subscription.ShortName, maxShortNameLength)
	validator.Custom(FieldCost, subscription.Cost.IsNegative(), "must not be negative")
	validator.Range(FieldCycleLength, subscription.CycleLength, 1, cyclespec.MaxCycle)

	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.Create(context, subscription); err != nil {
		return err
	}

	service.logger.Info("subscription_created",
		slog.Int("subscription_id", subscription.ID),
		slog.String("short_name", subscription.ShortName),
	)
	return nil
}

// CycleLength returns how many cycles a subscription runs per calendar month.
// Rows stored without a length use the configured default; unknown ids are NotFound.
func (service *Service) CycleLength(context context.Context, subscriptionID int) (int, error) {
	subscription, err := service.repo.FindByID(context, subscriptionID)
	if err != nil {
		return 0, err
	}

	if subscription.CycleLength < 1 {
		return service.defaultCycleLength, nil
	}
	return subscription.CycleLength, nil
}
