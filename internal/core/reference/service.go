// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/taibuivan/crystalbox/internal/platform/validate"
)

var hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListColors(context context.Context) ([]*Color, error) {
	return service.repo.ListColors(context)
}

func (service *Service) ListLookups(context context.Context, kind Kind) ([]*Lookup, error) {
	return service.repo.ListLookups(context, kind)
}

// CreateColor validates the name and the optional "#RRGGBB" swatch.
func (service *Service) CreateColor(context context.Context, color *Color) error {
	color.Name = strings.TrimSpace(color.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, color.Name).MaxLen(FieldName, color.Name, 80)
	if color.Hex != nil {
		validator.Custom(FieldHex, !hexPattern.MatchString(*color.Hex), "Must look like #A1B2C3")
	}
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.CreateColor(context, color); err != nil {
		return err
	}

	service.logger.Info("color_created", slog.Int("color_id", color.ID), slog.String("name", color.Name))
	return nil
}

func (service *Service) CreateLookup(context context.Context, kind Kind, lookup *Lookup) error {
	lookup.Name = strings.TrimSpace(lookup.Name)

	validator := &validate.Validator{}
	validator.Required(FieldName, lookup.Name).MaxLen(FieldName, lookup.Name, 80)
	if err := validator.Err(); err != nil {
		return err
	}

	if err := service.repo.CreateLookup(context, kind, lookup); err != nil {
		return err
	}

	service.logger.Info(string(kind)+"_created", slog.Int("id", lookup.ID), slog.String("name", lookup.Name))
	return nil
}
