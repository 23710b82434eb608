// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crystal

import (
	"context"

	"github.com/taibuivan/crystalbox/pkg/pagination"
)

// Order selects the sort applied to catalog reads.
type Order int

const (
	// OrderByName sorts alphabetically.
	OrderByName Order = iota

	// OrderByInventory sorts healthiest inventory first, then by name.
	OrderByInventory
)

// Criteria narrows a catalog read.
type Criteria struct {
	// ExcludeIDs drops these crystals outright.
	ExcludeIDs []int

	Exclusions []Exclusion

	// Search matches names case-insensitively.
	Search string

	Order Order
}

// Repository defines the data access contract for the catalog.
type Repository interface {
	List(ctx context.Context, criteria Criteria, params pagination.Params) ([]*Crystal, int, error)
	ListByIDs(ctx context.Context, ids []int) ([]*Crystal, error)
	FindByID(ctx context.Context, id int) (*Crystal, error)
	Create(ctx context.Context, crystal *Crystal) error
	Update(ctx context.Context, crystal *Crystal) error
	Delete(ctx context.Context, id int) error
}
