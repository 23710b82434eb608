// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prebuild

import (
	"context"

	"github.com/taibuivan/crystalbox/internal/core/shipment"
	"github.com/taibuivan/crystalbox/pkg/pagination"
)

// Repository defines the data access contract for pre-builds.
type Repository interface {
	List(ctx context.Context, filter Filter, params pagination.Params) ([]*PreBuild, int, error)

	// ListAll returns every pre-build. Conflict detection compares against all of them.
	ListAll(ctx context.Context) ([]*PreBuild, error)

	ListBySubscription(ctx context.Context, subscriptionID int) ([]*PreBuild, error)
	FindByID(ctx context.Context, id int) (*PreBuild, error)
	Create(ctx context.Context, prebuild *PreBuild) error
	Update(ctx context.Context, prebuild *PreBuild) error
	Delete(ctx context.Context, id int) error

	// Build inserts shipments and removes the pre-build in one transaction.
	Build(ctx context.Context, id int, shipments []*shipment.Shipment) error
}
