// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package shipment

import (
	"context"

	"github.com/taibuivan/crystalbox/pkg/pagination"
)

// Repository defines the data access contract for shipments.
type Repository interface {
	// ListInPeriodRange returns every shipment of a subscription whose month
	// falls between from and to inclusive, with crystal IDs attached.
	ListInPeriodRange(ctx context.Context, subscriptionID int, from, to Period) ([]*Shipment, error)

	List(ctx context.Context, filter Filter, params pagination.Params) ([]*Shipment, int, error)
	FindByID(ctx context.Context, id int) (*Shipment, error)

	// CreateBatch inserts all shipments atomically.
	CreateBatch(ctx context.Context, shipments []*Shipment) error
}

// CycleLengthResolver reports how many cycles a subscription ships per month.
type CycleLengthResolver interface {
	CycleLength(ctx context.Context, subscriptionID int) (int, error)
}
