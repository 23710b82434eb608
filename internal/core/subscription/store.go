// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import "context"

// Repository defines the data access contract for subscriptions.
type Repository interface {
	List(ctx context.Context) ([]*Subscription, error)
	FindByID(ctx context.Context, id int) (*Subscription, error)
	Create(ctx context.Context, subscription *Subscription) error
}
