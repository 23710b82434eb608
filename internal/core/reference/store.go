// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package reference

import "context"

// Repository defines the data access contract for lookup tables.
type Repository interface {
	ListColors(context context.Context) ([]*Color, error)
	CreateColor(context context.Context, color *Color) error

	// ListLookups returns every row of a category or location table, ordered by name.
	ListLookups(context context.Context, kind Kind) ([]*Lookup, error)
	CreateLookup(context context.Context, kind Kind, lookup *Lookup) error
}
