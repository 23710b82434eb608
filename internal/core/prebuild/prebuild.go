// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package prebuild manages staged shipments.

A pre-build is a box being planned: a subscription, a free-text cycle
specification ("3, 7-9") and a set of crystals. Building it resolves the
specification and turns it into one shipment per cycle.

Before building, staff run smart-checks: which candidate crystals were already
shipped to the subscription, which are out of stock, and which pre-builds
target overlapping cycles.
*/
package prebuild

import (
	"strings"
	"time"

	"github.com/taibuivan/crystalbox/pkg/cyclespec"
	"github.com/taibuivan/crystalbox/pkg/pointer"
)

// PreBuild is a staged shipment.
type PreBuild struct {
	ID             int       `json:"id"`
	SubscriptionID int       `json:"subscriptionId"`
	Cycle          *string   `json:"cycle"`
	CrystalIDs     []int     `json:"crystalIds"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CycleSpec returns the raw specification, or "" when none is set.
func (prebuild *PreBuild) CycleSpec() string {
	return strings.TrimSpace(pointer.Val(prebuild.Cycle))
}

// Cycles expands the specification. A missing specification yields the empty set.
func (prebuild *PreBuild) Cycles() (cyclespec.Set, error) {
	return cyclespec.ParseSet(prebuild.CycleSpec())
}

// Filter narrows pre-build listings. Nil fields are ignored.
type Filter struct {
	SubscriptionID *int
}

const (
	FieldSubscriptionID = "subscriptionId"
	FieldCycle          = "cycle"
	FieldCrystalIDs     = "crystalIds"
	FieldPrebuildIDs    = "prebuildIds"
)
