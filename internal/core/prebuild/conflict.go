// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package prebuild

import "github.com/taibuivan/crystalbox/pkg/cyclespec"

// # Conflict Detection

// Conflict lists the pre-builds whose cycles overlap a selected pre-build.
type Conflict struct {
	ID             int   `json:"id"`
	ConflictingIDs []int `json:"conflictingIds"`
}

// ConflictOptions tunes [FindConflicting].
type ConflictOptions struct {
	// ScopeBySubscription only compares pre-builds of the same subscription.
	ScopeBySubscription bool
}

/*
FindConflicting reports overlapping cycle sets among pre-builds.

Description: Every pre-build in prebuilds is a potential partner, but only ids
in selectedIDs are reported. Two pre-builds conflict when their expanded cycle
sets intersect. A missing or unparseable specification expands to the empty
set and never conflicts. The relation is symmetric.

Returns:
  - []Conflict: One entry per selected pre-build with at least one partner,
    in selectedIDs order; partners follow the order of prebuilds
*/
func FindConflicting(prebuilds []*PreBuild, selectedIDs []int, options ConflictOptions) []Conflict {
	sets := make(map[int]cyclespec.Set, len(prebuilds))
	byID := make(map[int]*PreBuild, len(prebuilds))
	for _, prebuild := range prebuilds {
		set, err := prebuild.Cycles()
		if err != nil {
			set = cyclespec.Set{}
		}
		sets[prebuild.ID] = set
		byID[prebuild.ID] = prebuild
	}

	conflicts := make([]Conflict, 0)
	reported := make(map[int]struct{}, len(selectedIDs))

	for _, id := range selectedIDs {
		selected, ok := byID[id]
		if !ok {
			continue
		}
		if _, done := reported[id]; done {
			continue
		}
		reported[id] = struct{}{}

		partners := make([]int, 0)
		for _, other := range prebuilds {
			if other.ID == id {
				continue
			}
			if options.ScopeBySubscription && other.SubscriptionID != selected.SubscriptionID {
				continue
			}
			if sets[id].Intersects(sets[other.ID]) {
				partners = append(partners, other.ID)
			}
		}

		if len(partners) > 0 {
			conflicts = append(conflicts, Conflict{ID: id, ConflictingIDs: partners})
		}
	}

	return conflicts
}

// InvalidSpecs returns the ids of pre-builds whose stored specification does not parse.
func InvalidSpecs(prebuilds []*PreBuild) []int {
	invalid := make([]int, 0)
	for _, prebuild := range prebuilds {
		if _, err := prebuild.Cycles(); err != nil {
			invalid = append(invalid, prebuild.ID)
		}
	}
	return invalid
}
