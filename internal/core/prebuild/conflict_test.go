package prebuild_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/crystalbox/internal/core/prebuild"
	"github.com/taibuivan/crystalbox/pkg/pointer"
)

func staged(id, subscriptionID int, cycle string) *prebuild.PreBuild {
	return &prebuild.PreBuild{ID: id, SubscriptionID: subscriptionID, Cycle: pointer.To(cycle)}
}

func TestFindConflicting_SharedCycle(t *testing.T) {
	prebuilds := []*prebuild.PreBuild{staged(1, 10, "3,5"), staged(2, 10, "5-7")}

	got := prebuild.FindConflicting(prebuilds, []int{1, 2}, prebuild.ConflictOptions{})

	assert.Equal(t, []prebuild.Conflict{
		{ID: 1, ConflictingIDs: []int{2}},
		{ID: 2, ConflictingIDs: []int{1}},
	}, got)
}

func TestFindConflicting_Symmetric(t *testing.T) {
	prebuilds := []*prebuild.PreBuild{
		staged(1, 10, "1-4"),
		staged(2, 10, "4, 9"),
		staged(3, 10, "10-12"),
		staged(4, 10, "12"),
	}

	for _, a := range prebuilds {
		for _, b := range prebuilds {
			if a.ID == b.ID {
				continue
			}
			forward := partnersOf(prebuild.FindConflicting(prebuilds, []int{a.ID}, prebuild.ConflictOptions{}))
			backward := partnersOf(prebuild.FindConflicting(prebuilds, []int{b.ID}, prebuild.ConflictOptions{}))
			assert.Equal(t, slices.Contains(forward, b.ID), slices.Contains(backward, a.ID), "pair %d/%d", a.ID, b.ID)
		}
	}
}

func TestFindConflicting_EveryPrebuildIsAPartner(t *testing.T) {
	prebuilds := []*prebuild.PreBuild{staged(1, 10, "2"), staged(2, 10, "8"), staged(3, 10, "2-8")}

	got := prebuild.FindConflicting(prebuilds, []int{1}, prebuild.ConflictOptions{})

	assert.Equal(t, []prebuild.Conflict{{ID: 1, ConflictingIDs: []int{3}}}, got)
}

func TestFindConflicting_EmptyAndMalformedNeverConflict(t *testing.T) {
	prebuilds := []*prebuild.PreBuild{
		{ID: 1, SubscriptionID: 10},
		staged(2, 10, ""),
		staged(3, 10, "x-y"),
		staged(4, 10, "1-100"),
	}

	got := prebuild.FindConflicting(prebuilds, []int{1, 2, 3, 4}, prebuild.ConflictOptions{})

	assert.Empty(t, got)
	assert.Equal(t, []int{3}, prebuild.InvalidSpecs(prebuilds))
}

func TestFindConflicting_ScopeBySubscription(t *testing.T) {
	prebuilds := []*prebuild.PreBuild{staged(1, 10, "5"), staged(2, 20, "5"), staged(3, 10, "4-6")}

	agnostic := prebuild.FindConflicting(prebuilds, []int{1}, prebuild.ConflictOptions{})
	assert.Equal(t, []int{2, 3}, agnostic[0].ConflictingIDs)

	scoped := prebuild.FindConflicting(prebuilds, []int{1}, prebuild.ConflictOptions{ScopeBySubscription: true})
	assert.Equal(t, []int{3}, scoped[0].ConflictingIDs)
}

func TestFindConflicting_UnknownAndRepeatedSelections(t *testing.T) {
	prebuilds := []*prebuild.PreBuild{staged(1, 10, "5"), staged(2, 10, "5")}

	got := prebuild.FindConflicting(prebuilds, []int{99, 2, 2}, prebuild.ConflictOptions{})

	assert.Equal(t, []prebuild.Conflict{{ID: 2, ConflictingIDs: []int{1}}}, got)
}

func partnersOf(conflicts []prebuild.Conflict) []int {
	if len(conflicts) == 0 {
		return nil
	}
	return conflicts[0].ConflictingIDs
}
