package crystal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExclusions_Category(t *testing.T) {
	exclusions, err := BuildExclusions(map[string]string{FilterCategory: "4,5,6"})
	require.NoError(t, err)
	require.Len(t, exclusions, 1)

	assert.Equal(t, "(cat.id IS NULL OR cat.id <> ALL($1))", exclusions[0].Clause(1))
	assert.Equal(t, []int{4, 5, 6}, exclusions[0].Arg())
}

func TestBuildExclusions_BlankValuesAreNoOps(t *testing.T) {
	exclusions, err := BuildExclusions(map[string]string{
		FilterLocation:  "  ",
		FilterInventory: "",
		FilterColor:     " , ",
	})
	require.NoError(t, err)
	assert.Empty(t, exclusions)
}

func TestBuildExclusions_DirectColumns(t *testing.T) {
	exclusions, err := BuildExclusions(map[string]string{
		FilterInventory: "OUT, LOW",
		FilterLocation:  "2",
	})
	require.NoError(t, err)
	require.Len(t, exclusions, 2)

	assert.Equal(t, "loc.id", exclusions[0].Column)
	assert.Equal(t, "(c.inventory::text IS NULL OR c.inventory::text <> ALL($7))", exclusions[1].Clause(7))
	assert.Equal(t, []string{"OUT", "LOW"}, exclusions[1].Arg())
}

func TestBuildExclusions_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		filters map[string]string
	}{
		{"unknown_key", map[string]string{"name": "Quartz"}},
		{"non_integer_id", map[string]string{FilterColor: "3,red"}},
		{"unknown_enum", map[string]string{FilterRarity: "LEGENDARY"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildExclusions(tt.filters)
			assert.Error(t, err)
		})
	}
}

func TestInventoryRank(t *testing.T) {
	assert.Equal(t, 1, InventoryHigh.Rank())
	assert.Equal(t, 2, InventoryMedium.Rank())
	assert.Equal(t, 3, InventoryLow.Rank())
	assert.Equal(t, 4, InventoryOut.Rank())
	assert.Equal(t, 5, Inventory("").Rank())
	assert.False(t, Inventory("BOGUS").IsValid())
}

func TestInventoryOrder(t *testing.T) {
	assert.Equal(t,
		"CASE c.inventory::text WHEN 'HIGH' THEN 1 WHEN 'MEDIUM' THEN 2 WHEN 'LOW' THEN 3 WHEN 'OUT' THEN 4 ELSE 5 END",
		inventoryOrder("c.inventory::text"))
}
