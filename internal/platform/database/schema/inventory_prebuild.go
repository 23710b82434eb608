package schema

// PreBuildTable represents the 'inventory.prebuild' table
type PreBuildTable struct {
	Table          string
	ID             string
	SubscriptionID string
	Cycle          string
	CreatedAt      string
}

// PreBuild is the schema definition for inventory.prebuild
var PreBuild = PreBuildTable{
	Table:          "inventory.prebuild",
	ID:             "id",
	SubscriptionID: "subscription_id",
	Cycle:          "cycle",
	CreatedAt:      "created_at",
}

// PreBuildCrystalTable represents the 'inventory.prebuild_crystal' junction
type PreBuildCrystalTable struct {
	Table      string
	PreBuildID string
	CrystalID  string
}

// PreBuildCrystal is the schema definition for inventory.prebuild_crystal
var PreBuildCrystal = PreBuildCrystalTable{
	Table:      "inventory.prebuild_crystal",
	PreBuildID: "prebuild_id",
	CrystalID:  "crystal_id",
}
