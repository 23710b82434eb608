package schema

// CrystalTable represents the 'inventory.crystal' table
type CrystalTable struct {
	Table       string
	ID          string
	Name        string
	ColorID     string
	CategoryID  string
	LocationID  string
	Rarity      string
	FindAge     string
	Inventory   string
	Description string
	Image       string
	CreatedAt   string
}

// Crystal is the schema definition for inventory.crystal
var Crystal = CrystalTable{
	Table:       "inventory.crystal",
	ID:          "id",
	Name:        "name",
	ColorID:     "color_id",
	CategoryID:  "category_id",
	LocationID:  "location_id",
	Rarity:      "rarity",
	FindAge:     "find_age",
	Inventory:   "inventory",
	Description: "description",
	Image:       "image",
	CreatedAt:   "created_at",
}
