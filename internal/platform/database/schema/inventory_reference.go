package schema

// LookupTable represents a simple id/name reference table.
type LookupTable struct {
	Table string
	ID    string
	Name  string
}

// ColorTable represents the 'inventory.color' table
type ColorTable struct {
	LookupTable
	Hex string
}

// Color is the schema definition for inventory.color
var Color = ColorTable{
	LookupTable: LookupTable{Table: "inventory.color", ID: "id", Name: "name"},
	Hex:         "hex",
}

// Category is the schema definition for inventory.category
var Category = LookupTable{
	Table: "inventory.category",
	ID:    "id",
	Name:  "name",
}

// Location is the schema definition for inventory.location
var Location = LookupTable{
	Table: "inventory.location",
	ID:    "id",
	Name:  "name",
}
