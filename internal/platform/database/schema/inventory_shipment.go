package schema

// ShipmentTable represents the 'inventory.shipment' table
type ShipmentTable struct {
	Table          string
	ID             string
	SubscriptionID string
	Month          string
	Year           string
	Cycle          string
	UserCount      string
	GroupLabel     string
	CreatedAt      string
}

// Shipment is the schema definition for inventory.shipment
var Shipment = ShipmentTable{
	Table:          "inventory.shipment",
	ID:             "id",
	SubscriptionID: "subscription_id",
	Month:          "month",
	Year:           "year",
	Cycle:          "cycle",
	UserCount:      "user_count",
	GroupLabel:     "group_label",
	CreatedAt:      "created_at",
}

// ShipmentCrystalTable represents the 'inventory.shipment_crystal' junction
type ShipmentCrystalTable struct {
	Table      string
	ShipmentID string
	CrystalID  string
}

// ShipmentCrystal is the schema definition for inventory.shipment_crystal
var ShipmentCrystal = ShipmentCrystalTable{
	Table:      "inventory.shipment_crystal",
	ShipmentID: "shipment_id",
	CrystalID:  "crystal_id",
}
