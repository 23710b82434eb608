package schema

// SubscriptionTable represents the 'inventory.subscription' table
type SubscriptionTable struct {
	Table       string
	ID          string
	Name        string
	ShortName   string
	Cost        string
	CycleLength string
}

// Subscription is the schema definition for inventory.subscription
var Subscription = SubscriptionTable{
	Table:       "inventory.subscription",
	ID:          "id",
	Name:        "name",
	ShortName:   "short_name",
	Cost:        "cost",
	CycleLength: "cycle_length",
}
