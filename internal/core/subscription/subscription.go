// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package subscription manages box-type definitions.

A subscription scopes shipments and pre-builds. Besides its name and price it
carries a cycle length: how many cycles the history walk steps through before
rolling back one calendar month. Monthly boxes keep the historical value of 12.
*/
package subscription

import "github.com/shopspring/decimal"

// Field names used in validation errors.
const (
	FieldName        = "name"
	FieldShortName   = "shortName"
	FieldCost        = "cost"
	FieldCycleLength = "cycleLength"
)

// Subscription is a box-type definition.
type Subscription struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	ShortName   string          `json:"shortName"`
	Cost        decimal.Decimal `json:"cost"`
	CycleLength int             `json:"cycleLength"`
}
