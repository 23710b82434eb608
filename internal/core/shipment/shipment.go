// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package shipment records built boxes and answers "what has this subscription
already received?".

A shipment is one concrete box: a subscription, a 0-based month, a year and a
single resolved cycle number. The history lookback in this package walks
backwards from a target cycle to collect every crystal already shipped.
*/
package shipment

import (
	"fmt"
	"strings"
	"time"

	"github.com/taibuivan/crystalbox/internal/platform/constants"
)

// Field names used in validation errors.
const (
	FieldSubscriptionID = "subscriptionId"
	FieldMonth          = "month"
	FieldYear           = "year"
	FieldCycle          = "cycle"
	FieldCrystalIDs     = "crystalIds"
	FieldUserCount      = "userCount"
	FieldLookbackLimit  = "lookbackLimit"
)

var monthAbbreviations = [constants.MonthsPerYear]string{
	"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// Shipment is a built box for one subscription cycle.
type Shipment struct {
	ID             int       `json:"id"`
	SubscriptionID int       `json:"subscriptionId"`
	Month          int       `json:"month"`
	Year           int       `json:"year"`
	Cycle          int       `json:"cycle"`
	UserCount      int       `json:"userCount"`
	GroupLabel     string    `json:"groupLabel"`
	CrystalIDs     []int     `json:"crystalIds"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Period returns the calendar month the shipment belongs to.
func (shipment *Shipment) Period() Period {
	return Period{Month: shipment.Month, Year: shipment.Year}
}

// GroupLabel renders the display label shared by shipments built together,
// e.g. "2024-JAN:3, 7-9".
func GroupLabel(month, year int, cycleSpec string) string {
	name := "???"
	if month >= 0 && month < constants.MonthsPerYear {
		name = monthAbbreviations[month]
	}
	return fmt.Sprintf("%d-%s:%s", year, name, strings.TrimSpace(cycleSpec))
}

// Filter narrows shipment listings. Nil fields are ignored.
type Filter struct {
	SubscriptionID *int
	Month          *int
	Year           *int
}
