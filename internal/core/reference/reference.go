// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference manages the lookup tables crystals point at.

  - Colors: display name plus an optional hex swatch.
  - Categories: mineral families (quartz, calcite, ...).
  - Locations: storage bins.

The crystal filter engine excludes by the ids of these rows.
*/
package reference

// Kind names one lookup table.
type Kind string

const (
	KindCategory Kind = "category"
	KindLocation Kind = "location"
)

// Lookup is a plain id and name row (category or location).
type Lookup struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Color is a lookup row with an optional hex swatch.
type Color struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	Hex  *string `json:"hex"`
}

const (
	FieldName = "name"
	FieldHex  = "hex"
)
