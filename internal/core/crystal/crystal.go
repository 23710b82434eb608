// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package crystal owns the catalog and the suggestion engine.

A suggestion is any catalog crystal that is not barred for the target box.
Barred crystals are the union of:

  - crystals the subscription already received (history lookback),
  - crystals reserved by a later pre-build (lookahead),
  - crystals the caller excluded or already selected.

Remaining rows are narrowed by exclusion filters (see [BuildExclusions]) and
ordered healthiest inventory first, then by name.
*/
package crystal

import (
	"time"

	"github.com/taibuivan/crystalbox/internal/core/reference"
)

// # Enumerations

// Rarity grades how hard a crystal is to source.
type Rarity string

const (
	RarityLow    Rarity = "LOW"
	RarityMedium Rarity = "MEDIUM"
	RarityHigh   Rarity = "HIGH"
)

// IsValid reports whether r is a known rarity.
func (r Rarity) IsValid() bool {
	switch r {
	case RarityLow, RarityMedium, RarityHigh:
		return true
	}
	return false
}

// FindAge tells whether a crystal comes from a current, older or exhausted find.
type FindAge string

const (
	FindAgeNew  FindAge = "NEW"
	FindAgeOld  FindAge = "OLD"
	FindAgeDead FindAge = "DEAD"
)

// IsValid reports whether f is a known find age.
func (f FindAge) IsValid() bool {
	switch f {
	case FindAgeNew, FindAgeOld, FindAgeDead:
		return true
	}
	return false
}

// Inventory is the stock level of a crystal.
type Inventory string

const (
	InventoryHigh   Inventory = "HIGH"
	InventoryMedium Inventory = "MEDIUM"
	InventoryLow    Inventory = "LOW"
	InventoryOut    Inventory = "OUT"
)

// Inventories lists every level in rank order.
var Inventories = []Inventory{InventoryHigh, InventoryMedium, InventoryLow, InventoryOut}

// IsValid reports whether i is a known inventory level.
func (i Inventory) IsValid() bool {
	return i.Rank() != unrankedInventory
}

const unrankedInventory = 5

// Rank orders inventory levels healthiest first: HIGH=1 ... OUT=4, anything else 5.
func (i Inventory) Rank() int {
	switch i {
	case InventoryHigh:
		return 1
	case InventoryMedium:
		return 2
	case InventoryLow:
		return 3
	case InventoryOut:
		return 4
	default:
		return unrankedInventory
	}
}

// # Entity

// Crystal is one catalog item.
type Crystal struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	ColorID     *int       `json:"colorId"`
	CategoryID  *int       `json:"categoryId"`
	LocationID  *int       `json:"locationId"`
	Rarity      *Rarity    `json:"rarity"`
	FindAge     *FindAge   `json:"findAge"`
	Inventory   *Inventory `json:"inventory"`
	Description *string    `json:"description"`
	Image       *string    `json:"image"`
	CreatedAt   time.Time  `json:"createdAt"`

	// Joined lookups, populated on reads.
	Color    *reference.Color  `json:"color,omitempty"`
	Category *reference.Lookup `json:"category,omitempty"`
	Location *reference.Lookup `json:"location,omitempty"`
}

// IsOutOfStock reports whether the crystal's inventory is OUT.
func (crystal *Crystal) IsOutOfStock() bool {
	return crystal.Inventory != nil && *crystal.Inventory == InventoryOut
}

// # Field Identifiers

const (
	FieldName               = "name"
	FieldRarity             = "rarity"
	FieldFindAge            = "findAge"
	FieldInventory          = "inventory"
	FieldSubscriptionID     = "subscriptionId"
	FieldCycleString        = "cycleString"
	FieldSelectedCrystalIDs = "selectedCrystalIds"
	FieldExcludedCrystalIDs = "excludedCrystalIds"
	FieldLookbackLimit      = "lookbackLimit"
	FieldSearch             = "q"
)
