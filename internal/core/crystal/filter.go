// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package crystal

import (
	"fmt"
	"slices"
	"strings"

	"github.com/taibuivan/crystalbox/internal/platform/apperr"
	"github.com/taibuivan/crystalbox/pkg/query"
)

// # Filter Engine

// Filter keys accepted by [BuildExclusions].
const (
	FilterLocation  = "location"
	FilterCategory  = "category"
	FilterColor     = "colorId"
	FilterInventory = "inventory"
	FilterRarity    = "rarity"
	FilterFindAge   = "findAge"
)

// FilterKeys lists every exclusion key in the order clauses are emitted.
var FilterKeys = []string{FilterCategory, FilterColor, FilterLocation, FilterInventory, FilterRarity, FilterFindAge}

// Joined lookup keys exclude by the joined row's id.
var joinedColumns = map[string]string{
	FilterLocation: "loc.id",
	FilterCategory: "cat.id",
	FilterColor:    "col.id",
}

// Direct keys exclude by a column on the crystal row itself.
var directColumns = map[string]struct {
	column string
	valid  func(string) bool
}{
	FilterInventory: {"c.inventory::text", func(v string) bool { return Inventory(v).IsValid() }},
	FilterRarity:    {"c.rarity::text", func(v string) bool { return Rarity(v).IsValid() }},
	FilterFindAge:   {"c.find_age::text", func(v string) bool { return FindAge(v).IsValid() }},
}

// Exclusion removes catalog rows whose column value is listed.
// Rows where the column is NULL always pass.
type Exclusion struct {
	Key    string
	Column string
	IDs    []int
	Labels []string
}

// Clause renders the exclusion against the positional parameter $placeholder.
func (exclusion Exclusion) Clause(placeholder int) string {
	return fmt.Sprintf("(%s IS NULL OR %s <> ALL($%d))", exclusion.Column, exclusion.Column, placeholder)
}

// Arg returns the array bound to the clause's parameter.
func (exclusion Exclusion) Arg() any {
	if exclusion.Labels != nil {
		return exclusion.Labels
	}
	return exclusion.IDs
}

/*
BuildExclusions translates filter-key to comma-list pairs into exclusion clauses.

Description: Each value names what to exclude, never what to include. Blank
values, or values made only of separators, add nothing. Joined keys (location, category, colorId) require integer
ids; direct keys (inventory, rarity, findAge) require known enum labels.

Returns:
  - []Exclusion: Clauses in [FilterKeys] order
  - error: A validation error for unknown keys or malformed values
*/
func BuildExclusions(filters map[string]string) ([]Exclusion, error) {
	for key := range filters {
		if !slices.Contains(FilterKeys, key) {
			return nil, apperr.ValidationError(fmt.Sprintf("Unknown filter %q", key))
		}
	}

	exclusions := make([]Exclusion, 0, len(filters))
	for _, key := range FilterKeys {
		raw := strings.TrimSpace(filters[key])
		if raw == "" {
			continue
		}

		if column, ok := joinedColumns[key]; ok {
			ids, err := query.Ints(raw)
			if err != nil {
				return nil, apperr.ValidationError("Invalid filter", apperr.FieldError{Field: key, Message: err.Error()})
			}
			if len(ids) == 0 {
				continue
			}
			exclusions = append(exclusions, Exclusion{Key: key, Column: column, IDs: ids})
			continue
		}

		direct := directColumns[key]
		labels := query.StringSlice(raw)
		if len(labels) == 0 {
			continue
		}
		for _, label := range labels {
			if !direct.valid(label) {
				return nil, apperr.ValidationError("Invalid filter", apperr.FieldError{
					Field:   key,
					Message: fmt.Sprintf("%q is not a known value", label),
				})
			}
		}
		exclusions = append(exclusions, Exclusion{Key: key, Column: direct.column, Labels: labels})
	}

	return exclusions, nil
}

// inventoryOrder renders the CASE expression ranking rows by [Inventory.Rank].
func inventoryOrder(column string) string {
	var builder strings.Builder
	builder.WriteString("CASE ")
	builder.WriteString(column)
	for _, level := range Inventories {
		fmt.Fprintf(&builder, " WHEN '%s' THEN %d", level, level.Rank())
	}
	fmt.Fprintf(&builder, " ELSE %d END", unrankedInventory)
	return builder.String()
}
