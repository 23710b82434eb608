// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cyclespec parses free-text cycle specifications such as "1, 4-5, 23".

A specification is a comma separated list of tokens. Each token is either a
bare cycle number ("5") or an inclusive ascending range ("7-9", "7 - 9").
Blank tokens are skipped, so "3, " and "3" are equivalent.

Parsing is strict: a single malformed token (non-numeric, reversed range,
zero, or above [MaxCycle]) rejects the whole specification with an [*Error].

Both entry points, [Parse] and [ParseSet], share the same token rules.
*/
package cyclespec

import (
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// MaxCycle is the largest cycle number a specification may name.
const MaxCycle = 1000

var (
	numberPattern = regexp.MustCompile(`^\d+$`)
	rangePattern  = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
)

// # Errors

// Error reports the first offending token of a specification.
type Error struct {
	Token  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("cyclespec: invalid token %q: %s", e.Token, e.Reason)
}

// # Parsing

// Parse expands spec into its cycle numbers in first-seen order, without duplicates.
// The empty specification yields an empty slice.
func Parse(spec string) ([]int, error) {
	cycles := make([]int, 0)
	seen := make(map[int]struct{})

	err := walk(spec, func(cycle int) {
		if _, ok := seen[cycle]; ok {
			return
		}
		seen[cycle] = struct{}{}
		cycles = append(cycles, cycle)
	})
	if err != nil {
		return nil, err
	}

	return cycles, nil
}

// ParseSet expands spec into a [Set].
func ParseSet(spec string) (Set, error) {
	set := make(Set)
	if err := walk(spec, set.add); err != nil {
		return nil, err
	}
	return set, nil
}

// walk validates every token before yielding any cycle.
func walk(spec string, yield func(int)) error {
	type span struct{ from, to int }
	spans := make([]span, 0)

	for _, raw := range strings.Split(spec, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}

		if numberPattern.MatchString(token) {
			value, err := toCycle(token)
			if err != nil {
				return err
			}
			spans = append(spans, span{value, value})
			continue
		}

		match := rangePattern.FindStringSubmatch(token)
		if match == nil {
			return &Error{Token: token, Reason: "expected a number or an ascending range like 7-9"}
		}

		from, err := toCycle(match[1])
		if err != nil {
			return err
		}
		to, err := toCycle(match[2])
		if err != nil {
			return err
		}
		if from > to {
			return &Error{Token: token, Reason: "range must be ascending"}
		}
		spans = append(spans, span{from, to})
	}

	for _, s := range spans {
		for cycle := s.from; cycle <= s.to; cycle++ {
			yield(cycle)
		}
	}
	return nil
}

func toCycle(token string) (int, error) {
	value, err := strconv.Atoi(token)
	if err != nil || value > MaxCycle {
		return 0, &Error{Token: token, Reason: fmt.Sprintf("cycle must be at most %d", MaxCycle)}
	}
	if value < 1 {
		return 0, &Error{Token: token, Reason: "cycles start at 1"}
	}
	return value, nil
}

// Format renders cycles as a comma list that [Parse] reads back to the same set.
func Format(cycles []int) string {
	parts := make([]string, len(cycles))
	for i, cycle := range cycles {
		parts[i] = strconv.Itoa(cycle)
	}
	return strings.Join(parts, ", ")
}

// # Set

// Set is an unordered collection of cycle numbers.
type Set map[int]struct{}

func (s Set) add(cycle int) { s[cycle] = struct{}{} }

// Contains reports whether cycle is part of the set.
func (s Set) Contains(cycle int) bool {
	_, ok := s[cycle]
	return ok
}

// Intersects reports whether s and other share at least one cycle.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for cycle := range small {
		if large.Contains(cycle) {
			return true
		}
	}
	return false
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []int {
	cycles := make([]int, 0, len(s))
	for cycle := range s {
		cycles = append(cycles, cycle)
	}
	slices.Sort(cycles)
	return cycles
}

// Max returns the largest member, or false for the empty set.
func (s Set) Max() (int, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return slices.Max(s.Sorted()), true
}

// # JSON

// Spec is a raw cycle specification read from JSON.
//
// Clients send either a string ("3, 7-9") or a bare number (3).
type Spec string

// UnmarshalJSON accepts a JSON string, number or null.
func (s *Spec) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = Spec(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("cyclespec: expected string or number, got %s", string(data))
	}
	*s = Spec(number.String())
	return nil
}

// String returns the raw specification text.
func (s Spec) String() string { return string(s) }
