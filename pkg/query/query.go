// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-shaped URL query values such as "4,5,6".
package query

import (
	"fmt"
	"strconv"
	"strings"
)

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings. Empty items are dropped.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Ints parses a comma-separated list of integers.
//
// It rejects the whole value when any item is not an integer.
// A blank value yields nil.
func Ints(val string) ([]int, error) {
	items := StringSlice(val)
	if len(items) == 0 {
		return nil, nil
	}

	res := make([]int, 0, len(items))
	for _, item := range items {
		i, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("query: %q is not an integer", item)
		}
		res = append(res, i)
	}
	return res, nil
}
