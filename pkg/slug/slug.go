// Copyright (c) 2026 Crystalbox. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII slugs from arbitrary Unicode strings.
//
// Slugs serve as default short names for subscriptions, e.g.
// "Crystal of the Month" → "crystal-of-the-month".
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// separators matches every run of characters that cannot appear in a slug.
var separators = regexp.MustCompile(`[^a-z0-9]+`)

// stripMarks decomposes accented letters (é → e + U+0301) and drops the marks.
// Chained transformers carry state, so each call builds its own.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
}

// From converts s into a lowercase, hyphen separated ASCII slug.
// Characters with no ASCII base letter are treated as separators.
func From(s string) string {
	folded, _, err := transform.String(stripMarks(), s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.Trim(separators.ReplaceAllString(folded, "-"), "-")
}

// Limit returns From(s) cut to at most maxLen bytes, backing off to the
// last whole word when the cut lands inside one.
func Limit(s string, maxLen int) string {
	slug := From(s)
	if maxLen <= 0 || len(slug) <= maxLen {
		return slug
	}

	cut := slug[:maxLen]
	if slug[maxLen] != '-' {
		if i := strings.LastIndexByte(cut, '-'); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, "-")
}
