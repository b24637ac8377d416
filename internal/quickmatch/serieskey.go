// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package quickmatch

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// yearPattern matches parenthesized 4-digit release years, e.g. "(2008)".
var yearPattern = regexp.MustCompile(`\(\d{4}\)`)

// romanSequels are trailing installment markers stripped from series keys.
// "i" is deliberately absent: a bare trailing "i" is more often part of the
// title than a sequel number.
var romanSequels = map[string]bool{
	"ii": true, "iii": true, "iv": true, "v": true,
	"vi": true, "vii": true, "viii": true, "ix": true, "x": true,
}

// BuildSeriesKey normalizes a movie title into a franchise key used for
// same-series detection. "Rocky II", "Rocky III" and "Rocky (1976)" all
// reduce to "rocky"; "Iron Man: Rise" reduces to "iron man".
//
// Keys shorter than 2 characters are treated as empty and never match.
func BuildSeriesKey(title string) string {
	key := strings.ToLower(strings.TrimSpace(title))

	key = yearPattern.ReplaceAllString(key, " ")

	// Everything after a colon or " - " separator is a subtitle.
	if i := strings.Index(key, ":"); i >= 0 {
		key = key[:i]
	}
	if i := strings.Index(key, " - "); i >= 0 {
		key = key[:i]
	}

	// Keep letters, digits and spaces of any script; drop punctuation.
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())

	// A trailing standalone integer or roman numeral is a sequel marker.
	if n := len(fields); n > 0 {
		last := fields[n-1]
		if isAllDigits(last) || romanSequels[last] {
			fields = fields[:n-1]
		}
	}

	key = strings.Join(fields, " ")
	if utf8.RuneCountInString(key) < 2 {
		return ""
	}
	return key
}

// SameSeries reports whether two series keys identify the same franchise.
// Keys match when equal, or when one is a prefix of the other and the
// shorter key is at least minPrefixLen characters long.
func SameSeries(a, b string, minPrefixLen int) bool {
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}

	shorter, longer := a, b
	if utf8.RuneCountInString(shorter) > utf8.RuneCountInString(longer) {
		shorter, longer = longer, shorter
	}
	if utf8.RuneCountInString(shorter) < minPrefixLen {
		return false
	}
	return strings.HasPrefix(longer, shorter)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
