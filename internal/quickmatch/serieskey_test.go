// QuickMatch - Session-Based Movie Preference Matching Engine
// Copyright 2026 FilMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/filmatch/quickmatch

package quickmatch

import "testing"

func TestBuildSeriesKey(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Rocky", "rocky"},
		{"Rocky II", "rocky"},
		{"Rocky III", "rocky"},
		{"Rocky 2", "rocky"},
		{"Iron Man: Rise", "iron man"},
		{"Iron Man (2008)", "iron man"},
		{"Blade Runner - The Final Cut", "blade runner"},
		{"Mad Max: Fury Road", "mad max"},
		{"Toy Story 3", "toy story"},
		{"Se7en", "se7en"},
		{"X", ""},            // single character, below key minimum
		{"V", ""},            // roman numeral alone strips to nothing
		{"2012", ""},         // bare number strips to nothing
		{"  The Thing  ", "the thing"},
		{"Alien³", "alien"},  // superscript is not a letter or digit
		{"올드보이", "올드보이"},    // non-latin scripts preserved
	}

	for _, tt := range tests {
		if got := BuildSeriesKey(tt.title); got != tt.want {
			t.Errorf("BuildSeriesKey(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestBuildSeriesKeySequelsMatch(t *testing.T) {
	pairs := [][2]string{
		{"Rocky II", "Rocky III"},
		{"Iron Man: Rise", "Iron Man (2008)"},
		{"The Matrix", "The Matrix: Reloaded"},
	}
	for _, p := range pairs {
		a, b := BuildSeriesKey(p[0]), BuildSeriesKey(p[1])
		if a == "" || a != b {
			t.Errorf("keys for %q and %q differ: %q vs %q", p[0], p[1], a, b)
		}
	}
}

func TestSameSeries(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"equal keys", "rocky", "rocky", true},
		{"prefix long enough", "iron man", "iron man begins", true},
		{"prefix either direction", "iron man begins", "iron man", true},
		{"prefix too short", "it", "it follows", false},
		{"empty never matches", "", "rocky", false},
		{"both empty never match", "", "", false},
		{"unrelated", "rocky", "alien", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SameSeries(tt.a, tt.b, 4); got != tt.want {
				t.Errorf("SameSeries(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
