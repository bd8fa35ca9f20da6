// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package enrich

import (
	"reflect"
	"testing"

	"github.com/abmc/earned-media/internal/models"
)

func testBrands() []models.BrandConfig {
	return []models.BrandConfig{
		{Name: "Acme", Aliases: []string{"Acme Corp", "ACME Inc"}},
		{Name: "Globex", Aliases: []string{"Globex Corporation"}},
		{Name: "Initech", Ignore: true},
	}
}

func TestMatcherMatch(t *testing.T) {
	m := NewMatcher(testBrands())

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single brand", "Today Acme announced a product.", []string{"Acme"}},
		{"case insensitive", "today ACME announced a product", []string{"Acme"}},
		{"alias maps to canonical", "Acme Corp revenue is up.", []string{"Acme"}},
		{"two brands first mention order", "Globex responded to Acme's launch.", []string{"Globex", "Acme"}},
		{"ignored brand never matches", "Initech filed for bankruptcy.", nil},
		{"substring does not match", "The acmeist poetry movement.", nil},
		{"empty text", "", nil},
		{"no mention", "Nothing relevant here.", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatcherFilter(t *testing.T) {
	m := NewMatcher(testBrands())

	tests := []struct {
		name       string
		candidates []string
		want       []string
	}{
		{"keeps tracked", []string{"Acme"}, []string{"Acme"}},
		{"alias normalized", []string{"acme corp"}, []string{"Acme"}},
		{"drops unknown", []string{"Umbrella"}, nil},
		{"drops denied", []string{"Initech"}, nil},
		{"dedupes", []string{"Acme", "ACME Inc"}, []string{"Acme"}},
		{"mixed", []string{"Umbrella", "globex", "Acme"}, []string{"Globex", "Acme"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Filter(tt.candidates)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter(%v) = %v, want %v", tt.candidates, got, tt.want)
			}
		})
	}
}

func TestMatcherMerge(t *testing.T) {
	m := NewMatcher(testBrands())

	got := m.Merge([]string{"Acme"}, []string{"globex", "Acme", "Umbrella"})
	want := []string{"Acme", "Globex"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %v, want %v", got, want)
	}
}

func TestTrackedNames(t *testing.T) {
	m := NewMatcher(testBrands())

	got := m.TrackedNames()
	want := []string{"Acme", "Globex"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TrackedNames() = %v, want %v", got, want)
	}
}

func TestWordIndex(t *testing.T) {
	tests := []struct {
		text string
		term string
		want int
	}{
		{"acme launches", "acme", 0},
		{"the acme launch", "acme", 4},
		{"acmeist poetry", "acme", -1},
		{"lacme", "acme", -1},
		{"end with acme", "acme", 9},
		{"", "acme", -1},
	}
	for _, tt := range tests {
		if got := wordIndex(tt.text, tt.term); got != tt.want {
			t.Errorf("wordIndex(%q, %q) = %d, want %d", tt.text, tt.term, got, tt.want)
		}
	}
}
