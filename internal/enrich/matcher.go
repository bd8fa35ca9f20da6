// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package enrich

import (
	"sort"
	"strings"
	"unicode"

	"github.com/abmc/earned-media/internal/models"
)

// Matcher finds configured brand mentions in content text. Matching is
// case-insensitive on whole words, over the brand name and its aliases.
// Brands flagged as ignored never match; their names act as a denylist
// that also suppresses LLM-proposed brands.
type Matcher struct {
	// terms maps a lowercased name or alias to the canonical brand name.
	terms map[string]string
	// denied holds lowercased names of ignored brands.
	denied map[string]bool
}

// NewMatcher compiles the tenant's brand configuration.
func NewMatcher(brands []models.BrandConfig) *Matcher {
	m := &Matcher{
		terms:  make(map[string]string),
		denied: make(map[string]bool),
	}
	for _, brand := range brands {
		name := strings.TrimSpace(brand.Name)
		if name == "" {
			continue
		}
		if brand.Ignore {
			m.denied[strings.ToLower(name)] = true
			for _, alias := range brand.Aliases {
				if alias = strings.TrimSpace(alias); alias != "" {
					m.denied[strings.ToLower(alias)] = true
				}
			}
			continue
		}
		m.terms[strings.ToLower(name)] = name
		for _, alias := range brand.Aliases {
			if alias = strings.TrimSpace(alias); alias != "" {
				m.terms[strings.ToLower(alias)] = name
			}
		}
	}
	return m
}

// Match returns the canonical names of brands mentioned in the text,
// preserving first-mention order without duplicates.
func (m *Matcher) Match(text string) []string {
	if len(m.terms) == 0 || text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	position := make(map[string]int)

	for term, canonical := range m.terms {
		idx := wordIndex(lower, term)
		if idx < 0 {
			continue
		}
		if existing, ok := position[canonical]; !ok || idx < existing {
			position[canonical] = idx
		}
	}

	matched := make([]string, 0, len(position))
	for canonical := range position {
		matched = append(matched, canonical)
	}
	sort.Slice(matched, func(i, j int) bool {
		if position[matched[i]] != position[matched[j]] {
			return position[matched[i]] < position[matched[j]]
		}
		return matched[i] < matched[j]
	})
	return matched
}

// Filter keeps only brands that are configured and not denied. Used on
// LLM output so the model cannot invent brands the tenant does not track.
func (m *Matcher) Filter(candidates []string) []string {
	seen := make(map[string]bool)
	var kept []string
	for _, candidate := range candidates {
		key := strings.ToLower(strings.TrimSpace(candidate))
		if key == "" || m.denied[key] {
			continue
		}
		canonical, ok := m.terms[key]
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		kept = append(kept, canonical)
	}
	return kept
}

// Merge combines matcher hits with filtered LLM candidates, matcher
// first, without duplicates.
func (m *Matcher) Merge(matched, llmCandidates []string) []string {
	seen := make(map[string]bool)
	var merged []string
	for _, name := range matched {
		if !seen[name] {
			seen[name] = true
			merged = append(merged, name)
		}
	}
	for _, name := range m.Filter(llmCandidates) {
		if !seen[name] {
			seen[name] = true
			merged = append(merged, name)
		}
	}
	return merged
}

// TrackedNames lists the canonical brand names the matcher tracks,
// sorted, for inclusion in the LLM prompt.
func (m *Matcher) TrackedNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, canonical := range m.terms {
		if !seen[canonical] {
			seen[canonical] = true
			names = append(names, canonical)
		}
	}
	sort.Strings(names)
	return names
}

// wordIndex returns the first index where term appears in text on word
// boundaries, or -1.
func wordIndex(text, term string) int {
	for start := 0; start < len(text); {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return -1
		}
		idx += start
		end := idx + len(term)

		beforeOK := idx == 0 || !isWordChar(rune(text[idx-1]))
		afterOK := end == len(text) || !isWordChar(rune(text[end]))
		if beforeOK && afterOK {
			return idx
		}
		start = idx + 1
	}
	return -1
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
