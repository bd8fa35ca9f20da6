// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package database

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/models"
)

func TestBuildReportWhere(t *testing.T) {
	tenantID := uuid.New()
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		filter       models.ReportFilter
		wantContains []string
		wantArgs     int
	}{
		{
			name:         "tenant only",
			filter:       models.ReportFilter{},
			wantContains: []string{"tenant_id = ?"},
			wantArgs:     1,
		},
		{
			name:         "free text query",
			filter:       models.ReportFilter{Query: "launch"},
			wantContains: []string{"title ILIKE ?", "excerpt ILIKE ?", "author ILIKE ?"},
			wantArgs:     4,
		},
		{
			name:         "source and sentiment",
			filter:       models.ReportFilter{Source: models.SourceRSS, Sentiment: models.SentimentPositive},
			wantContains: []string{"source = ?", "sentiment = ?"},
			wantArgs:     3,
		},
		{
			name:         "unrated sentiment",
			filter:       models.ReportFilter{Sentiment: "unrated"},
			wantContains: []string{"(sentiment IS NULL OR sentiment = '')"},
			wantArgs:     1,
		},
		{
			name:         "brand match",
			filter:       models.ReportFilter{Brand: "Acme"},
			wantContains: []string{`brands LIKE ? ESCAPE '\'`},
			wantArgs:     2,
		},
		{
			name:         "date range",
			filter:       models.ReportFilter{From: &from, To: &to},
			wantContains: []string{"published_at >= ?", "published_at <= ?"},
			wantArgs:     3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildReportWhere(tenantID, tt.filter)
			for _, want := range tt.wantContains {
				if !strings.Contains(where, want) {
					t.Errorf("buildReportWhere() = %q, missing %q", where, want)
				}
			}
			if len(args) != tt.wantArgs {
				t.Errorf("buildReportWhere() args = %d, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestBrandFilterArgQuotesName(t *testing.T) {
	_, args := buildReportWhere(uuid.New(), models.ReportFilter{Brand: "Acme"})
	pattern, ok := args[1].(string)
	if !ok {
		t.Fatalf("brand arg type = %T, want string", args[1])
	}
	if pattern != `%"Acme"%` {
		t.Errorf("brand pattern = %q, want %%\"Acme\"%%", pattern)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"50% off", `50\% off`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"defaults", 0, 0, 1, 20},
		{"explicit", 3, 50, 3, 50},
		{"negative page", -1, 10, 1, 10},
		{"size over max", 1, 500, 1, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := models.ReportFilter{Page: tt.page, PageSize: tt.size}
			normalizePage(&f, 20, 100)
			if f.Page != tt.wantPage || f.PageSize != tt.wantPageSize {
				t.Errorf("normalizePage() = (%d, %d), want (%d, %d)",
					f.Page, f.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}
