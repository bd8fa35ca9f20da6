// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

func TestIsValidRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role string
		want bool
	}{
		{RoleViewer, true},
		{RoleEditor, true},
		{RoleAdmin, true},
		{"superuser", false},
		{"Admin", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidRole(tt.role); got != tt.want {
			t.Errorf("IsValidRole(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestIsValidSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source string
		want   bool
	}{
		{SourceRSS, true},
		{SourceInstagram, true},
		{SourceTikTok, true},
		{SourceYouTube, true},
		{SourceGoogleSearch, true},
		{"twitter", false},
		{"RSS", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidSource(tt.source); got != tt.want {
			t.Errorf("IsValidSource(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestIsValidSentiment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sentiment string
		want      bool
	}{
		{SentimentPositive, true},
		{SentimentNeutral, true},
		{SentimentNegative, true},
		{"mixed", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidSentiment(tt.sentiment); got != tt.want {
			t.Errorf("IsValidSentiment(%q) = %v, want %v", tt.sentiment, got, tt.want)
		}
	}
}

func TestIsValidReportStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status string
		want   bool
	}{
		{ReportStatusNew, true},
		{ReportStatusReviewed, true},
		{ReportStatusArchived, true},
		{"deleted", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidReportStatus(tt.status); got != tt.want {
			t.Errorf("IsValidReportStatus(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

// Password hashes must never leak through JSON serialization.
func TestUserJSONHidesPasswordHash(t *testing.T) {
	t.Parallel()

	u := User{
		ID:           uuid.New(),
		Email:        "analyst@example.com",
		PasswordHash: "$2a$12$secrethash",
		Role:         RoleViewer,
	}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal user: %v", err)
	}
	if strings.Contains(string(data), "secrethash") {
		t.Errorf("serialized user leaks password hash: %s", data)
	}
	if strings.Contains(string(data), "password") {
		t.Errorf("serialized user contains password field: %s", data)
	}
}

// DedupeKey is internal and must not appear in API payloads.
func TestReportJSONHidesDedupeKey(t *testing.T) {
	t.Parallel()

	r := Report{
		ID:        uuid.New(),
		Source:    SourceRSS,
		Title:     "Coverage roundup",
		DedupeKey: "rss|https://example.com/a",
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	if strings.Contains(string(data), "dedupe") {
		t.Errorf("serialized report exposes dedupe key: %s", data)
	}
}
