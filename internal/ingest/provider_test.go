// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package ingest

import (
	"context"
	"testing"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/models"
)

func TestDedupeKeyPrefersResolvedURL(t *testing.T) {
	item := Item{
		ExternalID: "guid-1",
		Source:     models.SourceRSS,
		URL:        "https://news.google.com/articles/abc",
	}

	withResolved := item.DedupeKey("https://example.com/story")
	withoutResolved := item.DedupeKey("")
	if withResolved == withoutResolved {
		t.Error("resolved URL did not change the dedupe key")
	}

	// Same resolved URL through different aggregator links collapses
	other := Item{Source: models.SourceRSS, URL: "https://news.google.com/articles/xyz"}
	if other.DedupeKey("https://example.com/story") != withResolved {
		t.Error("same resolved URL produced different keys")
	}
}

func TestDedupeKeyIgnoresTrailingSlash(t *testing.T) {
	a := Item{Source: models.SourceRSS, URL: "https://example.com/story"}
	b := Item{Source: models.SourceRSS, URL: "https://example.com/story/"}
	if a.DedupeKey("") != b.DedupeKey("") {
		t.Error("trailing slash changed the dedupe key")
	}
}

func TestDedupeKeyVariesBySource(t *testing.T) {
	a := Item{Source: models.SourceRSS, URL: "https://example.com/story"}
	b := Item{Source: models.SourceGoogleSearch, URL: "https://example.com/story"}
	if a.DedupeKey("") == b.DedupeKey("") {
		t.Error("different sources produced the same key")
	}
}

func TestDedupeKeyFallsBackToExternalID(t *testing.T) {
	item := Item{Source: models.SourceInstagram, ExternalID: "post-123"}
	if item.DedupeKey("") == "" {
		t.Error("empty dedupe key for item without URL")
	}
}

func TestRegistryLookup(t *testing.T) {
	rss := NewRSSProvider(&config.RSSConfig{})
	registry := NewRegistry(rss)

	got, err := registry.Get(models.SourceRSS)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name() != models.SourceRSS {
		t.Errorf("Name() = %s, want rss", got.Name())
	}

	if _, err := registry.Get("carrier-pigeon"); err == nil {
		t.Error("Get() unknown provider returned nil error")
	}
}

func TestProvidersRejectMissingParams(t *testing.T) {
	ctx := context.Background()
	feed := &models.FeedConfig{Name: "empty"}

	tests := []struct {
		name     string
		provider Provider
	}{
		{"rss without url", NewRSSProvider(&config.RSSConfig{})},
		{"instagram without targets", NewInstagramProvider(&config.ApifyConfig{Token: "t"})},
		{"youtube without query", NewYouTubeProvider(&config.YouTubeConfig{APIKey: "k"})},
		{"google search without query", NewGoogleSearchProvider(&config.GoogleSearchConfig{APIKey: "k", EngineID: "cx"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.provider.Fetch(ctx, feed); err == nil {
				t.Error("Fetch() with missing params returned nil error")
			}
		})
	}
}
