// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/models"
)

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Brand Coverage</title>
  <item>
    <title>Acme launches new product</title>
    <link>https://example.com/acme-launch</link>
    <guid>tag:example.com,2026:1</guid>
    <description>Acme unveiled its latest product today.</description>
    <author>jane@example.com (Jane Doe)</author>
    <pubDate>Mon, 10 Aug 2026 09:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Industry roundup</title>
    <link>https://example.com/roundup</link>
    <guid>tag:example.com,2026:2</guid>
    <description>This week in the industry.</description>
    <pubDate>Tue, 11 Aug 2026 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>No link entry</title>
    <guid>tag:example.com,2026:3</guid>
  </item>
</channel>
</rss>`

func TestRSSFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(testFeedXML))
	}))
	defer server.Close()

	provider := NewRSSProvider(&config.RSSConfig{MaxItems: 100})
	feed := &models.FeedConfig{
		Name:     "coverage",
		Provider: models.SourceRSS,
		Params:   models.FeedParams{URL: server.URL},
	}

	items, err := provider.Fetch(context.Background(), feed)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Fetch() = %d items, want 2 (linkless entry skipped)", len(items))
	}

	first := items[0]
	if first.Title != "Acme launches new product" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.URL != "https://example.com/acme-launch" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.ExternalID != "tag:example.com,2026:1" {
		t.Errorf("ExternalID = %q", first.ExternalID)
	}
	if first.Source != models.SourceRSS {
		t.Errorf("Source = %q", first.Source)
	}
	if first.PublishedAt == nil {
		t.Error("PublishedAt is nil")
	}
	if first.Excerpt == "" {
		t.Error("Excerpt is empty")
	}
}

func TestRSSFetchHonorsMaxItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testFeedXML))
	}))
	defer server.Close()

	provider := NewRSSProvider(&config.RSSConfig{})
	feed := &models.FeedConfig{
		Name:   "coverage",
		Params: models.FeedParams{URL: server.URL, MaxItems: 1},
	}

	items, err := provider.Fetch(context.Background(), feed)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Fetch() = %d items, want 1", len(items))
	}
}

func TestRSSFetchBadFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewRSSProvider(&config.RSSConfig{})
	feed := &models.FeedConfig{Name: "broken", Params: models.FeedParams{URL: server.URL}}

	if _, err := provider.Fetch(context.Background(), feed); err == nil {
		t.Error("Fetch() on failing feed returned nil error")
	}
}
