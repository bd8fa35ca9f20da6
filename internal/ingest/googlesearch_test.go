// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/models"
)

func TestGoogleSearchFetchPaginates(t *testing.T) {
	var starts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := r.URL.Query().Get("start")
		starts = append(starts, start)

		if start == "1" {
			_, _ = w.Write([]byte(`{
				"items":[{"title":"Acme story","link":"https://example.com/a","snippet":"Acme did a thing",
				  "pagemap":{"metatags":[{"article:published_time":"2026-08-05T08:00:00Z"}]}}],
				"queries":{"nextPage":[{"startIndex":11}]}
			}`))
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"title":"Another","link":"https://example.com/b","snippet":"More"}]}`))
	}))
	defer server.Close()

	provider := NewGoogleSearchProvider(&config.GoogleSearchConfig{
		APIKey:   "key",
		EngineID: "cx",
		BaseURL:  server.URL,
		MaxPages: 3,
	})
	feed := &models.FeedConfig{
		Name:   "search",
		Params: models.FeedParams{Query: `"Acme"`, DateRestrict: "d7"},
	}

	items, err := provider.Fetch(context.Background(), feed)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if fmt.Sprint(starts) != "[1 11]" {
		t.Errorf("start cursors = %v, want [1 11]", starts)
	}
	if len(items) != 2 {
		t.Fatalf("Fetch() = %d items, want 2", len(items))
	}
	if items[0].Source != models.SourceGoogleSearch || items[0].URL != "https://example.com/a" {
		t.Errorf("item = %+v", items[0])
	}
	if items[0].PublishedAt == nil {
		t.Error("published time not extracted from metatags")
	}
	if items[1].PublishedAt != nil {
		t.Error("published time invented for item without metatags")
	}
}

func TestGoogleSearchStopsAtPageCap(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		start := r.URL.Query().Get("start")
		_, _ = fmt.Fprintf(w, `{
			"items":[{"title":"T","link":"https://example.com/%s","snippet":"s"}],
			"queries":{"nextPage":[{"startIndex":%d}]}
		}`, start, pages*10+1)
	}))
	defer server.Close()

	provider := NewGoogleSearchProvider(&config.GoogleSearchConfig{
		APIKey: "key", EngineID: "cx", BaseURL: server.URL, MaxPages: 2,
	})
	feed := &models.FeedConfig{Params: models.FeedParams{Query: "acme"}}

	if _, err := provider.Fetch(context.Background(), feed); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if pages != 2 {
		t.Errorf("pages fetched = %d, want 2", pages)
	}
}

func TestGoogleSearchRequiresCredentials(t *testing.T) {
	provider := NewGoogleSearchProvider(&config.GoogleSearchConfig{APIKey: "key"})
	feed := &models.FeedConfig{Params: models.FeedParams{Query: "acme"}}

	if _, err := provider.Fetch(context.Background(), feed); err == nil {
		t.Error("Fetch() without engine id returned nil error")
	}
}
