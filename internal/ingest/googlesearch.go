// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/models"
)

const (
	defaultGoogleSearchBaseURL = "https://www.googleapis.com/customsearch/v1"
	googleSearchPageSize       = 10
	googleSearchMaxPages       = 3
)

// GoogleSearchProvider queries the Custom Search JSON API. The API pages
// in blocks of ten and bills per request, so pagination is capped.
type GoogleSearchProvider struct {
	cfg    *config.GoogleSearchConfig
	client *apiClient
}

// NewGoogleSearchProvider builds the web search provider.
func NewGoogleSearchProvider(cfg *config.GoogleSearchConfig) *GoogleSearchProvider {
	return &GoogleSearchProvider{
		cfg:    cfg,
		client: newAPIClient("google-search", cfg.Timeout, 1),
	}
}

func (p *GoogleSearchProvider) Name() string { return models.SourceGoogleSearch }

type googleSearchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		PageMap struct {
			MetaTags []map[string]string `json:"metatags"`
		} `json:"pagemap"`
	} `json:"items"`
	Queries struct {
		NextPage []struct {
			StartIndex int `json:"startIndex"`
		} `json:"nextPage"`
	} `json:"queries"`
}

// Fetch runs the feed's query, following next-page cursors up to the
// configured page cap.
func (p *GoogleSearchProvider) Fetch(ctx context.Context, feed *models.FeedConfig) ([]Item, error) {
	if p.cfg.APIKey == "" || p.cfg.EngineID == "" {
		return nil, fmt.Errorf("google search api key or engine id not configured")
	}
	if feed.Params.Query == "" {
		return nil, fmt.Errorf("google search feed %q has no query", feed.Name)
	}

	maxPages := p.cfg.MaxPages
	if maxPages <= 0 || maxPages > googleSearchMaxPages {
		maxPages = googleSearchMaxPages
	}
	maxItems := feed.Params.MaxItems
	if maxItems <= 0 {
		maxItems = maxPages * googleSearchPageSize
	}

	base := p.cfg.BaseURL
	if base == "" {
		base = defaultGoogleSearchBaseURL
	}

	var items []Item
	start := 1
	for page := 0; page < maxPages && len(items) < maxItems; page++ {
		params := url.Values{}
		params.Set("key", p.cfg.APIKey)
		params.Set("cx", p.cfg.EngineID)
		params.Set("q", feed.Params.Query)
		params.Set("num", strconv.Itoa(googleSearchPageSize))
		params.Set("start", strconv.Itoa(start))
		if feed.Params.DateRestrict != "" {
			params.Set("dateRestrict", feed.Params.DateRestrict)
		}

		var resp googleSearchResponse
		if err := p.client.getJSON(ctx, base+"?"+params.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("google search failed: %w", err)
		}
		if len(resp.Items) == 0 {
			break
		}

		for _, result := range resp.Items {
			if len(items) >= maxItems {
				break
			}
			item := Item{
				Source:  models.SourceGoogleSearch,
				Title:   result.Title,
				URL:     result.Link,
				Excerpt: truncate(result.Snippet, 1000),
			}
			if published := publishedFromMetaTags(result.PageMap.MetaTags); published != nil {
				item.PublishedAt = published
			}
			items = append(items, item)
		}

		if len(resp.Queries.NextPage) == 0 {
			break
		}
		start = resp.Queries.NextPage[0].StartIndex
	}
	return items, nil
}

// publishedFromMetaTags digs a publication date out of the page's meta
// tags when the site exposes one.
func publishedFromMetaTags(tags []map[string]string) *time.Time {
	keys := []string{"article:published_time", "og:published_time", "date", "datepublished"}
	for _, tag := range tags {
		for _, key := range keys {
			value, ok := tag[key]
			if !ok || value == "" {
				continue
			}
			for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
				if ts, err := time.Parse(layout, value); err == nil {
					return &ts
				}
			}
		}
	}
	return nil
}
