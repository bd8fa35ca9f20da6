// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package ingest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/models"
)

const defaultRSSUserAgent = "earned-media/1.0 (+https://github.com/abmc/earned-media)"

// RSSProvider pulls items from RSS and Atom feeds, including Google News
// query feeds. Google News links are opaque redirects; the resolver
// untangles them later in the pipeline.
type RSSProvider struct {
	cfg    *config.RSSConfig
	parser *gofeed.Parser
}

// NewRSSProvider builds the RSS provider.
func NewRSSProvider(cfg *config.RSSConfig) *RSSProvider {
	parser := gofeed.NewParser()
	parser.UserAgent = cfg.UserAgent
	if parser.UserAgent == "" {
		parser.UserAgent = defaultRSSUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	parser.Client = &http.Client{Timeout: timeout}

	return &RSSProvider{cfg: cfg, parser: parser}
}

func (p *RSSProvider) Name() string { return models.SourceRSS }

// Fetch parses the feed URL and maps entries to items, newest first as
// the feed presents them, capped at the configured maximum.
func (p *RSSProvider) Fetch(ctx context.Context, feed *models.FeedConfig) ([]Item, error) {
	if feed.Params.URL == "" {
		return nil, fmt.Errorf("rss feed %q has no url", feed.Name)
	}

	parsed, err := p.parser.ParseURLWithContext(feed.Params.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %q: %w", feed.Name, err)
	}

	max := feed.Params.MaxItems
	if max <= 0 {
		max = p.cfg.MaxItems
	}
	if max <= 0 {
		max = 100
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if len(items) >= max {
			break
		}
		if entry.Link == "" {
			continue
		}

		item := Item{
			ExternalID:  entry.GUID,
			Source:      models.SourceRSS,
			Title:       strings.TrimSpace(entry.Title),
			URL:         entry.Link,
			Excerpt:     excerptFrom(entry),
			PublishedAt: entry.PublishedParsed,
		}
		if item.PublishedAt == nil {
			item.PublishedAt = entry.UpdatedParsed
		}
		if len(entry.Authors) > 0 {
			item.Author = entry.Authors[0].Name
		}
		items = append(items, item)
	}
	return items, nil
}

// excerptFrom prefers the description, falling back to content, and
// clips to a sane length for storage.
func excerptFrom(entry *gofeed.Item) string {
	text := strings.TrimSpace(entry.Description)
	if text == "" {
		text = strings.TrimSpace(entry.Content)
	}
	return truncate(text, 1000)
}
