// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package models

import (
	"time"

	"github.com/google/uuid"
)

// Content sources a report can originate from. The value doubles as the
// provider name in FeedConfig.
const (
	SourceRSS          = "rss"
	SourceInstagram    = "instagram"
	SourceTikTok       = "tiktok"
	SourceYouTube      = "youtube"
	SourceGoogleSearch = "google"
)

// ValidSources lists all recognized content sources.
var ValidSources = []string{SourceRSS, SourceInstagram, SourceTikTok, SourceYouTube, SourceGoogleSearch}

// IsValidSource checks if a source name is recognized.
func IsValidSource(source string) bool {
	for _, s := range ValidSources {
		if s == source {
			return true
		}
	}
	return false
}

// Sentiment values assigned by the LLM classifier.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// IsValidSentiment checks if a sentiment label is recognized.
func IsValidSentiment(s string) bool {
	return s == SentimentPositive || s == SentimentNeutral || s == SentimentNegative
}

// Report lifecycle states.
const (
	ReportStatusNew      = "new"
	ReportStatusReviewed = "reviewed"
	ReportStatusArchived = "archived"
)

// IsValidReportStatus checks if a report status is recognized.
func IsValidReportStatus(s string) bool {
	return s == ReportStatusNew || s == ReportStatusReviewed || s == ReportStatusArchived
}

// Report is one ingested and AI-annotated piece of content.
//
// DedupeKey is unique per tenant: a stable hash over the resolved URL (or
// the provider's item ID when no URL exists), so re-running a feed never
// duplicates rows. Inserts use ON CONFLICT DO NOTHING against that key.
type Report struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	FeedID      *uuid.UUID `json:"feed_id,omitempty"`
	Source      string     `json:"source"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	ResolvedURL string     `json:"resolved_url,omitempty"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Brands      []string   `json:"brands"`
	Sentiment   string     `json:"sentiment"`
	Topic       string     `json:"topic,omitempty"`
	Reach       int64      `json:"reach"`
	Engagement  int64      `json:"engagement"`
	DedupeKey   string     `json:"-"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ReportFilter narrows report listings and exports.
type ReportFilter struct {
	Query     string
	Source    string
	Sentiment string
	Brand     string
	Status    string
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}
