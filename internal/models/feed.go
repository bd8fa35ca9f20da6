// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedParams holds provider-specific search parameters. Only the fields
// relevant to the feed's provider are set:
//
//   - rss: URL
//   - instagram, tiktok: Usernames and/or Hashtags, MaxItems
//   - youtube: Query or ChannelID, MaxItems
//   - google: Query, DateRestrict (e.g. "d7"), MaxItems
type FeedParams struct {
	URL          string   `json:"url,omitempty"`
	Query        string   `json:"query,omitempty"`
	Usernames    []string `json:"usernames,omitempty"`
	Hashtags     []string `json:"hashtags,omitempty"`
	ChannelID    string   `json:"channel_id,omitempty"`
	DateRestrict string   `json:"date_restrict,omitempty"`
	MaxItems     int      `json:"max_items,omitempty"`
}

// FeedConfig is a configured content source: which provider to pull from
// and with which parameters. Jobs reference feeds; a manual run bypasses
// the schedule but executes the same pipeline.
type FeedConfig struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	Name      string     `json:"name"`
	Provider  string     `json:"provider"`
	Params    FeedParams `json:"params"`
	Enabled   bool       `json:"enabled"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
