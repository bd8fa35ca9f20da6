// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/abmc/earned-media/internal/models"
)

// Item is one piece of content fetched from a provider, before
// enrichment and storage.
type Item struct {
	// ExternalID is the provider's stable identifier for the item,
	// when it has one (RSS GUID, post ID, video ID).
	ExternalID  string
	Source      string
	Title       string
	URL         string
	Excerpt     string
	Author      string
	PublishedAt *time.Time
	Reach       int64
	Engagement  int64
}

// DedupeKey derives the per-tenant uniqueness key for an item. The
// resolved URL wins when present so the same article reached through
// different redirect chains collapses to one report; the provider ID is
// the fallback for items without a canonical URL.
func (i Item) DedupeKey(resolvedURL string) string {
	basis := resolvedURL
	if basis == "" {
		basis = i.URL
	}
	if basis == "" {
		basis = i.ExternalID
	}
	sum := sha256.Sum256([]byte(i.Source + "|" + strings.TrimRight(basis, "/")))
	return hex.EncodeToString(sum[:16])
}

// Provider fetches content items for a configured feed.
type Provider interface {
	// Name returns the provider identifier matching FeedConfig.Provider.
	Name() string
	// Fetch pulls items according to the feed's parameters.
	Fetch(ctx context.Context, feed *models.FeedConfig) ([]Item, error)
}

// Registry maps provider names to implementations.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds a registry from the given providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get looks up the provider for a feed.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("no provider registered for %q", name)
	}
	return p, nil
}

// Names lists registered providers.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
