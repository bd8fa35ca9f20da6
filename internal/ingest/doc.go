// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package ingest fetches earned media content from the configured
// providers: RSS/Atom feeds, Instagram and TikTok via Apify actors, the
// YouTube Data API and Google Custom Search. Every provider goes through
// a shared client with per-provider rate limiting and a circuit breaker,
// and aggregator links are canonicalized by the resolver before items
// reach storage so deduplication works across redirect chains.
package ingest
