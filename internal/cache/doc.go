// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package cache provides the in-memory TTL cache used for analytics
// responses. Keys are hashed from the tenant ID and query parameters, so
// cached aggregates can never cross tenant boundaries.
package cache
