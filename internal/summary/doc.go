// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package summary generates PDF summary documents for a tenant's
// reports over a date range: overview figures, sentiment breakdown,
// top brands, and the report listing. Generation is asynchronous and
// announced over the realtime hub.
package summary
