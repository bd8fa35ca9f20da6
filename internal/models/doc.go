// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package models defines the persistent entities and API response shapes
// shared across the database, API, and job layers.
//
// Every tenant-owned entity carries a TenantID; cross-tenant isolation is
// enforced by scoping every database query with it. Uniqueness invariants
// (tenant+email, tenant+brand name, tenant+dedupe key) are database
// constraints, not application logic.
package models
