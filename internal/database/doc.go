// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package database provides all data access over an embedded DuckDB
// file. One DB value wraps the connection; CRUD methods live in
// crud_*.go split per entity, analytics aggregations in analytics.go.
//
// Every tenant-owned query filters by tenant_id; a row belonging to
// another tenant behaves exactly like a missing row (ErrNotFound).
// Inserts that hit unique constraints return ErrConflict, except report
// and list-item inserts which use ON CONFLICT DO NOTHING and report
// duplicates through their boolean return.
package database
