// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

/*
schema.go - Database Schema Management

Tables:
  - tenants: Organizations; every other row is scoped by tenant_id
  - users: Accounts with bcrypt password hashes and a role per user
  - reports: Ingested earned-media items with enrichment columns
  - brand_configs: Tracked brands with aliases and denylist flag
  - feed_configs: Ingestion source configurations per tenant
  - scheduled_jobs: Cron schedules attached to feeds
  - job_executions: One row per ingestion run with item counters
  - lists: User-curated report collections
  - list_items: Membership rows, unique per (list_id, report_id)
  - summaries: Generated PDF summary documents

All columns are defined in the initial CREATE TABLE statements; there
are no runtime migrations yet.

Uniqueness:
  - users.email is globally unique (login does not know the tenant)
  - reports (tenant_id, dedupe_key) backs ON CONFLICT DO NOTHING dedupe
  - brand_configs (tenant_id, name), feed_configs (tenant_id, name)
  - list_items (list_id, report_id)
*/
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core tables and indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// tableCreationQueries returns the table and index creation statements.
func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS tenants (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			tenant_id UUID NOT NULL,
			email TEXT NOT NULL UNIQUE,
			full_name TEXT,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			superuser BOOLEAN NOT NULL DEFAULT false,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS reports (
			id UUID PRIMARY KEY,
			tenant_id UUID NOT NULL,
			feed_id UUID,
			source TEXT NOT NULL,
			title TEXT NOT NULL,
			url TEXT,
			resolved_url TEXT,
			excerpt TEXT,
			author TEXT,
			published_at TIMESTAMP,
			brands TEXT,
			sentiment TEXT,
			topic TEXT,
			reach BIGINT NOT NULL DEFAULT 0,
			engagement BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'new',
			dedupe_key TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (tenant_id, dedupe_key)
		)`,

		`CREATE TABLE IF NOT EXISTS brand_configs (
			id UUID PRIMARY KEY,
			tenant_id UUID NOT NULL,
			name TEXT NOT NULL,
			aliases TEXT,
			ignored BOOLEAN NOT NULL DEFAULT false,
			mention_count BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (tenant_id, name)
		)`,

		`CREATE TABLE IF NOT EXISTS feed_configs (
			id UUID PRIMARY KEY,
			tenant_id UUID NOT NULL,
			name TEXT NOT NULL,
			provider TEXT NOT NULL,
			params TEXT,
			enabled BOOLEAN NOT NULL DEFAULT true,
			last_run_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (tenant_id, name)
		)`,

		`CREATE TABLE IF NOT EXISTS scheduled_jobs (
			id UUID PRIMARY KEY,
			tenant_id UUID NOT NULL,
			feed_id UUID NOT NULL,
			name TEXT NOT NULL,
			cron_expr TEXT NOT NULL,
			enabled BOOLEAN NOT NULL DEFAULT true,
			next_run_at TIMESTAMP,
			last_run_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS job_executions (
			id UUID PRIMARY KEY,
			tenant_id UUID NOT NULL,
			job_id UUID,
			feed_id UUID NOT NULL,
			triggered_by TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			items_found INTEGER NOT NULL DEFAULT 0,
			items_ingested INTEGER NOT NULL DEFAULT 0,
			items_duplicate INTEGER NOT NULL DEFAULT 0,
			items_failed INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			started_at TIMESTAMP,
			finished_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS lists (
			id UUID PRIMARY KEY,
			tenant_id UUID NOT NULL,
			owner_id UUID NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS list_items (
			list_id UUID NOT NULL,
			report_id UUID NOT NULL,
			note TEXT,
			added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (list_id, report_id)
		)`,

		`CREATE TABLE IF NOT EXISTS summaries (
			id UUID PRIMARY KEY,
			tenant_id UUID NOT NULL,
			title TEXT NOT NULL,
			period_start TIMESTAMP NOT NULL,
			period_end TIMESTAMP NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			pdf_path TEXT,
			report_count INTEGER NOT NULL DEFAULT 0,
			generated_by UUID NOT NULL,
			error TEXT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for common query patterns
		`CREATE INDEX IF NOT EXISTS idx_users_tenant ON users (tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_tenant_published ON reports (tenant_id, published_at)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_tenant_source ON reports (tenant_id, source)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_tenant_status ON reports (tenant_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_feeds_tenant ON feed_configs (tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_next_run ON scheduled_jobs (enabled, next_run_at)`,
		`CREATE INDEX IF NOT EXISTS idx_executions_tenant_created ON job_executions (tenant_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_lists_tenant ON lists (tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_tenant ON summaries (tenant_id, created_at)`,
	}
}
