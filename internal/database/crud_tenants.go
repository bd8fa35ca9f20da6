// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/models"
)

// ErrNotFound is returned when a requested row does not exist, or is
// not visible to the requesting tenant.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update violates a unique
// constraint.
var ErrConflict = errors.New("conflict")

// isUniqueViolation reports whether err is a unique constraint failure.
// The DuckDB driver surfaces these as plain errors, so we match on the
// message text.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// CreateTenant inserts a new tenant. Slug must be unique.
func (db *DB) CreateTenant(ctx context.Context, t *models.Tenant) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO tenants (id, name, slug, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Slug, t.Active, t.CreatedAt, t.UpdatedAt)
	recordQuery("insert", "tenants", start, err)
	if isUniqueViolation(err) {
		return fmt.Errorf("tenant slug %q: %w", t.Slug, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert tenant: %w", err)
	}
	return nil
}

// GetTenant fetches a tenant by ID.
func (db *DB) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, slug, active, created_at, updated_at
		 FROM tenants WHERE id = ?`, id)

	var t models.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	recordQuery("select", "tenants", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &t, nil
}

// GetTenantBySlug fetches a tenant by its unique slug.
func (db *DB) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, name, slug, active, created_at, updated_at
		 FROM tenants WHERE slug = ?`, slug)

	var t models.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	recordQuery("select", "tenants", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant by slug: %w", err)
	}
	return &t, nil
}

// ListTenants returns all tenants ordered by creation time. Superuser only.
func (db *DB) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, slug, active, created_at, updated_at
		 FROM tenants ORDER BY created_at`)
	recordQuery("select", "tenants", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer closeQuietly(rows)

	tenants := []models.Tenant{}
	for rows.Next() {
		var t models.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// UpdateTenant updates name, slug, and active state.
func (db *DB) UpdateTenant(ctx context.Context, t *models.Tenant) error {
	t.UpdatedAt = time.Now().UTC()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE tenants SET name = ?, slug = ?, active = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Slug, t.Active, t.UpdatedAt, t.ID)
	recordQuery("update", "tenants", start, err)
	if isUniqueViolation(err) {
		return fmt.Errorf("tenant slug %q: %w", t.Slug, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteTenant removes a tenant and all rows scoped to it.
func (db *DB) DeleteTenant(ctx context.Context, id uuid.UUID) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// list_items has no tenant_id; delete via the owning lists
	statements := []string{
		`DELETE FROM list_items WHERE list_id IN (SELECT id FROM lists WHERE tenant_id = ?)`,
		`DELETE FROM lists WHERE tenant_id = ?`,
		`DELETE FROM summaries WHERE tenant_id = ?`,
		`DELETE FROM job_executions WHERE tenant_id = ?`,
		`DELETE FROM scheduled_jobs WHERE tenant_id = ?`,
		`DELETE FROM feed_configs WHERE tenant_id = ?`,
		`DELETE FROM brand_configs WHERE tenant_id = ?`,
		`DELETE FROM reports WHERE tenant_id = ?`,
		`DELETE FROM users WHERE tenant_id = ?`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete tenant data: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM tenants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	if err := requireRowAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}

// requireRowAffected converts a zero-row write into ErrNotFound.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
