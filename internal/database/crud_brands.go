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
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/models"
)

const brandColumns = `id, tenant_id, name, aliases, ignored, mention_count, created_at, updated_at`

func scanBrand(row interface{ Scan(...any) error }) (*models.BrandConfig, error) {
	var (
		b           models.BrandConfig
		aliasesJSON sql.NullString
	)
	err := row.Scan(&b.ID, &b.TenantID, &b.Name, &aliasesJSON, &b.Ignore,
		&b.MentionCount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Aliases = []string{}
	if aliasesJSON.Valid && aliasesJSON.String != "" {
		if err := json.Unmarshal([]byte(aliasesJSON.String), &b.Aliases); err != nil {
			return nil, fmt.Errorf("failed to unmarshal aliases: %w", err)
		}
	}
	return &b, nil
}

// CreateBrand inserts a brand configuration. Name is unique per tenant.
func (db *DB) CreateBrand(ctx context.Context, b *models.BrandConfig) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	aliasesJSON, err := marshalBrands(b.Aliases)
	if err != nil {
		return err
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO brand_configs (`+brandColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.TenantID, b.Name, aliasesJSON, b.Ignore, b.MentionCount, b.CreatedAt, b.UpdatedAt)
	recordQuery("insert", "brand_configs", start, err)
	if isUniqueViolation(err) {
		return fmt.Errorf("brand %q: %w", b.Name, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert brand: %w", err)
	}
	return nil
}

// GetBrand fetches a brand by ID within a tenant.
func (db *DB) GetBrand(ctx context.Context, tenantID, id uuid.UUID) (*models.BrandConfig, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+brandColumns+` FROM brand_configs WHERE id = ? AND tenant_id = ?`, id, tenantID)
	b, err := scanBrand(row)
	recordQuery("select", "brand_configs", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return b, nil
}

// ListBrands returns all brand configurations in a tenant ordered by name.
func (db *DB) ListBrands(ctx context.Context, tenantID uuid.UUID) ([]models.BrandConfig, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+brandColumns+` FROM brand_configs WHERE tenant_id = ? ORDER BY name`, tenantID)
	recordQuery("select", "brand_configs", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer closeQuietly(rows)

	brands := []models.BrandConfig{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, *b)
	}
	return brands, rows.Err()
}

// ActiveBrands returns non-ignored brands for the matcher.
func (db *DB) ActiveBrands(ctx context.Context, tenantID uuid.UUID) ([]models.BrandConfig, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+brandColumns+` FROM brand_configs WHERE tenant_id = ? AND NOT ignored ORDER BY name`, tenantID)
	recordQuery("select", "brand_configs", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list active brands: %w", err)
	}
	defer closeQuietly(rows)

	brands := []models.BrandConfig{}
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, *b)
	}
	return brands, rows.Err()
}

// UpdateBrand updates name, aliases, and the ignore flag.
func (db *DB) UpdateBrand(ctx context.Context, b *models.BrandConfig) error {
	b.UpdatedAt = time.Now().UTC()

	aliasesJSON, err := marshalBrands(b.Aliases)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE brand_configs SET name = ?, aliases = ?, ignored = ?, updated_at = ?
		 WHERE id = ? AND tenant_id = ?`,
		b.Name, aliasesJSON, b.Ignore, b.UpdatedAt, b.ID, b.TenantID)
	recordQuery("update", "brand_configs", start, err)
	if isUniqueViolation(err) {
		return fmt.Errorf("brand %q: %w", b.Name, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update brand: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteBrand removes a brand configuration.
func (db *DB) DeleteBrand(ctx context.Context, tenantID, id uuid.UUID) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM brand_configs WHERE id = ? AND tenant_id = ?`, id, tenantID)
	recordQuery("delete", "brand_configs", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}
	return requireRowAffected(res)
}

// IncrementBrandMentions bumps mention counters for the named brands.
// Called by the ingestion pipeline after a report is stored.
func (db *DB) IncrementBrandMentions(ctx context.Context, tenantID uuid.UUID, names []string) error {
	if len(names) == 0 {
		return nil
	}

	start := time.Now()
	var outerErr error
	for _, name := range names {
		_, err := db.conn.ExecContext(ctx,
			`UPDATE brand_configs SET mention_count = mention_count + 1, updated_at = ?
			 WHERE tenant_id = ? AND name = ?`,
			time.Now().UTC(), tenantID, name)
		if err != nil {
			outerErr = fmt.Errorf("failed to increment mentions for %q: %w", name, err)
			break
		}
	}
	recordQuery("update", "brand_configs", start, outerErr)
	return outerErr
}
