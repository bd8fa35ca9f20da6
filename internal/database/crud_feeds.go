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

const feedColumns = `id, tenant_id, name, provider, params, enabled, last_run_at, created_at, updated_at`

func scanFeed(row interface{ Scan(...any) error }) (*models.FeedConfig, error) {
	var (
		f          models.FeedConfig
		paramsJSON sql.NullString
		lastRunAt  sql.NullTime
	)
	err := row.Scan(&f.ID, &f.TenantID, &f.Name, &f.Provider, &paramsJSON,
		&f.Enabled, &lastRunAt, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if paramsJSON.Valid && paramsJSON.String != "" {
		if err := json.Unmarshal([]byte(paramsJSON.String), &f.Params); err != nil {
			return nil, fmt.Errorf("failed to unmarshal feed params: %w", err)
		}
	}
	if lastRunAt.Valid {
		t := lastRunAt.Time
		f.LastRunAt = &t
	}
	return &f, nil
}

// CreateFeed inserts a feed configuration. Name is unique per tenant.
func (db *DB) CreateFeed(ctx context.Context, f *models.FeedConfig) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now

	paramsJSON, err := json.Marshal(f.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal feed params: %w", err)
	}

	start := time.Now()
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO feed_configs (`+feedColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.TenantID, f.Name, f.Provider, string(paramsJSON), f.Enabled, f.LastRunAt,
		f.CreatedAt, f.UpdatedAt)
	recordQuery("insert", "feed_configs", start, err)
	if isUniqueViolation(err) {
		return fmt.Errorf("feed %q: %w", f.Name, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert feed: %w", err)
	}
	return nil
}

// GetFeed fetches a feed by ID within a tenant.
func (db *DB) GetFeed(ctx context.Context, tenantID, id uuid.UUID) (*models.FeedConfig, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+feedColumns+` FROM feed_configs WHERE id = ? AND tenant_id = ?`, id, tenantID)
	f, err := scanFeed(row)
	recordQuery("select", "feed_configs", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	return f, nil
}

// ListFeeds returns all feed configurations in a tenant ordered by name.
func (db *DB) ListFeeds(ctx context.Context, tenantID uuid.UUID) ([]models.FeedConfig, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+feedColumns+` FROM feed_configs WHERE tenant_id = ? ORDER BY name`, tenantID)
	recordQuery("select", "feed_configs", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}
	defer closeQuietly(rows)

	feeds := []models.FeedConfig{}
	for rows.Next() {
		f, err := scanFeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed: %w", err)
		}
		feeds = append(feeds, *f)
	}
	return feeds, rows.Err()
}

// UpdateFeed updates name, provider, params, and enabled state.
func (db *DB) UpdateFeed(ctx context.Context, f *models.FeedConfig) error {
	f.UpdatedAt = time.Now().UTC()

	paramsJSON, err := json.Marshal(f.Params)
	if err != nil {
		return fmt.Errorf("failed to marshal feed params: %w", err)
	}

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE feed_configs SET name = ?, provider = ?, params = ?, enabled = ?, updated_at = ?
		 WHERE id = ? AND tenant_id = ?`,
		f.Name, f.Provider, string(paramsJSON), f.Enabled, f.UpdatedAt, f.ID, f.TenantID)
	recordQuery("update", "feed_configs", start, err)
	if isUniqueViolation(err) {
		return fmt.Errorf("feed %q: %w", f.Name, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update feed: %w", err)
	}
	return requireRowAffected(res)
}

// TouchFeedLastRun records the completion time of a feed run.
func (db *DB) TouchFeedLastRun(ctx context.Context, tenantID, id uuid.UUID, at time.Time) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`UPDATE feed_configs SET last_run_at = ?, updated_at = ? WHERE id = ? AND tenant_id = ?`,
		at, time.Now().UTC(), id, tenantID)
	recordQuery("update", "feed_configs", start, err)
	if err != nil {
		return fmt.Errorf("failed to touch feed last run: %w", err)
	}
	return nil
}

// DeleteFeed removes a feed and its schedules. Reports keep their
// feed_id for provenance; the reference simply dangles.
func (db *DB) DeleteFeed(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM scheduled_jobs WHERE feed_id = ? AND tenant_id = ?`, id, tenantID); err != nil {
		return fmt.Errorf("failed to delete feed schedules: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM feed_configs WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete feed: %w", err)
	}
	if err := requireRowAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}
