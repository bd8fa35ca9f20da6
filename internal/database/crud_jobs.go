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

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/models"
)

const jobColumns = `id, tenant_id, feed_id, name, cron_expr, enabled, next_run_at, last_run_at, created_at, updated_at`

func scanJob(row interface{ Scan(...any) error }) (*models.ScheduledJob, error) {
	var (
		j         models.ScheduledJob
		nextRunAt sql.NullTime
		lastRunAt sql.NullTime
	)
	err := row.Scan(&j.ID, &j.TenantID, &j.FeedID, &j.Name, &j.CronExpr,
		&j.Enabled, &nextRunAt, &lastRunAt, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if nextRunAt.Valid {
		t := nextRunAt.Time
		j.NextRunAt = &t
	}
	if lastRunAt.Valid {
		t := lastRunAt.Time
		j.LastRunAt = &t
	}
	return &j, nil
}

// CreateJob inserts a scheduled job. NextRunAt must already be computed
// from the cron expression.
func (db *DB) CreateJob(ctx context.Context, j *models.ScheduledJob) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	now := time.Now().UTC()
	j.CreatedAt = now
	j.UpdatedAt = now

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO scheduled_jobs (`+jobColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.TenantID, j.FeedID, j.Name, j.CronExpr, j.Enabled,
		j.NextRunAt, j.LastRunAt, j.CreatedAt, j.UpdatedAt)
	recordQuery("insert", "scheduled_jobs", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// GetJob fetches a job by ID within a tenant.
func (db *DB) GetJob(ctx context.Context, tenantID, id uuid.UUID) (*models.ScheduledJob, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM scheduled_jobs WHERE id = ? AND tenant_id = ?`, id, tenantID)
	j, err := scanJob(row)
	recordQuery("select", "scheduled_jobs", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListJobs returns all scheduled jobs in a tenant.
func (db *DB) ListJobs(ctx context.Context, tenantID uuid.UUID) ([]models.ScheduledJob, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM scheduled_jobs WHERE tenant_id = ? ORDER BY created_at`, tenantID)
	recordQuery("select", "scheduled_jobs", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer closeQuietly(rows)

	jobs := []models.ScheduledJob{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// DueJobs returns enabled jobs whose next_run_at has passed, across all
// tenants. The scheduler calls this on every tick.
func (db *DB) DueJobs(ctx context.Context, now time.Time) ([]models.ScheduledJob, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM scheduled_jobs
		 WHERE enabled AND next_run_at IS NOT NULL AND next_run_at <= ?
		 ORDER BY next_run_at`, now)
	recordQuery("select", "scheduled_jobs", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query due jobs: %w", err)
	}
	defer closeQuietly(rows)

	jobs := []models.ScheduledJob{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// UpdateJob updates name, cron expression, enabled state, and next run.
func (db *DB) UpdateJob(ctx context.Context, j *models.ScheduledJob) error {
	j.UpdatedAt = time.Now().UTC()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE scheduled_jobs SET name = ?, cron_expr = ?, enabled = ?, next_run_at = ?, updated_at = ?
		 WHERE id = ? AND tenant_id = ?`,
		j.Name, j.CronExpr, j.Enabled, j.NextRunAt, j.UpdatedAt, j.ID, j.TenantID)
	recordQuery("update", "scheduled_jobs", start, err)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return requireRowAffected(res)
}

// MarkJobDispatched advances a job after the scheduler publishes it:
// last_run_at is set to now and next_run_at to the next cron firing.
func (db *DB) MarkJobDispatched(ctx context.Context, id uuid.UUID, lastRun, nextRun time.Time) error {
	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`UPDATE scheduled_jobs SET last_run_at = ?, next_run_at = ?, updated_at = ? WHERE id = ?`,
		lastRun, nextRun, time.Now().UTC(), id)
	recordQuery("update", "scheduled_jobs", start, err)
	if err != nil {
		return fmt.Errorf("failed to mark job dispatched: %w", err)
	}
	return nil
}

// DeleteJob removes a scheduled job.
func (db *DB) DeleteJob(ctx context.Context, tenantID, id uuid.UUID) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM scheduled_jobs WHERE id = ? AND tenant_id = ?`, id, tenantID)
	recordQuery("delete", "scheduled_jobs", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return requireRowAffected(res)
}
