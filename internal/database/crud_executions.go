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

const executionColumns = `id, tenant_id, job_id, feed_id, triggered_by, status,
	items_found, items_ingested, items_duplicate, items_failed, error,
	started_at, finished_at, created_at`

func scanExecution(row interface{ Scan(...any) error }) (*models.JobExecution, error) {
	var (
		e          models.JobExecution
		jobID      *uuid.UUID
		errText    sql.NullString
		startedAt  sql.NullTime
		finishedAt sql.NullTime
	)
	err := row.Scan(&e.ID, &e.TenantID, &jobID, &e.FeedID, &e.Trigger, &e.Status,
		&e.ItemsFound, &e.ItemsIngested, &e.ItemsDuplicate, &e.ItemsFailed,
		&errText, &startedAt, &finishedAt, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.JobID = jobID
	e.Error = errText.String
	if startedAt.Valid {
		t := startedAt.Time
		e.StartedAt = &t
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		e.FinishedAt = &t
	}
	return &e, nil
}

// CreateExecution inserts a pending execution row. The row exists
// before the queue message is published so a crashed consumer leaves an
// auditable trail.
func (db *DB) CreateExecution(ctx context.Context, e *models.JobExecution) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = models.ExecutionPending
	}
	e.CreatedAt = time.Now().UTC()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO job_executions (`+executionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TenantID, e.JobID, e.FeedID, e.Trigger, e.Status,
		e.ItemsFound, e.ItemsIngested, e.ItemsDuplicate, e.ItemsFailed,
		nullIfEmpty(e.Error), e.StartedAt, e.FinishedAt, e.CreatedAt)
	recordQuery("insert", "job_executions", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert execution: %w", err)
	}
	return nil
}

// GetExecution fetches an execution by ID within a tenant.
func (db *DB) GetExecution(ctx context.Context, tenantID, id uuid.UUID) (*models.JobExecution, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+executionColumns+` FROM job_executions WHERE id = ? AND tenant_id = ?`, id, tenantID)
	e, err := scanExecution(row)
	recordQuery("select", "job_executions", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}
	return e, nil
}

// ListExecutions returns recent executions in a tenant, newest first,
// optionally filtered by job.
func (db *DB) ListExecutions(ctx context.Context, tenantID uuid.UUID, jobID *uuid.UUID, limit int) ([]models.JobExecution, error) {
	if limit < 1 {
		limit = 50
	}

	query := `SELECT ` + executionColumns + ` FROM job_executions WHERE tenant_id = ?`
	args := []any{tenantID}
	if jobID != nil {
		query += ` AND job_id = ?`
		args = append(args, *jobID)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	recordQuery("select", "job_executions", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	defer closeQuietly(rows)

	executions := []models.JobExecution{}
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		executions = append(executions, *e)
	}
	return executions, rows.Err()
}

// StartExecution transitions a pending execution to running.
func (db *DB) StartExecution(ctx context.Context, id uuid.UUID, at time.Time) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE job_executions SET status = ?, started_at = ? WHERE id = ? AND status = ?`,
		models.ExecutionRunning, at, id, models.ExecutionPending)
	recordQuery("update", "job_executions", start, err)
	if err != nil {
		return fmt.Errorf("failed to start execution: %w", err)
	}
	return requireRowAffected(res)
}

// FinishExecution records the terminal state and item counters of a run.
func (db *DB) FinishExecution(ctx context.Context, e *models.JobExecution) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE job_executions SET status = ?, items_found = ?, items_ingested = ?,
			items_duplicate = ?, items_failed = ?, error = ?, finished_at = ?
		 WHERE id = ?`,
		e.Status, e.ItemsFound, e.ItemsIngested, e.ItemsDuplicate, e.ItemsFailed,
		nullIfEmpty(e.Error), e.FinishedAt, e.ID)
	recordQuery("update", "job_executions", start, err)
	if err != nil {
		return fmt.Errorf("failed to finish execution: %w", err)
	}
	return requireRowAffected(res)
}
