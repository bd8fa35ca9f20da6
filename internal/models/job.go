// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledJob is a cron-driven ingestion task bound to one feed.
// NextRunAt is maintained by the scheduler: recomputed from CronExpr after
// every dispatch, so due-job selection is a single indexed comparison.
type ScheduledJob struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	FeedID    uuid.UUID  `json:"feed_id"`
	Name      string     `json:"name"`
	CronExpr  string     `json:"cron_expr"`
	Enabled   bool       `json:"enabled"`
	NextRunAt *time.Time `json:"next_run_at,omitempty"`
	LastRunAt *time.Time `json:"last_run_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Job execution states.
const (
	ExecutionPending   = "pending"
	ExecutionRunning   = "running"
	ExecutionSucceeded = "succeeded"
	ExecutionFailed    = "failed"
)

// Job trigger kinds recorded on executions.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// JobExecution is one run of an ingestion job: its lifecycle state, item
// counters, and error text on failure. JobID is nil for manual feed runs.
type JobExecution struct {
	ID             uuid.UUID  `json:"id"`
	TenantID       uuid.UUID  `json:"tenant_id"`
	JobID          *uuid.UUID `json:"job_id,omitempty"`
	FeedID         uuid.UUID  `json:"feed_id"`
	Trigger        string     `json:"trigger"`
	Status         string     `json:"status"`
	ItemsFound     int        `json:"items_found"`
	ItemsIngested  int        `json:"items_ingested"`
	ItemsDuplicate int        `json:"items_duplicate"`
	ItemsFailed    int        `json:"items_failed"`
	Error          string     `json:"error,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// JobRequest is the queue message that triggers one job execution. The
// execution row is created (pending) before publish so a crashed consumer
// leaves an auditable trail.
type JobRequest struct {
	ExecutionID uuid.UUID `json:"execution_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	FeedID      uuid.UUID `json:"feed_id"`
	Trigger     string    `json:"trigger"`
}
