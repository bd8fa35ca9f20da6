// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/database"
	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/metrics"
	"github.com/abmc/earned-media/internal/models"
)

// cronParser accepts the standard 5-field format stored on scheduled
// jobs, matching what job validation accepts.
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow,
)

// NextRun computes the next firing of a cron expression after the given
// time.
func NextRun(expr string, after time.Time) (time.Time, error) {
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cron expression %q: %w", expr, err)
	}
	return schedule.Next(after), nil
}

// JobPublisher enqueues job requests for the worker pool.
type JobPublisher interface {
	PublishJob(req *models.JobRequest) error
}

// Scheduler polls for due jobs and dispatches them to the queue. Each
// dispatch creates a pending execution row first, so a crash between
// create and publish leaves an auditable stuck-pending record instead
// of a silent miss.
type Scheduler struct {
	db        *database.DB
	publisher JobPublisher
	interval  time.Duration
}

// NewScheduler creates a scheduler that checks for due jobs on the
// configured interval.
func NewScheduler(db *database.DB, publisher JobPublisher, cfg *config.SchedulerConfig) *Scheduler {
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{db: db, publisher: publisher, interval: interval}
}

// Run polls for due jobs until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	logging.Info().Dur("check_interval", s.interval).Msg("Scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.dispatchDue(ctx, time.Now().UTC())
		}
	}
}

// dispatchDue publishes every job whose next run has passed. A failure
// on one job does not stop the others.
func (s *Scheduler) dispatchDue(ctx context.Context, now time.Time) {
	due, err := s.db.DueJobs(ctx, now)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to query due jobs")
		return
	}

	for i := range due {
		if err := s.dispatch(ctx, &due[i], now); err != nil {
			logging.Error().Err(err).
				Str("job_id", due[i].ID.String()).
				Str("job_name", due[i].Name).
				Msg("Failed to dispatch job")
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, job *models.ScheduledJob, now time.Time) error {
	next, err := NextRun(job.CronExpr, now)
	if err != nil {
		// An unparseable expression would fire on every tick, park the
		// job until an operator fixes it.
		if markErr := s.db.MarkJobDispatched(ctx, job.ID, now, now.Add(24*time.Hour)); markErr != nil {
			return markErr
		}
		return err
	}

	jobID := job.ID
	exec, err := Enqueue(ctx, s.db, s.publisher, job.TenantID, job.FeedID, &jobID, models.TriggerSchedule)
	if err != nil {
		return fmt.Errorf("enqueue job %s: %w", job.ID, err)
	}

	if err := s.db.MarkJobDispatched(ctx, job.ID, now, next); err != nil {
		return fmt.Errorf("mark job %s dispatched: %w", job.ID, err)
	}

	logging.Info().
		Str("job_id", job.ID.String()).
		Str("job_name", job.Name).
		Str("execution_id", exec.ID.String()).
		Time("next_run", next).
		Msg("Dispatched scheduled job")
	return nil
}

// Enqueue creates a pending execution and publishes its job request.
// Manual feed and job runs from the API go through the same path as
// scheduled dispatches so the worker pool is the only ingestion driver.
func Enqueue(ctx context.Context, db *database.DB, publisher JobPublisher, tenantID, feedID uuid.UUID, jobID *uuid.UUID, trigger string) (*models.JobExecution, error) {
	exec := &models.JobExecution{
		ID:       uuid.New(),
		TenantID: tenantID,
		JobID:    jobID,
		FeedID:   feedID,
		Trigger:  trigger,
	}
	if err := db.CreateExecution(ctx, exec); err != nil {
		return nil, fmt.Errorf("create execution: %w", err)
	}

	req := &models.JobRequest{
		ExecutionID: exec.ID,
		TenantID:    tenantID,
		FeedID:      feedID,
		Trigger:     trigger,
	}
	if err := publisher.PublishJob(req); err != nil {
		return nil, fmt.Errorf("publish job request: %w", err)
	}

	metrics.SchedulerJobsTriggered.WithLabelValues(trigger).Inc()
	return exec, nil
}
