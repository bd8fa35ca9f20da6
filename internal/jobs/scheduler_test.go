// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package jobs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/database"
	"github.com/abmc/earned-media/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Path:      filepath.Join(t.TempDir(), "test.duckdb"),
		MaxMemory: "512MB",
		Threads:   1,
	}
	db, err := database.New(cfg)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestTenant(t *testing.T, db *database.DB) *models.Tenant {
	t.Helper()

	tenant := &models.Tenant{
		Name:   "Acme Corp",
		Slug:   "acme-" + uuid.NewString()[:8],
		Active: true,
	}
	if err := db.CreateTenant(context.Background(), tenant); err != nil {
		t.Fatalf("CreateTenant() error = %v", err)
	}
	return tenant
}

func newTestFeed(t *testing.T, db *database.DB, tenantID uuid.UUID) *models.FeedConfig {
	t.Helper()

	feed := &models.FeedConfig{
		TenantID: tenantID,
		Name:     "Industry News",
		Provider: "rss",
		Params:   models.FeedParams{URL: "https://example.com/feed.xml"},
		Enabled:  true,
	}
	if err := db.CreateFeed(context.Background(), feed); err != nil {
		t.Fatalf("CreateFeed() error = %v", err)
	}
	return feed
}

// capturePublisher records enqueued job requests.
type capturePublisher struct {
	requests []*models.JobRequest
}

func (p *capturePublisher) PublishJob(req *models.JobRequest) error {
	p.requests = append(p.requests, req)
	return nil
}

func TestNextRun(t *testing.T) {
	after := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expr    string
		want    time.Time
		wantErr bool
	}{
		{
			name: "every 15 minutes",
			expr: "*/15 * * * *",
			want: time.Date(2026, 3, 10, 9, 45, 0, 0, time.UTC),
		},
		{
			name: "daily at midnight",
			expr: "0 0 * * *",
			want: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "hourly on the hour",
			expr: "0 * * * *",
			want: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "six fields rejected",
			expr:    "0 0 0 * * *",
			wantErr: true,
		},
		{
			name:    "garbage rejected",
			expr:    "not a cron",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextRun(tt.expr, after)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NextRun(%q) error = nil, want error", tt.expr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NextRun(%q) error = %v", tt.expr, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NextRun(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestDispatchDuePublishesAndAdvances(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)
	feed := newTestFeed(t, db, tenant.ID)

	past := time.Now().UTC().Add(-time.Minute)
	job := &models.ScheduledJob{
		TenantID:  tenant.ID,
		FeedID:    feed.ID,
		Name:      "Quarter hourly pull",
		CronExpr:  "*/15 * * * *",
		Enabled:   true,
		NextRunAt: &past,
	}
	if err := db.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}

	pub := &capturePublisher{}
	sched := NewScheduler(db, pub, &config.SchedulerConfig{CheckInterval: time.Minute})

	now := time.Now().UTC()
	sched.dispatchDue(ctx, now)

	if len(pub.requests) != 1 {
		t.Fatalf("published %d requests, want 1", len(pub.requests))
	}
	req := pub.requests[0]
	if req.TenantID != tenant.ID || req.FeedID != feed.ID {
		t.Errorf("request = %+v, want tenant %s feed %s", req, tenant.ID, feed.ID)
	}
	if req.Trigger != models.TriggerSchedule {
		t.Errorf("Trigger = %q, want %q", req.Trigger, models.TriggerSchedule)
	}

	exec, err := db.GetExecution(ctx, tenant.ID, req.ExecutionID)
	if err != nil {
		t.Fatalf("GetExecution() error = %v", err)
	}
	if exec.Status != models.ExecutionPending {
		t.Errorf("execution Status = %q, want %q", exec.Status, models.ExecutionPending)
	}
	if exec.JobID == nil || *exec.JobID != job.ID {
		t.Errorf("execution JobID = %v, want %s", exec.JobID, job.ID)
	}

	updated, err := db.GetJob(ctx, tenant.ID, job.ID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if updated.NextRunAt == nil || !updated.NextRunAt.After(now) {
		t.Errorf("NextRunAt = %v, want after %v", updated.NextRunAt, now)
	}
	if updated.LastRunAt == nil {
		t.Error("LastRunAt = nil, want set")
	}

	// The job is no longer due, a second pass publishes nothing.
	sched.dispatchDue(ctx, time.Now().UTC())
	if len(pub.requests) != 1 {
		t.Errorf("published %d requests after second pass, want 1", len(pub.requests))
	}
}

func TestDispatchDueParksUnparseableExpression(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)
	feed := newTestFeed(t, db, tenant.ID)

	// An invalid expression can land in the table through a direct edit,
	// the scheduler must not spin on it.
	past := time.Now().UTC().Add(-time.Minute)
	job := &models.ScheduledJob{
		TenantID:  tenant.ID,
		FeedID:    feed.ID,
		Name:      "Broken schedule",
		CronExpr:  "this is not cron",
		Enabled:   true,
		NextRunAt: &past,
	}
	if err := db.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob() error = %v", err)
	}

	pub := &capturePublisher{}
	sched := NewScheduler(db, pub, &config.SchedulerConfig{CheckInterval: time.Minute})

	now := time.Now().UTC()
	sched.dispatchDue(ctx, now)

	if len(pub.requests) != 0 {
		t.Fatalf("published %d requests, want 0", len(pub.requests))
	}

	updated, err := db.GetJob(ctx, tenant.ID, job.ID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if updated.NextRunAt == nil || !updated.NextRunAt.After(now.Add(23*time.Hour)) {
		t.Errorf("NextRunAt = %v, want parked roughly a day out", updated.NextRunAt)
	}
}

func TestEnqueueManualRun(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)
	feed := newTestFeed(t, db, tenant.ID)

	pub := &capturePublisher{}
	exec, err := Enqueue(ctx, db, pub, tenant.ID, feed.ID, nil, models.TriggerManual)
	if err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	if len(pub.requests) != 1 {
		t.Fatalf("published %d requests, want 1", len(pub.requests))
	}
	if pub.requests[0].ExecutionID != exec.ID {
		t.Errorf("request ExecutionID = %s, want %s", pub.requests[0].ExecutionID, exec.ID)
	}
	if pub.requests[0].Trigger != models.TriggerManual {
		t.Errorf("Trigger = %q, want %q", pub.requests[0].Trigger, models.TriggerManual)
	}

	stored, err := db.GetExecution(ctx, tenant.ID, exec.ID)
	if err != nil {
		t.Fatalf("GetExecution() error = %v", err)
	}
	if stored.JobID != nil {
		t.Errorf("JobID = %v, want nil for manual run", stored.JobID)
	}
	if stored.Status != models.ExecutionPending {
		t.Errorf("Status = %q, want %q", stored.Status, models.ExecutionPending)
	}
}
