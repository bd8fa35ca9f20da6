// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/database"
	"github.com/abmc/earned-media/internal/enrich"
	"github.com/abmc/earned-media/internal/ingest"
	"github.com/abmc/earned-media/internal/models"
	"github.com/abmc/earned-media/internal/realtime"
)

// fakeProvider returns canned items or a canned error.
type fakeProvider struct {
	name  string
	items []ingest.Item
	err   error
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Fetch(_ context.Context, _ *models.FeedConfig) ([]ingest.Item, error) {
	p.calls++
	return p.items, p.err
}

func newTestHub(t *testing.T) *realtime.Hub {
	t.Helper()

	hub := realtime.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("hub did not stop")
		}
	})
	return hub
}

func pendingExecution(t *testing.T, db *database.DB, tenantID, feedID uuid.UUID, trigger string) *models.JobExecution {
	t.Helper()

	exec := &models.JobExecution{
		ID:       uuid.New(),
		TenantID: tenantID,
		FeedID:   feedID,
		Trigger:  trigger,
	}
	if err := db.CreateExecution(context.Background(), exec); err != nil {
		t.Fatalf("CreateExecution() error = %v", err)
	}
	return exec
}

func collectEvents(sub *realtime.Subscription, want int, timeout time.Duration) []realtime.Event {
	events := make([]realtime.Event, 0, want)
	deadline := time.After(timeout)
	for len(events) < want {
		select {
		case ev, ok := <-sub.Events:
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-deadline:
			return events
		}
	}
	return events
}

func TestRunnerStoresEnrichedItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)
	feed := newTestFeed(t, db, tenant.ID)

	if err := db.CreateBrand(ctx, &models.BrandConfig{
		TenantID: tenant.ID,
		Name:     "Acme",
		Aliases:  []string{"Acme Corp"},
	}); err != nil {
		t.Fatalf("CreateBrand() error = %v", err)
	}

	published := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	provider := &fakeProvider{
		name: "rss",
		items: []ingest.Item{
			{
				Source:      "rss",
				Title:       "Acme launches a new product line",
				URL:         "https://news.example.com/acme-launch",
				Excerpt:     "Acme Corp announced a launch today.",
				Author:      "Jo Reporter",
				PublishedAt: &published,
				Reach:       1200,
			},
			{
				Source:  "rss",
				Title:   "Unrelated market wrap",
				URL:     "https://news.example.com/market-wrap",
				Excerpt: "Indexes were broadly flat.",
			},
		},
	}

	hub := newTestHub(t)
	sub, cancel := hub.Subscribe(tenant.ID, false)
	defer cancel()

	runner := NewRunner(db, ingest.NewRegistry(provider), nil, enrich.NewEnricher(nil), hub, time.Minute)

	exec := pendingExecution(t, db, tenant.ID, feed.ID, models.TriggerManual)
	req := &models.JobRequest{
		ExecutionID: exec.ID,
		TenantID:    tenant.ID,
		FeedID:      feed.ID,
		Trigger:     models.TriggerManual,
	}
	if err := runner.Run(ctx, req); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := db.GetExecution(ctx, tenant.ID, exec.ID)
	if err != nil {
		t.Fatalf("GetExecution() error = %v", err)
	}
	if got.Status != models.ExecutionSucceeded {
		t.Fatalf("Status = %q (error %q), want %q", got.Status, got.Error, models.ExecutionSucceeded)
	}
	if got.ItemsFound != 2 || got.ItemsIngested != 2 || got.ItemsDuplicate != 0 || got.ItemsFailed != 0 {
		t.Errorf("counters = found %d ingested %d duplicate %d failed %d, want 2/2/0/0",
			got.ItemsFound, got.ItemsIngested, got.ItemsDuplicate, got.ItemsFailed)
	}
	if got.StartedAt == nil || got.FinishedAt == nil {
		t.Error("StartedAt or FinishedAt not set")
	}

	page, err := db.ListReports(ctx, tenant.ID, models.ReportFilter{Brand: "Acme"}, 20, 100)
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	if len(page.Reports) != 1 {
		t.Fatalf("reports tagged Acme = %d, want 1", len(page.Reports))
	}
	report := page.Reports[0]
	if report.Source != "rss" || report.Reach != 1200 {
		t.Errorf("report = source %q reach %d, want rss 1200", report.Source, report.Reach)
	}
	if report.Status != models.ReportStatusNew {
		t.Errorf("report Status = %q, want %q", report.Status, models.ReportStatusNew)
	}

	brands, err := db.ListBrands(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("ListBrands() error = %v", err)
	}
	if len(brands) != 1 || brands[0].MentionCount != 1 {
		t.Errorf("brand mention count = %v, want 1", brands)
	}

	updatedFeed, err := db.GetFeed(ctx, tenant.ID, feed.ID)
	if err != nil {
		t.Fatalf("GetFeed() error = %v", err)
	}
	if updatedFeed.LastRunAt == nil {
		t.Error("feed LastRunAt = nil, want set")
	}

	events := collectEvents(sub, 2, 2*time.Second)
	if len(events) < 2 {
		t.Fatalf("received %d events, want at least 2", len(events))
	}
	if events[0].Type != realtime.EventTypeIngestStarted {
		t.Errorf("first event = %q, want %q", events[0].Type, realtime.EventTypeIngestStarted)
	}
	last := events[len(events)-1]
	if last.Type != realtime.EventTypeIngestCompleted {
		t.Errorf("last event = %q, want %q", last.Type, realtime.EventTypeIngestCompleted)
	}
}

func TestRunnerCountsDuplicatesOnRerun(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)
	feed := newTestFeed(t, db, tenant.ID)

	provider := &fakeProvider{
		name: "rss",
		items: []ingest.Item{
			{Source: "rss", Title: "Story one", URL: "https://example.com/one"},
			{Source: "rss", Title: "Story two", URL: "https://example.com/two"},
		},
	}

	runner := NewRunner(db, ingest.NewRegistry(provider), nil, enrich.NewEnricher(nil), newTestHub(t), time.Minute)

	first := pendingExecution(t, db, tenant.ID, feed.ID, models.TriggerManual)
	if err := runner.Run(ctx, &models.JobRequest{
		ExecutionID: first.ID, TenantID: tenant.ID, FeedID: feed.ID, Trigger: models.TriggerManual,
	}); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	second := pendingExecution(t, db, tenant.ID, feed.ID, models.TriggerManual)
	if err := runner.Run(ctx, &models.JobRequest{
		ExecutionID: second.ID, TenantID: tenant.ID, FeedID: feed.ID, Trigger: models.TriggerManual,
	}); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	got, err := db.GetExecution(ctx, tenant.ID, second.ID)
	if err != nil {
		t.Fatalf("GetExecution() error = %v", err)
	}
	if got.ItemsIngested != 0 || got.ItemsDuplicate != 2 {
		t.Errorf("rerun counters = ingested %d duplicate %d, want 0/2", got.ItemsIngested, got.ItemsDuplicate)
	}
	if got.Status != models.ExecutionSucceeded {
		t.Errorf("Status = %q, want %q", got.Status, models.ExecutionSucceeded)
	}
}

func TestRunnerRecordsProviderFailure(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)
	feed := newTestFeed(t, db, tenant.ID)

	provider := &fakeProvider{name: "rss", err: errors.New("upstream returned 503")}

	hub := newTestHub(t)
	sub, cancel := hub.Subscribe(tenant.ID, false)
	defer cancel()

	runner := NewRunner(db, ingest.NewRegistry(provider), nil, enrich.NewEnricher(nil), hub, time.Minute)

	exec := pendingExecution(t, db, tenant.ID, feed.ID, models.TriggerSchedule)
	if err := runner.Run(ctx, &models.JobRequest{
		ExecutionID: exec.ID, TenantID: tenant.ID, FeedID: feed.ID, Trigger: models.TriggerSchedule,
	}); err != nil {
		t.Fatalf("Run() error = %v, want nil for a recorded failure", err)
	}

	got, err := db.GetExecution(ctx, tenant.ID, exec.ID)
	if err != nil {
		t.Fatalf("GetExecution() error = %v", err)
	}
	if got.Status != models.ExecutionFailed {
		t.Errorf("Status = %q, want %q", got.Status, models.ExecutionFailed)
	}
	if got.Error == "" {
		t.Error("Error = empty, want failure text")
	}

	events := collectEvents(sub, 2, 2*time.Second)
	if len(events) < 2 {
		t.Fatalf("received %d events, want at least 2", len(events))
	}
	if events[len(events)-1].Type != realtime.EventTypeIngestFailed {
		t.Errorf("last event = %q, want %q", events[len(events)-1].Type, realtime.EventTypeIngestFailed)
	}
}

func TestRunnerSkipsAlreadyClaimedExecution(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)
	feed := newTestFeed(t, db, tenant.ID)

	provider := &fakeProvider{name: "rss"}
	runner := NewRunner(db, ingest.NewRegistry(provider), nil, enrich.NewEnricher(nil), newTestHub(t), time.Minute)

	exec := pendingExecution(t, db, tenant.ID, feed.ID, models.TriggerManual)
	if err := db.StartExecution(ctx, exec.ID, time.Now().UTC()); err != nil {
		t.Fatalf("StartExecution() error = %v", err)
	}

	// A redelivered message for a running execution is acked untouched.
	if err := runner.Run(ctx, &models.JobRequest{
		ExecutionID: exec.ID, TenantID: tenant.ID, FeedID: feed.ID, Trigger: models.TriggerManual,
	}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider fetched %d times, want 0", provider.calls)
	}
}

func TestRunnerFailsUnknownProvider(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)

	feed := &models.FeedConfig{
		TenantID: tenant.ID,
		Name:     "Mystery source",
		Provider: "telegraph",
		Enabled:  true,
	}
	if err := db.CreateFeed(ctx, feed); err != nil {
		t.Fatalf("CreateFeed() error = %v", err)
	}

	runner := NewRunner(db, ingest.NewRegistry(), nil, enrich.NewEnricher(nil), newTestHub(t), time.Minute)

	exec := pendingExecution(t, db, tenant.ID, feed.ID, models.TriggerManual)
	if err := runner.Run(ctx, &models.JobRequest{
		ExecutionID: exec.ID, TenantID: tenant.ID, FeedID: feed.ID, Trigger: models.TriggerManual,
	}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got, err := db.GetExecution(ctx, tenant.ID, exec.ID)
	if err != nil {
		t.Fatalf("GetExecution() error = %v", err)
	}
	if got.Status != models.ExecutionFailed {
		t.Errorf("Status = %q, want %q", got.Status, models.ExecutionFailed)
	}
}
