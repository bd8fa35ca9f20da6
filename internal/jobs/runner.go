// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/database"
	"github.com/abmc/earned-media/internal/enrich"
	"github.com/abmc/earned-media/internal/ingest"
	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/metrics"
	"github.com/abmc/earned-media/internal/models"
	"github.com/abmc/earned-media/internal/realtime"
)

// progressEvery controls how often a progress event is pushed while
// items are being stored.
const progressEvery = 10

// Runner executes one ingestion job end to end: fetch from the provider,
// resolve aggregator URLs, enrich, and store with deduplication. It is
// the handler behind the queue subscriber.
type Runner struct {
	db       *database.DB
	registry *ingest.Registry
	resolver *ingest.Resolver
	enricher *enrich.Enricher
	hub      *realtime.Hub
	timeout  time.Duration
}

// NewRunner wires the ingestion pipeline. The timeout bounds one whole
// execution including provider fetch and enrichment.
func NewRunner(db *database.DB, registry *ingest.Registry, resolver *ingest.Resolver, enricher *enrich.Enricher, hub *realtime.Hub, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Runner{
		db:       db,
		registry: registry,
		resolver: resolver,
		enricher: enricher,
		hub:      hub,
		timeout:  timeout,
	}
}

// Run processes one job request. It returns nil when the execution
// reached a terminal state, even a failed one, so the queue does not
// redeliver runs that failed for non-transient reasons. Only infra
// errors before the execution could be claimed propagate for redelivery.
func (r *Runner) Run(ctx context.Context, req *models.JobRequest) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	startedAt := time.Now().UTC()
	if err := r.db.StartExecution(ctx, req.ExecutionID, startedAt); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Already claimed by another worker or deleted, nothing to do.
			logging.Warn().
				Str("execution_id", req.ExecutionID.String()).
				Msg("Skipping execution that is not pending")
			return nil
		}
		return fmt.Errorf("claim execution %s: %w", req.ExecutionID, err)
	}

	exec := &models.JobExecution{
		ID:       req.ExecutionID,
		TenantID: req.TenantID,
		FeedID:   req.FeedID,
		Trigger:  req.Trigger,
	}

	feed, err := r.db.GetFeed(ctx, req.TenantID, req.FeedID)
	if err != nil {
		r.finish(ctx, exec, "", startedAt, fmt.Errorf("load feed: %w", err))
		return nil
	}

	r.hub.Broadcast(realtime.Event{
		Type:     realtime.EventTypeIngestStarted,
		TenantID: req.TenantID,
		Data: realtime.IngestProgressData{
			ExecutionID: exec.ID,
			FeedID:      feed.ID,
			FeedName:    feed.Name,
			Source:      feed.Provider,
		},
	})

	provider, err := r.registry.Get(feed.Provider)
	if err != nil {
		r.finish(ctx, exec, feed.Provider, startedAt, err)
		return nil
	}

	items, err := provider.Fetch(ctx, feed)
	if err != nil {
		r.finish(ctx, exec, feed.Provider, startedAt, fmt.Errorf("fetch from %s: %w", feed.Provider, err))
		return nil
	}
	exec.ItemsFound = len(items)

	brands, err := r.db.ListBrands(ctx, req.TenantID)
	if err != nil {
		r.finish(ctx, exec, feed.Provider, startedAt, fmt.Errorf("load brands: %w", err))
		return nil
	}
	matcher := enrich.NewMatcher(brands)

	for i := range items {
		if ctx.Err() != nil {
			r.finish(ctx, exec, feed.Provider, startedAt, ctx.Err())
			return nil
		}
		r.storeItem(ctx, exec, feed, matcher, &items[i])

		if (i+1)%progressEvery == 0 {
			r.broadcastProgress(realtime.EventTypeIngestProgress, exec, feed, "")
		}
	}

	r.finish(ctx, exec, feed.Provider, startedAt, nil)

	if err := r.db.TouchFeedLastRun(ctx, req.TenantID, feed.ID, time.Now().UTC()); err != nil {
		logging.Warn().Err(err).Str("feed_id", feed.ID.String()).
			Msg("Failed to record feed last run")
	}
	return nil
}

// storeItem resolves, enriches, and inserts one fetched item, updating
// the execution counters. Item-level failures never abort the run.
func (r *Runner) storeItem(ctx context.Context, exec *models.JobExecution, feed *models.FeedConfig, matcher *enrich.Matcher, item *ingest.Item) {
	resolvedURL := item.URL
	if r.resolver != nil && item.URL != "" {
		if resolved, err := r.resolver.Resolve(ctx, item.URL); err == nil {
			resolvedURL = resolved
		}
	}

	result := r.enricher.Enrich(ctx, item.Title, item.Excerpt, matcher)

	feedID := feed.ID
	report := &models.Report{
		ID:          uuid.New(),
		TenantID:    exec.TenantID,
		FeedID:      &feedID,
		Source:      item.Source,
		Title:       item.Title,
		URL:         item.URL,
		ResolvedURL: resolvedURL,
		Excerpt:     item.Excerpt,
		Author:      item.Author,
		PublishedAt: item.PublishedAt,
		Brands:      result.Brands,
		Sentiment:   result.Sentiment,
		Topic:       result.Topic,
		Reach:       item.Reach,
		Engagement:  item.Engagement,
		DedupeKey:   item.DedupeKey(resolvedURL),
		Status:      models.ReportStatusNew,
	}

	inserted, err := r.db.InsertReport(ctx, report)
	if err != nil {
		exec.ItemsFailed++
		logging.Error().Err(err).
			Str("execution_id", exec.ID.String()).
			Str("url", item.URL).
			Msg("Failed to store report")
		return
	}
	if !inserted {
		exec.ItemsDuplicate++
		return
	}
	exec.ItemsIngested++

	if len(result.Brands) > 0 {
		if err := r.db.IncrementBrandMentions(ctx, exec.TenantID, result.Brands); err != nil {
			logging.Warn().Err(err).
				Str("execution_id", exec.ID.String()).
				Msg("Failed to increment brand mentions")
		}
	}
}

// finish records the terminal state, emits metrics, and pushes the
// completion or failure event.
func (r *Runner) finish(ctx context.Context, exec *models.JobExecution, source string, startedAt time.Time, runErr error) {
	finishedAt := time.Now().UTC()
	exec.FinishedAt = &finishedAt
	if runErr != nil {
		exec.Status = models.ExecutionFailed
		exec.Error = runErr.Error()
	} else {
		exec.Status = models.ExecutionSucceeded
	}

	// Persist terminal state even when the run's own context expired.
	finishCtx := ctx
	if finishCtx.Err() != nil {
		var cancel context.CancelFunc
		finishCtx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}
	if err := r.db.FinishExecution(finishCtx, exec); err != nil {
		logging.Error().Err(err).
			Str("execution_id", exec.ID.String()).
			Msg("Failed to finish execution")
	}

	if source != "" {
		metrics.RecordIngestRun(source, time.Since(startedAt),
			exec.ItemsFound, exec.ItemsIngested, exec.ItemsDuplicate, runErr)
	}

	eventType := realtime.EventTypeIngestCompleted
	errText := ""
	if runErr != nil {
		eventType = realtime.EventTypeIngestFailed
		errText = runErr.Error()
		logging.Error().Err(runErr).
			Str("execution_id", exec.ID.String()).
			Str("source", source).
			Msg("Ingestion run failed")
	} else {
		logging.Info().
			Str("execution_id", exec.ID.String()).
			Str("source", source).
			Int("items_found", exec.ItemsFound).
			Int("items_ingested", exec.ItemsIngested).
			Int("items_duplicate", exec.ItemsDuplicate).
			Int("items_failed", exec.ItemsFailed).
			Dur("duration", time.Since(startedAt)).
			Msg("Ingestion run completed")
	}

	r.broadcastProgress(eventType, exec, nil, errText)
}

func (r *Runner) broadcastProgress(eventType string, exec *models.JobExecution, feed *models.FeedConfig, errText string) {
	data := realtime.IngestProgressData{
		ExecutionID:    exec.ID,
		FeedID:         exec.FeedID,
		ItemsFound:     exec.ItemsFound,
		ItemsIngested:  exec.ItemsIngested,
		ItemsDuplicate: exec.ItemsDuplicate,
		ItemsFailed:    exec.ItemsFailed,
		Error:          errText,
	}
	if feed != nil {
		data.FeedName = feed.Name
		data.Source = feed.Provider
	}
	r.hub.Broadcast(realtime.Event{
		Type:     eventType,
		TenantID: exec.TenantID,
		Data:     data,
	})
}
