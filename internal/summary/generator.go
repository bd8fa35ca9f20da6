// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package summary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/database"
	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/metrics"
	"github.com/abmc/earned-media/internal/models"
	"github.com/abmc/earned-media/internal/realtime"
)

const generateTimeout = 2 * time.Minute

// Request describes one summary to generate.
type Request struct {
	TenantID    uuid.UUID
	Title       string
	PeriodStart time.Time
	PeriodEnd   time.Time
	GeneratedBy uuid.UUID
}

// Generator produces PDF summary documents covering a date range of
// reports. Generation runs in the background; the pending Summary row
// is returned immediately and its completion is announced over the
// realtime hub.
type Generator struct {
	db         *database.DB
	hub        *realtime.Hub
	dir        string
	maxReports int
	wg         sync.WaitGroup
}

// NewGenerator creates the generator and its output directory.
func NewGenerator(db *database.DB, hub *realtime.Hub, cfg *config.SummariesConfig) (*Generator, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("summaries directory is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create summaries directory: %w", err)
	}
	maxReports := cfg.MaxReports
	if maxReports <= 0 {
		maxReports = 500
	}
	return &Generator{db: db, hub: hub, dir: cfg.Dir, maxReports: maxReports}, nil
}

// Enqueue records a pending summary and starts generation in the
// background.
func (g *Generator) Enqueue(ctx context.Context, req Request) (*models.Summary, error) {
	s := &models.Summary{
		TenantID:    req.TenantID,
		Title:       req.Title,
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		GeneratedBy: req.GeneratedBy,
	}
	if err := g.db.CreateSummary(ctx, s); err != nil {
		return nil, fmt.Errorf("create summary: %w", err)
	}

	pending := *s
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		runCtx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		g.run(runCtx, s)
	}()
	return &pending, nil
}

// Wait blocks until in-flight generations finish. Called on shutdown.
func (g *Generator) Wait() {
	g.wg.Wait()
}

// PDFFilePath returns the absolute path of a generated document.
func (g *Generator) PDFFilePath(s *models.Summary) string {
	return filepath.Join(g.dir, s.PDFPath)
}

func (g *Generator) run(ctx context.Context, s *models.Summary) {
	start := time.Now()
	err := g.generate(ctx, s)

	if err != nil {
		s.Status = models.SummaryFailed
		s.Error = err.Error()
		logging.Error().Err(err).
			Str("summary_id", s.ID.String()).
			Msg("Summary generation failed")
	} else {
		s.Status = models.SummaryGenerated
		logging.Info().
			Str("summary_id", s.ID.String()).
			Int("report_count", s.ReportCount).
			Dur("duration", time.Since(start)).
			Msg("Summary generated")
	}

	if finishErr := g.db.FinishSummary(ctx, s); finishErr != nil {
		logging.Error().Err(finishErr).
			Str("summary_id", s.ID.String()).
			Msg("Failed to record summary outcome")
	}

	result := "success"
	eventType := realtime.EventTypeSummaryReady
	errText := ""
	if err != nil {
		result = "error"
		eventType = realtime.EventTypeSummaryFailed
		errText = err.Error()
	}
	metrics.RecordSummaryGeneration(time.Since(start), result)

	if g.hub != nil {
		g.hub.Broadcast(realtime.Event{
			Type:     eventType,
			TenantID: s.TenantID,
			Data: realtime.SummaryReadyData{
				SummaryID:   s.ID,
				Title:       s.Title,
				ReportCount: s.ReportCount,
				Error:       errText,
			},
		})
	}
}

// generate collects the period's analytics and reports and writes the
// PDF. On success it fills PDFPath and ReportCount on the summary.
func (g *Generator) generate(ctx context.Context, s *models.Summary) error {
	from, to := s.PeriodStart, s.PeriodEnd

	overview, err := g.db.Overview(ctx, s.TenantID, &from, &to)
	if err != nil {
		return fmt.Errorf("load overview: %w", err)
	}
	sentiment, err := g.db.Sentiment(ctx, s.TenantID, &from, &to)
	if err != nil {
		return fmt.Errorf("load sentiment: %w", err)
	}
	topBrands, err := g.db.TopBrands(ctx, s.TenantID, &from, &to, 10)
	if err != nil {
		return fmt.Errorf("load top brands: %w", err)
	}

	filter := models.ReportFilter{From: &from, To: &to}
	reports, err := g.db.ReportsForExport(ctx, s.TenantID, filter, g.maxReports)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}
	s.ReportCount = len(reports)

	doc := buildDocument(s, overview, sentiment, topBrands, reports)

	filename := fmt.Sprintf("summary-%s.pdf", s.ID)
	if err := doc.OutputFileAndClose(filepath.Join(g.dir, filename)); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	s.PDFPath = filename
	return nil
}
