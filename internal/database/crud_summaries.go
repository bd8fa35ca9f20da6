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

const summaryColumns = `id, tenant_id, title, period_start, period_end, status,
	pdf_path, report_count, generated_by, error, created_at`

func scanSummary(row interface{ Scan(...any) error }) (*models.Summary, error) {
	var (
		s       models.Summary
		pdfPath sql.NullString
		errText sql.NullString
	)
	err := row.Scan(&s.ID, &s.TenantID, &s.Title, &s.PeriodStart, &s.PeriodEnd,
		&s.Status, &pdfPath, &s.ReportCount, &s.GeneratedBy, &errText, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.PDFPath = pdfPath.String
	s.Error = errText.String
	return &s, nil
}

// CreateSummary inserts a pending summary row before generation starts.
func (db *DB) CreateSummary(ctx context.Context, s *models.Summary) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = models.SummaryPending
	}
	s.CreatedAt = time.Now().UTC()

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO summaries (`+summaryColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.TenantID, s.Title, s.PeriodStart, s.PeriodEnd, s.Status,
		nullIfEmpty(s.PDFPath), s.ReportCount, s.GeneratedBy, nullIfEmpty(s.Error), s.CreatedAt)
	recordQuery("insert", "summaries", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert summary: %w", err)
	}
	return nil
}

// GetSummary fetches a summary by ID within a tenant.
func (db *DB) GetSummary(ctx context.Context, tenantID, id uuid.UUID) (*models.Summary, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+summaryColumns+` FROM summaries WHERE id = ? AND tenant_id = ?`, id, tenantID)
	s, err := scanSummary(row)
	recordQuery("select", "summaries", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return s, nil
}

// ListSummaries returns summaries in a tenant, newest first.
func (db *DB) ListSummaries(ctx context.Context, tenantID uuid.UUID) ([]models.Summary, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+summaryColumns+` FROM summaries WHERE tenant_id = ? ORDER BY created_at DESC`, tenantID)
	recordQuery("select", "summaries", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer closeQuietly(rows)

	summaries := []models.Summary{}
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, *s)
	}
	return summaries, rows.Err()
}

// FinishSummary records the outcome of a summary generation.
func (db *DB) FinishSummary(ctx context.Context, s *models.Summary) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE summaries SET status = ?, pdf_path = ?, report_count = ?, error = ? WHERE id = ?`,
		s.Status, nullIfEmpty(s.PDFPath), s.ReportCount, nullIfEmpty(s.Error), s.ID)
	recordQuery("update", "summaries", start, err)
	if err != nil {
		return fmt.Errorf("failed to finish summary: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteSummary removes a summary row. The caller is responsible for
// removing the PDF file.
func (db *DB) DeleteSummary(ctx context.Context, tenantID, id uuid.UUID) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM summaries WHERE id = ? AND tenant_id = ?`, id, tenantID)
	recordQuery("delete", "summaries", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete summary: %w", err)
	}
	return requireRowAffected(res)
}
