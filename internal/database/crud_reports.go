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

const reportColumns = `id, tenant_id, feed_id, source, title, url, resolved_url, excerpt, author,
	published_at, brands, sentiment, topic, reach, engagement, status, dedupe_key, created_at, updated_at`

// marshalBrands encodes the brand list as a JSON array. An empty list
// is stored as "[]" so LIKE-based brand filtering never sees NULL.
func marshalBrands(brands []string) (string, error) {
	if brands == nil {
		brands = []string{}
	}
	data, err := json.Marshal(brands)
	if err != nil {
		return "", fmt.Errorf("failed to marshal brands: %w", err)
	}
	return string(data), nil
}

func scanReport(row interface{ Scan(...any) error }) (*models.Report, error) {
	var (
		r           models.Report
		feedID      *uuid.UUID
		url         sql.NullString
		resolvedURL sql.NullString
		excerpt     sql.NullString
		author      sql.NullString
		publishedAt sql.NullTime
		brandsJSON  sql.NullString
		sentiment   sql.NullString
		topic       sql.NullString
	)
	err := row.Scan(&r.ID, &r.TenantID, &feedID, &r.Source, &r.Title, &url, &resolvedURL,
		&excerpt, &author, &publishedAt, &brandsJSON, &sentiment, &topic,
		&r.Reach, &r.Engagement, &r.Status, &r.DedupeKey, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	r.FeedID = feedID
	r.URL = url.String
	r.ResolvedURL = resolvedURL.String
	r.Excerpt = excerpt.String
	r.Author = author.String
	r.Sentiment = sentiment.String
	r.Topic = topic.String
	if publishedAt.Valid {
		t := publishedAt.Time
		r.PublishedAt = &t
	}
	r.Brands = []string{}
	if brandsJSON.Valid && brandsJSON.String != "" {
		if err := json.Unmarshal([]byte(brandsJSON.String), &r.Brands); err != nil {
			return nil, fmt.Errorf("failed to unmarshal brands: %w", err)
		}
	}
	return &r, nil
}

// InsertReport inserts a report with duplicate handling. Inserts use
// ON CONFLICT DO NOTHING against the (tenant_id, dedupe_key) constraint
// so re-running a feed is idempotent. Returns false when the row was a
// duplicate and nothing was written.
func (db *DB) InsertReport(ctx context.Context, r *models.Report) (bool, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = models.ReportStatusNew
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	brandsJSON, err := marshalBrands(r.Brands)
	if err != nil {
		return false, err
	}

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO reports (`+reportColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (tenant_id, dedupe_key) DO NOTHING`,
		r.ID, r.TenantID, r.FeedID, r.Source, r.Title, r.URL, r.ResolvedURL, r.Excerpt, r.Author,
		r.PublishedAt, brandsJSON, nullIfEmpty(r.Sentiment), nullIfEmpty(r.Topic),
		r.Reach, r.Engagement, r.Status, r.DedupeKey, r.CreatedAt, r.UpdatedAt)
	recordQuery("insert", "reports", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to insert report: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// GetReport fetches a report by ID within a tenant.
func (db *DB) GetReport(ctx context.Context, tenantID, id uuid.UUID) (*models.Report, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ? AND tenant_id = ?`, id, tenantID)
	r, err := scanReport(row)
	recordQuery("select", "reports", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return r, nil
}

// ListReports returns a filtered, paginated page of reports plus the
// total matching count.
func (db *DB) ListReports(ctx context.Context, tenantID uuid.UUID, filter models.ReportFilter, defaultPageSize, maxPageSize int) (*models.ReportsPage, error) {
	normalizePage(&filter, defaultPageSize, maxPageSize)
	where, args := buildReportWhere(tenantID, filter)

	start := time.Now()
	var total int64
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports `+where, args...).Scan(&total)
	recordQuery("select", "reports", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	offset := (filter.Page - 1) * filter.PageSize
	listArgs := append(append([]any{}, args...), filter.PageSize, offset)

	start = time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports `+where+
			` ORDER BY published_at DESC NULLS LAST, created_at DESC LIMIT ? OFFSET ?`,
		listArgs...)
	recordQuery("select", "reports", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer closeQuietly(rows)

	reports := []models.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.PageSize) - 1) / int64(filter.PageSize))
	return &models.ReportsPage{
		Reports: reports,
		Pagination: models.PageInfo{
			Page:       filter.Page,
			PageSize:   filter.PageSize,
			TotalCount: total,
			TotalPages: totalPages,
		},
	}, nil
}

// UpdateReport updates the editable fields: title, sentiment, topic,
// brands, status, reach, and engagement.
func (db *DB) UpdateReport(ctx context.Context, r *models.Report) error {
	r.UpdatedAt = time.Now().UTC()

	brandsJSON, err := marshalBrands(r.Brands)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE reports SET title = ?, sentiment = ?, topic = ?, brands = ?, status = ?,
			reach = ?, engagement = ?, updated_at = ?
		 WHERE id = ? AND tenant_id = ?`,
		r.Title, nullIfEmpty(r.Sentiment), nullIfEmpty(r.Topic), brandsJSON, r.Status,
		r.Reach, r.Engagement, r.UpdatedAt, r.ID, r.TenantID)
	recordQuery("update", "reports", start, err)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	return requireRowAffected(res)
}

// UpdateReportEnrichment writes the LLM output for a report.
func (db *DB) UpdateReportEnrichment(ctx context.Context, tenantID, id uuid.UUID, sentiment, topic string, brands []string) error {
	brandsJSON, err := marshalBrands(brands)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE reports SET sentiment = ?, topic = ?, brands = ?, updated_at = ?
		 WHERE id = ? AND tenant_id = ?`,
		nullIfEmpty(sentiment), nullIfEmpty(topic), brandsJSON, time.Now().UTC(), id, tenantID)
	recordQuery("update", "reports", start, err)
	if err != nil {
		return fmt.Errorf("failed to update report enrichment: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteReport removes a report and its list memberships.
func (db *DB) DeleteReport(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM list_items WHERE report_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete list memberships: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM reports WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if err := requireRowAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}

// ReportsForExport returns all reports matching the filter without
// pagination, ordered by publication time. Used by CSV/Excel export and
// summary generation.
func (db *DB) ReportsForExport(ctx context.Context, tenantID uuid.UUID, filter models.ReportFilter, limit int) ([]models.Report, error) {
	where, args := buildReportWhere(tenantID, filter)
	args = append(args, limit)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports `+where+
			` ORDER BY published_at DESC NULLS LAST, created_at DESC LIMIT ?`, args...)
	recordQuery("select", "reports", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports for export: %w", err)
	}
	defer closeQuietly(rows)

	reports := []models.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

// nullIfEmpty maps empty strings to NULL so enum columns stay clean.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
