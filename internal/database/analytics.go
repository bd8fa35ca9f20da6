// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/models"
)

// AnalyticsOverview aggregates headline numbers for a tenant and range.
type AnalyticsOverview struct {
	TotalReports    int64 `json:"total_reports"`
	TotalReach      int64 `json:"total_reach"`
	TotalEngagement int64 `json:"total_engagement"`
	BrandsTracked   int64 `json:"brands_tracked"`
	FeedsConfigured int64 `json:"feeds_configured"`
}

// MentionPoint is one day in the mention volume series.
type MentionPoint struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

// SentimentBreakdown reports counts and percentages per sentiment.
// Percentages are rounded to one decimal and corrected so they always
// sum to exactly 100.0 when any reports exist.
type SentimentBreakdown struct {
	Positive SentimentSlice `json:"positive"`
	Neutral  SentimentSlice `json:"neutral"`
	Negative SentimentSlice `json:"negative"`
	Unrated  SentimentSlice `json:"unrated"`
	Total    int64          `json:"total"`
}

// SentimentSlice is one sentiment's share.
type SentimentSlice struct {
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

// BrandCount is one brand's mention count.
type BrandCount struct {
	Brand string `json:"brand"`
	Count int64  `json:"count"`
}

// SourceCount is one source's report count and share.
type SourceCount struct {
	Source  string  `json:"source"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

// ReachPoint is one day in the reach series.
type ReachPoint struct {
	Day        time.Time `json:"day"`
	Reach      int64     `json:"reach"`
	Engagement int64     `json:"engagement"`
}

// analyticsWhere scopes analytics queries by tenant and optional range.
func analyticsWhere(tenantID uuid.UUID, from, to *time.Time) (string, []any) {
	where := "WHERE tenant_id = ?"
	args := []any{tenantID}
	if from != nil {
		where += " AND published_at >= ?"
		args = append(args, *from)
	}
	if to != nil {
		where += " AND published_at <= ?"
		args = append(args, *to)
	}
	return where, args
}

// Overview returns headline totals for a tenant.
func (db *DB) Overview(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) (*AnalyticsOverview, error) {
	where, args := analyticsWhere(tenantID, from, to)

	var o AnalyticsOverview
	start := time.Now()
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(reach), 0), COALESCE(SUM(engagement), 0) FROM reports `+where,
		args...).Scan(&o.TotalReports, &o.TotalReach, &o.TotalEngagement)
	recordQuery("select", "reports", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query overview totals: %w", err)
	}

	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM brand_configs WHERE tenant_id = ? AND NOT ignored`, tenantID).Scan(&o.BrandsTracked); err != nil {
		return nil, fmt.Errorf("failed to count brands: %w", err)
	}
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM feed_configs WHERE tenant_id = ?`, tenantID).Scan(&o.FeedsConfigured); err != nil {
		return nil, fmt.Errorf("failed to count feeds: %w", err)
	}

	return &o, nil
}

// MentionSeries returns the per-day report counts for a tenant. Days
// without reports are absent from the result; clients render them as
// zero.
func (db *DB) MentionSeries(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]MentionPoint, error) {
	where, args := analyticsWhere(tenantID, from, to)
	where += " AND published_at IS NOT NULL"

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT date_trunc('day', published_at) AS day, COUNT(*)
		 FROM reports `+where+`
		 GROUP BY day ORDER BY day`, args...)
	recordQuery("select", "reports", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query mention series: %w", err)
	}
	defer closeQuietly(rows)

	points := []MentionPoint{}
	for rows.Next() {
		var p MentionPoint
		if err := rows.Scan(&p.Day, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan mention point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Sentiment returns the sentiment breakdown for a tenant. Percentages
// sum to exactly 100.0 whenever total > 0.
func (db *DB) Sentiment(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) (*SentimentBreakdown, error) {
	where, args := analyticsWhere(tenantID, from, to)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT COALESCE(sentiment, ''), COUNT(*) FROM reports `+where+` GROUP BY sentiment`, args...)
	recordQuery("select", "reports", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query sentiment breakdown: %w", err)
	}
	defer closeQuietly(rows)

	var b SentimentBreakdown
	for rows.Next() {
		var (
			sentiment string
			count     int64
		)
		if err := rows.Scan(&sentiment, &count); err != nil {
			return nil, fmt.Errorf("failed to scan sentiment row: %w", err)
		}
		b.Total += count
		switch sentiment {
		case models.SentimentPositive:
			b.Positive.Count = count
		case models.SentimentNeutral:
			b.Neutral.Count = count
		case models.SentimentNegative:
			b.Negative.Count = count
		default:
			b.Unrated.Count += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if b.Total > 0 {
		slices := []*SentimentSlice{&b.Positive, &b.Neutral, &b.Negative, &b.Unrated}
		var sum float64
		var largest *SentimentSlice
		for _, s := range slices {
			s.Percent = roundPercent(float64(s.Count) * 100 / float64(b.Total))
			sum += s.Percent
			if largest == nil || s.Count > largest.Count {
				largest = s
			}
		}
		// Rounding drift lands on the largest slice so the total is 100
		largest.Percent = roundPercent(largest.Percent + (100 - sum))
	}

	return &b, nil
}

// roundPercent rounds to one decimal place.
func roundPercent(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}

// TopBrands returns the most-mentioned brands in stored reports.
func (db *DB) TopBrands(ctx context.Context, tenantID uuid.UUID, from, to *time.Time, limit int) ([]BrandCount, error) {
	if limit < 1 {
		limit = 10
	}
	where, args := analyticsWhere(tenantID, from, to)
	args = append(args, limit)

	// brands is a JSON array column; DuckDB casts the bracketed text
	// straight to a VARCHAR list for unnesting
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT b.brand, COUNT(*) AS cnt
		 FROM (
			SELECT unnest(CAST(brands AS VARCHAR[])) AS brand
			FROM reports `+where+`
		 ) b
		 GROUP BY b.brand ORDER BY cnt DESC, b.brand LIMIT ?`, args...)
	recordQuery("select", "reports", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query top brands: %w", err)
	}
	defer closeQuietly(rows)

	counts := []BrandCount{}
	for rows.Next() {
		var c BrandCount
		if err := rows.Scan(&c.Brand, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan brand count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// SourceBreakdown returns report counts and share per source.
func (db *DB) SourceBreakdown(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]SourceCount, error) {
	where, args := analyticsWhere(tenantID, from, to)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT source, COUNT(*) FROM reports `+where+` GROUP BY source ORDER BY COUNT(*) DESC`, args...)
	recordQuery("select", "reports", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query source breakdown: %w", err)
	}
	defer closeQuietly(rows)

	counts := []SourceCount{}
	var total int64
	for rows.Next() {
		var c SourceCount
		if err := rows.Scan(&c.Source, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		total += c.Count
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range counts {
		if total > 0 {
			counts[i].Percent = roundPercent(float64(counts[i].Count) * 100 / float64(total))
		}
	}
	return counts, nil
}

// ReachSeries returns per-day reach and engagement sums.
func (db *DB) ReachSeries(ctx context.Context, tenantID uuid.UUID, from, to *time.Time) ([]ReachPoint, error) {
	where, args := analyticsWhere(tenantID, from, to)
	where += " AND published_at IS NOT NULL"

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT date_trunc('day', published_at) AS day, SUM(reach), SUM(engagement)
		 FROM reports `+where+`
		 GROUP BY day ORDER BY day`, args...)
	recordQuery("select", "reports", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to query reach series: %w", err)
	}
	defer closeQuietly(rows)

	points := []ReachPoint{}
	for rows.Next() {
		var p ReachPoint
		if err := rows.Scan(&p.Day, &p.Reach, &p.Engagement); err != nil {
			return nil, fmt.Errorf("failed to scan reach point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
