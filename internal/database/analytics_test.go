// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/models"
)

func seedReports(t *testing.T, db *DB, tenantID uuid.UUID, sentiments []string) {
	t.Helper()

	for i, s := range sentiments {
		r := newTestReport(tenantID, "Seeded", uuid.NewString())
		r.Sentiment = s
		r.Brands = []string{"Acme", "Globex"}
		r.Reach = int64(100 * (i + 1))
		r.Engagement = int64(10 * (i + 1))
		published := time.Date(2026, 8, 1+i%5, 9, 0, 0, 0, time.UTC)
		r.PublishedAt = &published
		if _, err := db.InsertReport(context.Background(), r); err != nil {
			t.Fatalf("InsertReport() error = %v", err)
		}
	}
}

func TestOverview(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)

	seedReports(t, db, tenant.ID, []string{
		models.SentimentPositive, models.SentimentNeutral, models.SentimentNegative,
	})

	ov, err := db.Overview(ctx, tenant.ID, nil, nil)
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if ov.TotalReports != 3 {
		t.Errorf("TotalReports = %d, want 3", ov.TotalReports)
	}
	if ov.TotalReach != 600 {
		t.Errorf("TotalReach = %d, want 600", ov.TotalReach)
	}
	if ov.TotalEngagement != 60 {
		t.Errorf("TotalEngagement = %d, want 60", ov.TotalEngagement)
	}
}

func TestSentimentPercentagesSumToHundred(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)

	// 3 slices of 7 reports produce repeating decimals that only sum
	// to 100 after the drift correction.
	sentiments := make([]string, 0, 7)
	for i := 0; i < 3; i++ {
		sentiments = append(sentiments, models.SentimentPositive)
	}
	for i := 0; i < 2; i++ {
		sentiments = append(sentiments, models.SentimentNeutral)
	}
	for i := 0; i < 2; i++ {
		sentiments = append(sentiments, models.SentimentNegative)
	}
	seedReports(t, db, tenant.ID, sentiments)

	breakdown, err := db.Sentiment(ctx, tenant.ID, nil, nil)
	if err != nil {
		t.Fatalf("Sentiment() error = %v", err)
	}
	if breakdown.Total != 7 {
		t.Fatalf("Total = %d, want 7", breakdown.Total)
	}
	if breakdown.Positive.Count != 3 || breakdown.Neutral.Count != 2 || breakdown.Negative.Count != 2 {
		t.Errorf("counts = %d/%d/%d, want 3/2/2",
			breakdown.Positive.Count, breakdown.Neutral.Count, breakdown.Negative.Count)
	}

	sum := breakdown.Positive.Percent + breakdown.Neutral.Percent +
		breakdown.Negative.Percent + breakdown.Unrated.Percent
	if sum != 100 {
		t.Errorf("percent sum = %v, want exactly 100", sum)
	}
}

func TestSentimentEmptyTenant(t *testing.T) {
	db := newTestDB(t)
	tenant := newTestTenant(t, db)

	breakdown, err := db.Sentiment(context.Background(), tenant.ID, nil, nil)
	if err != nil {
		t.Fatalf("Sentiment() error = %v", err)
	}
	if breakdown.Total != 0 {
		t.Errorf("Total = %d, want 0", breakdown.Total)
	}
}

func TestTopBrands(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)

	seedReports(t, db, tenant.ID, []string{
		models.SentimentPositive, models.SentimentNeutral,
	})

	// One extra report mentioning only Acme tips the ranking
	r := newTestReport(tenant.ID, "Solo mention", uuid.NewString())
	r.Brands = []string{"Acme"}
	if _, err := db.InsertReport(ctx, r); err != nil {
		t.Fatalf("InsertReport() error = %v", err)
	}

	brands, err := db.TopBrands(ctx, tenant.ID, nil, nil, 10)
	if err != nil {
		t.Fatalf("TopBrands() error = %v", err)
	}
	if len(brands) != 2 {
		t.Fatalf("TopBrands() = %v, want 2 brands", brands)
	}
	if brands[0].Brand != "Acme" || brands[0].Count != 3 {
		t.Errorf("top brand = %+v, want Acme with 3 mentions", brands[0])
	}
	if brands[1].Brand != "Globex" || brands[1].Count != 2 {
		t.Errorf("second brand = %+v, want Globex with 2 mentions", brands[1])
	}
}

func TestMentionSeriesGroupsByDay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tenant := newTestTenant(t, db)

	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	for _, hour := range []int{8, 12, 20} {
		r := newTestReport(tenant.ID, "Same day", uuid.NewString())
		published := day.Add(time.Duration(hour) * time.Hour)
		r.PublishedAt = &published
		if _, err := db.InsertReport(ctx, r); err != nil {
			t.Fatalf("InsertReport() error = %v", err)
		}
	}

	points, err := db.MentionSeries(ctx, tenant.ID, nil, nil)
	if err != nil {
		t.Fatalf("MentionSeries() error = %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("MentionSeries() = %v, want one day bucket", points)
	}
	if points[0].Count != 3 {
		t.Errorf("bucket count = %d, want 3", points[0].Count)
	}
}

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{33.333333, 33.3},
		{66.666666, 66.7},
		{100, 100},
		{0, 0},
	}
	for _, tt := range tests {
		if got := roundPercent(tt.in); got != tt.want {
			t.Errorf("roundPercent(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
