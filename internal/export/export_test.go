// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/abmc/earned-media/internal/models"
)

func sampleReports() []models.Report {
	published := time.Date(2026, 5, 12, 9, 30, 0, 0, time.UTC)
	return []models.Report{
		{
			ID:          uuid.New(),
			TenantID:    uuid.New(),
			Source:      "rss",
			Title:       `Acme "wins big", analysts say`,
			URL:         "https://example.com/acme-wins",
			Author:      "Jo Reporter",
			PublishedAt: &published,
			Brands:      []string{"Acme", "Globex"},
			Sentiment:   models.SentimentPositive,
			Topic:       "product launch",
			Reach:       15000,
			Engagement:  420,
			Status:      models.ReportStatusNew,
			CreatedAt:   time.Date(2026, 5, 12, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        uuid.New(),
			TenantID:  uuid.New(),
			Source:    "instagram",
			Title:     "Line with a\nnewline",
			URL:       "https://instagram.com/p/abc",
			Sentiment: models.SentimentNeutral,
			Status:    models.ReportStatusNew,
			CreatedAt: time.Date(2026, 5, 13, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSVRoundTrips(t *testing.T) {
	reports := sampleReports()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, reports); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(records))
	}
	if records[0][0] != "id" || records[0][7] != "brands" {
		t.Errorf("header = %v, want id ... brands columns", records[0])
	}

	first := records[1]
	if first[2] != `Acme "wins big", analysts say` {
		t.Errorf("title with quotes round-tripped as %q", first[2])
	}
	if first[7] != "Acme; Globex" {
		t.Errorf("brands = %q, want joined list", first[7])
	}
	if first[10] != "15000" {
		t.Errorf("reach = %q, want 15000", first[10])
	}
	if !strings.HasPrefix(first[6], "2026-05-12T09:30:00") {
		t.Errorf("published_at = %q, want RFC3339", first[6])
	}

	second := records[2]
	if second[2] != "Line with a\nnewline" {
		t.Errorf("embedded newline round-tripped as %q", second[2])
	}
	if second[6] != "" {
		t.Errorf("missing published_at = %q, want empty", second[6])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("rows = %d, want header only", len(records))
	}
}

func TestWriteXLSX(t *testing.T) {
	reports := sampleReports()

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, reports); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("opening workbook back: %v", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Reports")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "id" {
		t.Errorf("first header cell = %q, want id", rows[0][0])
	}
	if rows[1][1] != "rss" || rows[2][1] != "instagram" {
		t.Errorf("source column = %q, %q, want rss, instagram", rows[1][1], rows[2][1])
	}
}

func TestFormatHelpers(t *testing.T) {
	if !IsValidFormat(FormatCSV) || !IsValidFormat(FormatXLSX) {
		t.Error("built-in formats reported invalid")
	}
	if IsValidFormat("pdf") {
		t.Error("IsValidFormat(pdf) = true, want false")
	}

	if got := ContentType(FormatXLSX); !strings.Contains(got, "spreadsheetml") {
		t.Errorf("ContentType(xlsx) = %q", got)
	}
	if got := ContentType(FormatCSV); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("ContentType(csv) = %q", got)
	}

	at := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	if got := Filename(FormatCSV, at); got != "reports-2026-05-12.csv" {
		t.Errorf("Filename() = %q", got)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "pdf", nil); err == nil {
		t.Error("Write() with unknown format error = nil, want error")
	}
}
