// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abmc/earned-media/internal/models"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// columns is the shared header row for both formats.
var columns = []string{
	"id", "source", "title", "url", "resolved_url", "author",
	"published_at", "brands", "sentiment", "topic", "reach",
	"engagement", "status", "created_at",
}

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Filename builds a download filename for an export.
func Filename(format string, at time.Time) string {
	return fmt.Sprintf("reports-%s.%s", at.Format("2006-01-02"), format)
}

// IsValidFormat checks a requested export format.
func IsValidFormat(format string) bool {
	return format == FormatCSV || format == FormatXLSX
}

// Write renders reports to w in the requested format.
func Write(w io.Writer, format string, reports []models.Report) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, reports)
	case FormatXLSX:
		return WriteXLSX(w, reports)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteCSV streams reports as CSV with a header row.
func WriteCSV(w io.Writer, reports []models.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for i := range reports {
		if err := cw.Write(row(&reports[i])); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX renders reports as a single-sheet Excel workbook.
func WriteXLSX(w io.Writer, reports []models.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Reports"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i := range reports {
		values := row(&reports[i])
		cells := make([]interface{}, len(values))
		for j, v := range values {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func row(r *models.Report) []string {
	publishedAt := ""
	if r.PublishedAt != nil {
		publishedAt = r.PublishedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		r.ID.String(),
		r.Source,
		r.Title,
		r.URL,
		r.ResolvedURL,
		r.Author,
		publishedAt,
		strings.Join(r.Brands, "; "),
		r.Sentiment,
		r.Topic,
		strconv.FormatInt(r.Reach, 10),
		strconv.FormatInt(r.Engagement, 10),
		r.Status,
		r.CreatedAt.UTC().Format(time.RFC3339),
	}
}
