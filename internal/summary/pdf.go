// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/abmc/earned-media/internal/database"
	"github.com/abmc/earned-media/internal/models"
)

const (
	pageMargin   = 15.0
	lineHeight   = 6.0
	maxCellChars = 90
)

// buildDocument lays out the summary PDF: header, overview figures,
// sentiment and top-brand tables, then the report listing.
func buildDocument(s *models.Summary, overview *database.AnalyticsOverview, sentiment *database.SentimentBreakdown, topBrands []database.BrandCount, reports []models.Report) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.MultiCell(0, 10, tr(s.Title), "", "L", false)

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(90, 90, 90)
	period := fmt.Sprintf("%s to %s, generated %s",
		s.PeriodStart.Format("Jan 2, 2006"),
		s.PeriodEnd.Format("Jan 2, 2006"),
		time.Now().UTC().Format("Jan 2, 2006 15:04 MST"))
	doc.MultiCell(0, lineHeight, period, "", "L", false)
	doc.SetTextColor(0, 0, 0)
	doc.Ln(4)

	writeOverview(doc, overview)
	writeSentiment(doc, sentiment)
	writeTopBrands(doc, tr, topBrands)
	writeReports(doc, tr, reports)

	return doc
}

func sectionTitle(doc *fpdf.Fpdf, title string) {
	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	doc.Ln(1)
}

func writeOverview(doc *fpdf.Fpdf, overview *database.AnalyticsOverview) {
	sectionTitle(doc, "Overview")
	doc.SetFont("Helvetica", "", 10)

	rows := [][2]string{
		{"Reports", fmt.Sprintf("%d", overview.TotalReports)},
		{"Total reach", fmt.Sprintf("%d", overview.TotalReach)},
		{"Total engagement", fmt.Sprintf("%d", overview.TotalEngagement)},
		{"Brands tracked", fmt.Sprintf("%d", overview.BrandsTracked)},
	}
	for _, row := range rows {
		doc.CellFormat(60, lineHeight, row[0], "", 0, "L", false, 0, "")
		doc.CellFormat(0, lineHeight, row[1], "", 1, "L", false, 0, "")
	}
}

func writeSentiment(doc *fpdf.Fpdf, sentiment *database.SentimentBreakdown) {
	sectionTitle(doc, "Sentiment")
	doc.SetFont("Helvetica", "", 10)

	rows := []struct {
		label string
		slice database.SentimentSlice
	}{
		{"Positive", sentiment.Positive},
		{"Neutral", sentiment.Neutral},
		{"Negative", sentiment.Negative},
		{"Unrated", sentiment.Unrated},
	}
	for _, row := range rows {
		doc.CellFormat(60, lineHeight, row.label, "B", 0, "L", false, 0, "")
		doc.CellFormat(30, lineHeight, fmt.Sprintf("%d", row.slice.Count), "B", 0, "R", false, 0, "")
		doc.CellFormat(30, lineHeight, fmt.Sprintf("%.1f%%", row.slice.Percent), "B", 1, "R", false, 0, "")
	}
}

func writeTopBrands(doc *fpdf.Fpdf, tr func(string) string, topBrands []database.BrandCount) {
	sectionTitle(doc, "Top Brands")
	doc.SetFont("Helvetica", "", 10)

	if len(topBrands) == 0 {
		doc.CellFormat(0, lineHeight, "No brand mentions in this period.", "", 1, "L", false, 0, "")
		return
	}
	for _, brand := range topBrands {
		doc.CellFormat(90, lineHeight, tr(brand.Brand), "B", 0, "L", false, 0, "")
		doc.CellFormat(30, lineHeight, fmt.Sprintf("%d", brand.Count), "B", 1, "R", false, 0, "")
	}
}

func writeReports(doc *fpdf.Fpdf, tr func(string) string, reports []models.Report) {
	sectionTitle(doc, fmt.Sprintf("Reports (%d)", len(reports)))

	if len(reports) == 0 {
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, lineHeight, "No reports in this period.", "", 1, "L", false, 0, "")
		return
	}

	for i := range reports {
		r := &reports[i]

		doc.SetFont("Helvetica", "B", 10)
		doc.MultiCell(0, lineHeight, tr(clip(r.Title)), "", "L", false)

		doc.SetFont("Helvetica", "", 9)
		doc.SetTextColor(90, 90, 90)
		meta := r.Source
		if r.PublishedAt != nil {
			meta += " / " + r.PublishedAt.Format("Jan 2, 2006")
		}
		if len(r.Brands) > 0 {
			meta += " / " + strings.Join(r.Brands, ", ")
		}
		if r.Sentiment != "" {
			meta += " / " + r.Sentiment
		}
		doc.MultiCell(0, 5, tr(clip(meta)), "", "L", false)

		if r.Excerpt != "" {
			doc.SetTextColor(50, 50, 50)
			doc.MultiCell(0, 5, tr(clip(r.Excerpt)), "", "L", false)
		}
		doc.SetTextColor(0, 0, 0)
		doc.Ln(2)
	}
}

// clip bounds a text cell so a single runaway value cannot balloon the
// document.
func clip(s string) string {
	if len(s) <= maxCellChars*3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxCellChars*3 {
		return s
	}
	return string(runes[:maxCellChars*3]) + "..."
}
