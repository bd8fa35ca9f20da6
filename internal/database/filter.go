// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package database

import (
	"strings"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/models"
)

// buildReportWhere builds the WHERE clause for report listings and
// exports. Always scopes by tenant; all user input is parameterized.
func buildReportWhere(tenantID uuid.UUID, filter models.ReportFilter) (string, []any) {
	clauses := []string{"tenant_id = ?"}
	args := []any{tenantID}

	if filter.Query != "" {
		clauses = append(clauses, "(title ILIKE ? OR excerpt ILIKE ? OR author ILIKE ?)")
		pattern := "%" + filter.Query + "%"
		args = append(args, pattern, pattern, pattern)
	}
	if filter.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, filter.Source)
	}
	if filter.Sentiment == "unrated" {
		clauses = append(clauses, "(sentiment IS NULL OR sentiment = '')")
	} else if filter.Sentiment != "" {
		clauses = append(clauses, "sentiment = ?")
		args = append(args, filter.Sentiment)
	}
	if filter.Brand != "" {
		// brands is a JSON array of strings; element match via the
		// quoted form, e.g. %"Acme"%
		clauses = append(clauses, `brands LIKE ? ESCAPE '\'`)
		args = append(args, `%"`+escapeLike(filter.Brand)+`"%`)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.From != nil {
		clauses = append(clauses, "published_at >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		clauses = append(clauses, "published_at <= ?")
		args = append(args, *filter.To)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike escapes LIKE wildcards in user-supplied match strings.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// normalizePage clamps pagination to sane bounds.
func normalizePage(filter *models.ReportFilter, defaultSize, maxSize int) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultSize
	}
	if filter.PageSize > maxSize {
		filter.PageSize = maxSize
	}
}
