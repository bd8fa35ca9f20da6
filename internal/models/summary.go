// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package models

import (
	"time"

	"github.com/google/uuid"
)

// Summary generation states.
const (
	SummaryPending   = "pending"
	SummaryGenerated = "generated"
	SummaryFailed    = "failed"
)

// Summary is a generated PDF document covering a date range of reports.
// PDFPath is relative to the configured summaries directory and never
// exposed verbatim; downloads go through the API.
type Summary struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Title       string    `json:"title"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
	Status      string    `json:"status"`
	PDFPath     string    `json:"-"`
	ReportCount int       `json:"report_count"`
	GeneratedBy uuid.UUID `json:"generated_by"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
