// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package realtime

import (
	"github.com/google/uuid"
)

// Event types pushed to connected clients.
const (
	EventTypeIngestStarted   = "ingest_started"
	EventTypeIngestProgress  = "ingest_progress"
	EventTypeIngestCompleted = "ingest_completed"
	EventTypeIngestFailed    = "ingest_failed"
	EventTypeSummaryReady    = "summary_ready"
	EventTypeSummaryFailed   = "summary_failed"
	EventTypePing            = "ping"
	EventTypePong            = "pong"
)

// Event is a realtime notification. TenantID controls delivery: clients
// only receive events for their own tenant, superusers receive all.
type Event struct {
	Type     string      `json:"type"`
	TenantID uuid.UUID   `json:"tenant_id"`
	Data     interface{} `json:"data,omitempty"`
}

// IngestProgressData describes the state of a running ingestion.
type IngestProgressData struct {
	ExecutionID    uuid.UUID `json:"execution_id"`
	FeedID         uuid.UUID `json:"feed_id"`
	FeedName       string    `json:"feed_name,omitempty"`
	Source         string    `json:"source,omitempty"`
	ItemsFound     int       `json:"items_found"`
	ItemsIngested  int       `json:"items_ingested"`
	ItemsDuplicate int       `json:"items_duplicate"`
	ItemsFailed    int       `json:"items_failed"`
	Error          string    `json:"error,omitempty"`
}

// SummaryReadyData announces a finished summary document.
type SummaryReadyData struct {
	SummaryID   uuid.UUID `json:"summary_id"`
	Title       string    `json:"title"`
	ReportCount int       `json:"report_count"`
	Error       string    `json:"error,omitempty"`
}
