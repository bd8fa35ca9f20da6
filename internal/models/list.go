// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package models

import (
	"time"

	"github.com/google/uuid"
)

// List is a user-curated collection of reports.
type List struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ItemCount   int       `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListItem places one report on a list. The (list, report) pair is unique;
// re-adding an already-listed report is a no-op.
type ListItem struct {
	ListID   uuid.UUID `json:"list_id"`
	ReportID uuid.UUID `json:"report_id"`
	Note     string    `json:"note,omitempty"`
	AddedAt  time.Time `json:"added_at"`
}
