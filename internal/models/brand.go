// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package models

import (
	"time"

	"github.com/google/uuid"
)

// BrandConfig is a tracked brand. Name is unique per tenant. Aliases are
// matched alongside the name; the Ignore flag keeps the configuration but
// excludes the brand from matching and analytics. MentionCount is a running
// counter incremented by the ingestion pipeline.
type BrandConfig struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Name         string    `json:"name"`
	Aliases      []string  `json:"aliases"`
	Ignore       bool      `json:"ignore"`
	MentionCount int64     `json:"mention_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
