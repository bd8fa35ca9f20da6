// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated customer account. All tenant-owned rows reference it
// and are invisible to other tenants.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role constants define the in-tenant role hierarchy. Each role inherits
// the permissions of the roles below it. These align with the Casbin policy
// in internal/authz.
const (
	// RoleViewer has read-only access to tenant data.
	RoleViewer = "viewer"

	// RoleEditor can create and modify reports, brands, feeds, lists,
	// and summaries. Inherits viewer.
	RoleEditor = "editor"

	// RoleAdmin manages users and scheduled jobs within the tenant.
	// Inherits editor.
	RoleAdmin = "admin"
)

// ValidRoles lists all assignable role names for validation.
var ValidRoles = []string{RoleViewer, RoleEditor, RoleAdmin}

// IsValidRole checks if a role name is one of the assignable roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// User is a tenant member. Superusers additionally administer tenants and
// may act across tenant boundaries.
type User struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Superuser    bool      `json:"superuser"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
