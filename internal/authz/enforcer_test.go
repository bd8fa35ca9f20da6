// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package authz

import (
	"net/http"
	"testing"
)

func newTestEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	e, err := NewEnforcer(nil)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	return e
}

func TestEnforceEmbeddedPolicy(t *testing.T) {
	e := newTestEnforcer(t)

	tests := []struct {
		name   string
		role   string
		path   string
		method string
		want   bool
	}{
		{"viewer reads reports", "viewer", "/api/v1/reports", http.MethodGet, true},
		{"viewer reads one report", "viewer", "/api/v1/reports/4d2a9b", http.MethodGet, true},
		{"viewer reads analytics", "viewer", "/api/v1/analytics/sentiment", http.MethodGet, true},
		{"viewer cannot create report", "viewer", "/api/v1/reports", http.MethodPost, false},
		{"viewer cannot delete report", "viewer", "/api/v1/reports/4d2a9b", http.MethodDelete, false},
		{"viewer cannot trigger run", "viewer", "/api/v1/feeds/4d2a9b/run", http.MethodPost, false},
		{"viewer cannot list users", "viewer", "/api/v1/users", http.MethodGet, false},

		{"editor inherits viewer read", "editor", "/api/v1/reports", http.MethodGet, true},
		{"editor creates report", "editor", "/api/v1/reports", http.MethodPost, true},
		{"editor updates report", "editor", "/api/v1/reports/4d2a9b", http.MethodPut, true},
		{"editor patches report", "editor", "/api/v1/reports/4d2a9b", http.MethodPatch, true},
		{"editor manages lists", "editor", "/api/v1/lists/4d2a9b/items", http.MethodPost, true},
		{"editor triggers feed run", "editor", "/api/v1/feeds/4d2a9b/run", http.MethodPost, true},
		{"editor requests summary", "editor", "/api/v1/summaries", http.MethodPost, true},
		{"editor cannot create feed", "editor", "/api/v1/feeds", http.MethodPost, false},
		{"editor cannot manage users", "editor", "/api/v1/users", http.MethodPost, false},

		{"admin inherits editor", "admin", "/api/v1/reports", http.MethodPost, true},
		{"admin inherits viewer", "admin", "/api/v1/analytics/overview", http.MethodGet, true},
		{"admin creates feed", "admin", "/api/v1/feeds", http.MethodPost, true},
		{"admin deletes brand", "admin", "/api/v1/brands/4d2a9b", http.MethodDelete, true},
		{"admin manages users", "admin", "/api/v1/users/4d2a9b", http.MethodPut, true},
		{"admin manages jobs", "admin", "/api/v1/jobs", http.MethodPost, true},

		{"unknown role denied", "ghost", "/api/v1/reports", http.MethodGet, false},
		{"unmatched path denied", "admin", "/api/v1/tenants", http.MethodGet, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Enforce(tt.role, tt.path, tt.method)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v",
					tt.role, tt.path, tt.method, got, tt.want)
			}
		})
	}
}

func TestEnforceCachesDecisions(t *testing.T) {
	e := newTestEnforcer(t)

	if _, err := e.Enforce("viewer", "/api/v1/reports", http.MethodGet); err != nil {
		t.Fatalf("Enforce() error = %v", err)
	}
	if _, ok := e.cache.get("viewer", "/api/v1/reports", http.MethodGet); !ok {
		t.Error("decision was not cached")
	}
}

func TestRoleHierarchy(t *testing.T) {
	e := newTestEnforcer(t)

	roles, err := e.RolesForRole("admin")
	if err != nil {
		t.Fatalf("RolesForRole() error = %v", err)
	}
	if len(roles) != 1 || roles[0] != "editor" {
		t.Errorf("RolesForRole(admin) = %v, want [editor]", roles)
	}
}
