// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/models"
)

func TestAuthenticateMiddleware(t *testing.T) {
	m, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	user := testUser()
	token, _, err := m.GenerateToken(user, false)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	var gotClaims *Claims
	handler := NewMiddleware(m, nil).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid bearer", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotClaims = nil
			req := httptest.NewRequest(http.MethodGet, "/api/v1/reports", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if gotClaims == nil || gotClaims.UserID != user.ID.String() {
					t.Errorf("claims = %+v, want user %s", gotClaims, user.ID)
				}
			} else if gotClaims != nil {
				t.Error("handler ran despite rejected request")
			}
		})
	}
}

func TestTenantIDFromContext(t *testing.T) {
	m, _ := NewJWTManager(testSecurityConfig())

	regular := testUser()
	super := &models.User{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		Email:     "root@abmc.test",
		Role:      models.RoleAdmin,
		Superuser: true,
	}
	otherTenant := uuid.New()

	tests := []struct {
		name       string
		user       *models.User
		headerID   string
		wantID     uuid.UUID
		wantOK     bool
	}{
		{"regular user own tenant", regular, "", regular.TenantID, true},
		{"regular user ignores override", regular, otherTenant.String(), regular.TenantID, true},
		{"superuser own tenant", super, "", super.TenantID, true},
		{"superuser override", super, otherTenant.String(), otherTenant, true},
		{"superuser bad override", super, "not-a-uuid", uuid.Nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, _, err := m.GenerateToken(tt.user, false)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}
			claims, err := m.ValidateToken(token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.headerID != "" {
				req.Header.Set("X-Tenant-ID", tt.headerID)
			}
			ctx := ContextWithClaims(req.Context(), claims)

			id, ok := TenantIDFromContext(ctx, req)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("TenantIDFromContext() = (%s, %v), want (%s, %v)", id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestTenantIDFromContextUnauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := TenantIDFromContext(req.Context(), req); ok {
		t.Error("TenantIDFromContext() succeeded without claims")
	}
}

func TestPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword() match error = %v", err)
	}
	if err := CheckPassword(hash, "wrong password"); err == nil {
		t.Error("CheckPassword() accepted wrong password")
	}
	if _, err := HashPassword(""); err == nil {
		t.Error("HashPassword() accepted empty password")
	}
}
