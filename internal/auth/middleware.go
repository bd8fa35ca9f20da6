// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/logging"
)

type contextKey string

// ClaimsContextKey is where authenticated claims live in the request context.
const ClaimsContextKey contextKey = "claims"

// Middleware enforces Bearer token authentication on protected routes.
type Middleware struct {
	jwtManager *JWTManager
	onReject   func(w http.ResponseWriter, r *http.Request, message string)
}

// NewMiddleware builds authentication middleware. onReject writes the 401
// response so the API layer controls the error envelope; nil falls back to
// plain http.Error.
func NewMiddleware(jwtManager *JWTManager, onReject func(http.ResponseWriter, *http.Request, string)) *Middleware {
	if onReject == nil {
		onReject = func(w http.ResponseWriter, _ *http.Request, message string) {
			http.Error(w, message, http.StatusUnauthorized)
		}
	}
	return &Middleware{jwtManager: jwtManager, onReject: onReject}
}

// Authenticate validates the Authorization header and stores claims in the
// request context. Requests without a valid token never reach the handler.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractBearerToken(r)
		if tokenString == "" {
			m.onReject(w, r, "authentication required")
			return
		}

		claims, err := m.jwtManager.ValidateToken(tokenString)
		if err != nil {
			logging.Debug().Err(err).Str("path", r.URL.Path).Msg("Token validation failed")
			m.onReject(w, r, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// extractBearerToken pulls the token from "Authorization: Bearer <token>".
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ContextWithClaims attaches claims to a context. Used by the middleware
// and by tests that need an authenticated context without a full request.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// ClaimsFromContext returns the authenticated claims, or nil when the
// request was not authenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}

// TenantIDFromContext resolves the caller's tenant. Superusers may act on
// another tenant by supplying the X-Tenant-ID header; everyone else is
// pinned to the tenant in their token.
func TenantIDFromContext(ctx context.Context, r *http.Request) (uuid.UUID, bool) {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return uuid.Nil, false
	}

	if claims.Superuser {
		if override := r.Header.Get("X-Tenant-ID"); override != "" {
			id, err := uuid.Parse(override)
			if err != nil {
				return uuid.Nil, false
			}
			return id, true
		}
	}

	id, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
