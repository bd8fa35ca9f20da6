// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package authz

import (
	"net/http"

	"github.com/abmc/earned-media/internal/auth"
	"github.com/abmc/earned-media/internal/logging"
)

// Middleware enforces role-based access on authenticated routes. It must
// run after auth.Middleware so claims are present in the context.
type Middleware struct {
	enforcer *Enforcer
	onDeny   func(w http.ResponseWriter, r *http.Request, message string)
}

// NewMiddleware builds authorization middleware. onDeny writes the 403
// response; nil falls back to plain http.Error.
func NewMiddleware(enforcer *Enforcer, onDeny func(http.ResponseWriter, *http.Request, string)) *Middleware {
	if onDeny == nil {
		onDeny = func(w http.ResponseWriter, _ *http.Request, message string) {
			http.Error(w, message, http.StatusForbidden)
		}
	}
	return &Middleware{enforcer: enforcer, onDeny: onDeny}
}

// Authorize checks the caller's role against the request path and method.
// Superusers bypass policy enforcement.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.ClaimsFromContext(r.Context())
		if claims == nil {
			m.onDeny(w, r, "no authenticated identity")
			return
		}

		if claims.Superuser {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := m.enforcer.Enforce(claims.Role, r.URL.Path, r.Method)
		if err != nil {
			logging.Error().Err(err).
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Msg("Authorization check failed")
			m.onDeny(w, r, "authorization check failed")
			return
		}
		if !allowed {
			logging.Debug().
				Str("role", claims.Role).
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Msg("Access denied")
			m.onDeny(w, r, "insufficient permissions")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSuperuser gates routes that operate across tenants, such as
// tenant management. Role policy does not apply here at all.
func (m *Middleware) RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := auth.ClaimsFromContext(r.Context())
		if claims == nil || !claims.Superuser {
			m.onDeny(w, r, "superuser access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
