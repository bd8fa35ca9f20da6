// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/auth"
	"github.com/abmc/earned-media/internal/cache"
	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/database"
	"github.com/abmc/earned-media/internal/jobs"
	"github.com/abmc/earned-media/internal/realtime"
	"github.com/abmc/earned-media/internal/summary"
)

// Handler holds the dependencies for all HTTP endpoints.
type Handler struct {
	db        *database.DB
	jwt       *auth.JWTManager
	hub       *realtime.Hub
	publisher jobs.JobPublisher
	summaries *summary.Generator
	cfg       *config.Config
	cache     *cache.Cache
	queueUp   func() bool
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	DB        *database.DB
	JWT       *auth.JWTManager
	Hub       *realtime.Hub
	Publisher jobs.JobPublisher
	Summaries *summary.Generator
	Config    *config.Config
	// Cache holds analytics responses. Nil disables response caching.
	Cache *cache.Cache
	// QueueUp reports whether the job queue is accepting work. Used by
	// the readiness endpoint; nil means always ready.
	QueueUp func() bool
}

// NewHandler creates the API handler.
func NewHandler(opts HandlerOptions) *Handler {
	return &Handler{
		db:        opts.DB,
		jwt:       opts.JWT,
		hub:       opts.Hub,
		publisher: opts.Publisher,
		summaries: opts.Summaries,
		cfg:       opts.Config,
		cache:     opts.Cache,
		queueUp:   opts.QueueUp,
	}
}

// cachedResponse returns a cached analytics payload when present.
func (h *Handler) cachedResponse(key string) (any, bool) {
	if h.cache == nil {
		return nil, false
	}
	return h.cache.Get(key)
}

// storeResponse caches an analytics payload.
func (h *Handler) storeResponse(key string, data any) {
	if h.cache != nil {
		h.cache.Set(key, data)
	}
}

// invalidateAnalytics drops cached analytics after a write that changes
// aggregate results.
func (h *Handler) invalidateAnalytics() {
	if h.cache != nil {
		h.cache.InvalidateAll()
	}
}

func (h *Handler) pageSizes() (defaultSize, maxSize int) {
	defaultSize = h.cfg.API.DefaultPageSize
	if defaultSize <= 0 {
		defaultSize = 20
	}
	maxSize = h.cfg.API.MaxPageSize
	if maxSize <= 0 {
		maxSize = 100
	}
	return defaultSize, maxSize
}

// claims extracts authenticated claims, responding 401 when absent.
// Routes behind the auth middleware always carry claims; this guards
// direct handler use in tests and misconfigured routes.
func (h *Handler) claims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusUnauthorized, codeAuthentication, "authentication required", nil)
		return nil, false
	}
	return claims, true
}

// tenantID resolves the effective tenant for the request, honoring the
// superuser tenant override header.
func (h *Handler) tenantID(w http.ResponseWriter, r *http.Request) (tenant uuid.UUID, ok bool) {
	id, ok := auth.TenantIDFromContext(r.Context(), r)
	if !ok {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid tenant override", nil)
		return uuid.Nil, false
	}
	return id, true
}
