// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"net/http"
	"time"

	"github.com/abmc/earned-media/internal/cache"
)

// AnalyticsOverview returns headline counts and reach for a period.
func (h *Handler) AnalyticsOverview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	from, to, ok := timeRange(w, r)
	if !ok {
		return
	}
	key := cache.Key(tenantID, "overview", from, to)
	if data, hit := h.cachedResponse(key); hit {
		respondCached(w, http.StatusOK, data, start)
		return
	}
	overview, err := h.db.Overview(r.Context(), tenantID, from, to)
	if err != nil {
		respondStoreError(w, err, "analytics")
		return
	}
	h.storeResponse(key, overview)
	respondJSON(w, http.StatusOK, overview, start)
}

// AnalyticsMentions returns a daily mention count series.
func (h *Handler) AnalyticsMentions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	from, to, ok := timeRange(w, r)
	if !ok {
		return
	}
	key := cache.Key(tenantID, "mentions", from, to)
	if data, hit := h.cachedResponse(key); hit {
		respondCached(w, http.StatusOK, data, start)
		return
	}
	series, err := h.db.MentionSeries(r.Context(), tenantID, from, to)
	if err != nil {
		respondStoreError(w, err, "analytics")
		return
	}
	h.storeResponse(key, series)
	respondJSON(w, http.StatusOK, series, start)
}

// AnalyticsSentiment returns sentiment counts and share for a period.
func (h *Handler) AnalyticsSentiment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	from, to, ok := timeRange(w, r)
	if !ok {
		return
	}
	key := cache.Key(tenantID, "sentiment", from, to)
	if data, hit := h.cachedResponse(key); hit {
		respondCached(w, http.StatusOK, data, start)
		return
	}
	breakdown, err := h.db.Sentiment(r.Context(), tenantID, from, to)
	if err != nil {
		respondStoreError(w, err, "analytics")
		return
	}
	h.storeResponse(key, breakdown)
	respondJSON(w, http.StatusOK, breakdown, start)
}

// AnalyticsBrands returns the most-mentioned brands for a period.
func (h *Handler) AnalyticsBrands(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	from, to, ok := timeRange(w, r)
	if !ok {
		return
	}
	limit := intQuery(r, "limit", 10)
	if limit < 1 || limit > 100 {
		limit = 10
	}
	key := cache.Key(tenantID, "brands", from, to, limit)
	if data, hit := h.cachedResponse(key); hit {
		respondCached(w, http.StatusOK, data, start)
		return
	}
	brands, err := h.db.TopBrands(r.Context(), tenantID, from, to, limit)
	if err != nil {
		respondStoreError(w, err, "analytics")
		return
	}
	h.storeResponse(key, brands)
	respondJSON(w, http.StatusOK, brands, start)
}

// AnalyticsSources returns report counts by source channel.
func (h *Handler) AnalyticsSources(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	from, to, ok := timeRange(w, r)
	if !ok {
		return
	}
	key := cache.Key(tenantID, "sources", from, to)
	if data, hit := h.cachedResponse(key); hit {
		respondCached(w, http.StatusOK, data, start)
		return
	}
	sources, err := h.db.SourceBreakdown(r.Context(), tenantID, from, to)
	if err != nil {
		respondStoreError(w, err, "analytics")
		return
	}
	h.storeResponse(key, sources)
	respondJSON(w, http.StatusOK, sources, start)
}

// AnalyticsReach returns a daily estimated reach series.
func (h *Handler) AnalyticsReach(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	from, to, ok := timeRange(w, r)
	if !ok {
		return
	}
	key := cache.Key(tenantID, "reach", from, to)
	if data, hit := h.cachedResponse(key); hit {
		respondCached(w, http.StatusOK, data, start)
		return
	}
	series, err := h.db.ReachSeries(r.Context(), tenantID, from, to)
	if err != nil {
		respondStoreError(w, err, "analytics")
		return
	}
	h.storeResponse(key, series)
	respondJSON(w, http.StatusOK, series, start)
}
