// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"net/http"
	"time"

	"github.com/abmc/earned-media/internal/jobs"
	"github.com/abmc/earned-media/internal/models"
)

type feedRequest struct {
	Name     string            `json:"name" validate:"required,min=1,max=200"`
	Provider string            `json:"provider" validate:"required,oneof=rss instagram tiktok youtube google"`
	Params   models.FeedParams `json:"params"`
	Enabled  *bool             `json:"enabled"`
}

// validateFeedParams checks the provider-specific parameter shape.
func validateFeedParams(provider string, params *models.FeedParams) string {
	switch provider {
	case models.SourceRSS:
		if params.URL == "" {
			return "params.url is required for rss feeds"
		}
	case models.SourceInstagram, models.SourceTikTok:
		if len(params.Usernames) == 0 && len(params.Hashtags) == 0 {
			return "params.usernames or params.hashtags is required for " + provider + " feeds"
		}
	case models.SourceYouTube:
		if params.Query == "" && params.ChannelID == "" {
			return "params.query or params.channel_id is required for youtube feeds"
		}
	case models.SourceGoogleSearch:
		if params.Query == "" {
			return "params.query is required for google feeds"
		}
	}
	return ""
}

// ListFeeds returns the tenant's configured feeds.
func (h *Handler) ListFeeds(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	feeds, err := h.db.ListFeeds(r.Context(), tenantID)
	if err != nil {
		respondStoreError(w, err, "feeds")
		return
	}
	respondJSON(w, http.StatusOK, feeds, start)
}

// CreateFeed configures a new content source.
func (h *Handler) CreateFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var req feedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateFeedParams(req.Provider, &req.Params); msg != "" {
		respondError(w, http.StatusBadRequest, codeValidation, msg, nil)
		return
	}

	feed := &models.FeedConfig{
		TenantID: tenantID,
		Name:     req.Name,
		Provider: req.Provider,
		Params:   req.Params,
		Enabled:  req.Enabled == nil || *req.Enabled,
	}
	if err := h.db.CreateFeed(r.Context(), feed); err != nil {
		respondStoreError(w, err, "feed")
		return
	}
	respondJSON(w, http.StatusCreated, feed, start)
}

// GetFeed fetches one feed.
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	feed, err := h.db.GetFeed(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "feed")
		return
	}
	respondJSON(w, http.StatusOK, feed, start)
}

// UpdateFeed updates a feed's configuration.
func (h *Handler) UpdateFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	feed, err := h.db.GetFeed(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "feed")
		return
	}

	var req feedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := validateFeedParams(req.Provider, &req.Params); msg != "" {
		respondError(w, http.StatusBadRequest, codeValidation, msg, nil)
		return
	}
	feed.Name = req.Name
	feed.Provider = req.Provider
	feed.Params = req.Params
	if req.Enabled != nil {
		feed.Enabled = *req.Enabled
	}

	if err := h.db.UpdateFeed(r.Context(), feed); err != nil {
		respondStoreError(w, err, "feed")
		return
	}
	respondJSON(w, http.StatusOK, feed, start)
}

// DeleteFeed removes a feed.
func (h *Handler) DeleteFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteFeed(r.Context(), tenantID, id); err != nil {
		respondStoreError(w, err, "feed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id.String()}, start)
}

// RunFeed enqueues an immediate ingestion run for a feed.
func (h *Handler) RunFeed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	feed, err := h.db.GetFeed(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "feed")
		return
	}

	exec, err := jobs.Enqueue(r.Context(), h.db, h.publisher, tenantID, feed.ID, nil, models.TriggerManual)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to enqueue run", err)
		return
	}
	respondJSON(w, http.StatusAccepted, exec, start)
}
