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

type jobRequest struct {
	FeedID   string `json:"feed_id" validate:"required,uuid"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	CronExpr string `json:"cron_expr" validate:"required,cron"`
	Enabled  *bool  `json:"enabled"`
}

// ListJobs returns the tenant's scheduled jobs.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	list, err := h.db.ListJobs(r.Context(), tenantID)
	if err != nil {
		respondStoreError(w, err, "jobs")
		return
	}
	respondJSON(w, http.StatusOK, list, start)
}

// CreateJob schedules recurring ingestion for a feed. The first run is
// computed from the cron expression immediately.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var req jobRequest
	if !decodeBody(w, r, &req) {
		return
	}
	feedID, ok := parseBodyUUID(w, req.FeedID, "feed_id")
	if !ok {
		return
	}

	// The feed must exist in this tenant.
	feed, err := h.db.GetFeed(r.Context(), tenantID, feedID)
	if err != nil {
		respondStoreError(w, err, "feed")
		return
	}

	next, err := jobs.NextRun(req.CronExpr, time.Now().UTC())
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid cron expression", nil)
		return
	}

	job := &models.ScheduledJob{
		TenantID:  tenantID,
		FeedID:    feed.ID,
		Name:      req.Name,
		CronExpr:  req.CronExpr,
		Enabled:   req.Enabled == nil || *req.Enabled,
		NextRunAt: &next,
	}
	if err := h.db.CreateJob(r.Context(), job); err != nil {
		respondStoreError(w, err, "job")
		return
	}
	respondJSON(w, http.StatusCreated, job, start)
}

// GetJob fetches one scheduled job.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	job, err := h.db.GetJob(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "job")
		return
	}
	respondJSON(w, http.StatusOK, job, start)
}

// UpdateJob updates the schedule, recomputing the next run when the
// expression changes.
func (h *Handler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	job, err := h.db.GetJob(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "job")
		return
	}

	var req jobRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.CronExpr != job.CronExpr {
		next, err := jobs.NextRun(req.CronExpr, time.Now().UTC())
		if err != nil {
			respondError(w, http.StatusBadRequest, codeValidation, "invalid cron expression", nil)
			return
		}
		job.NextRunAt = &next
	}
	job.Name = req.Name
	job.CronExpr = req.CronExpr
	if req.Enabled != nil {
		job.Enabled = *req.Enabled
	}

	if err := h.db.UpdateJob(r.Context(), job); err != nil {
		respondStoreError(w, err, "job")
		return
	}
	respondJSON(w, http.StatusOK, job, start)
}

// DeleteJob removes a scheduled job.
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteJob(r.Context(), tenantID, id); err != nil {
		respondStoreError(w, err, "job")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id.String()}, start)
}

// RunJob enqueues an immediate execution of a scheduled job's feed.
func (h *Handler) RunJob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	job, err := h.db.GetJob(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "job")
		return
	}

	jobID := job.ID
	exec, err := jobs.Enqueue(r.Context(), h.db, h.publisher, tenantID, job.FeedID, &jobID, models.TriggerManual)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to enqueue run", err)
		return
	}
	respondJSON(w, http.StatusAccepted, exec, start)
}

// ListJobExecutions returns the run history for one job.
func (h *Handler) ListJobExecutions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	// 404 for jobs outside the tenant before listing executions.
	if _, err := h.db.GetJob(r.Context(), tenantID, id); err != nil {
		respondStoreError(w, err, "job")
		return
	}

	limit := intQuery(r, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	executions, err := h.db.ListExecutions(r.Context(), tenantID, &id, limit)
	if err != nil {
		respondStoreError(w, err, "executions")
		return
	}
	respondJSON(w, http.StatusOK, executions, start)
}

// ListExecutions returns recent executions across the tenant.
func (h *Handler) ListExecutions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	limit := intQuery(r, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	executions, err := h.db.ListExecutions(r.Context(), tenantID, nil, limit)
	if err != nil {
		respondStoreError(w, err, "executions")
		return
	}
	respondJSON(w, http.StatusOK, executions, start)
}

// GetExecution fetches one execution.
func (h *Handler) GetExecution(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	exec, err := h.db.GetExecution(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "execution")
		return
	}
	respondJSON(w, http.StatusOK, exec, start)
}
