// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"net/http"
	"time"
)

type healthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// Health reports overall service health with per-component detail.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	components := map[string]string{
		"database": "up",
		"queue":    "up",
	}
	status := "healthy"
	code := http.StatusOK

	if err := h.db.Ping(r.Context()); err != nil {
		components["database"] = "down"
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	if h.queueUp != nil && !h.queueUp() {
		components["queue"] = "down"
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, healthStatus{Status: status, Components: components}, start)
}

// HealthLive is the liveness probe. It succeeds whenever the process can
// serve HTTP at all.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondJSON(w, http.StatusOK, map[string]string{"status": "alive"}, start)
}

// HealthReady is the readiness probe. Traffic should not be routed here
// until the database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, codeDatabase, "database not ready", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"}, start)
}
