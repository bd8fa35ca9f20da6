// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/models"
	"github.com/abmc/earned-media/internal/summary"
)

type summaryRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	PeriodStart string `json:"period_start" validate:"required"`
	PeriodEnd   string `json:"period_end" validate:"required"`
}

// ListSummaries returns the tenant's generated summaries, newest first.
func (h *Handler) ListSummaries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	summaries, err := h.db.ListSummaries(r.Context(), tenantID)
	if err != nil {
		respondStoreError(w, err, "summaries")
		return
	}
	respondJSON(w, http.StatusOK, summaries, start)
}

// CreateSummary queues PDF generation for a reporting period and returns
// the pending summary immediately.
func (h *Handler) CreateSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var req summaryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid period_start: use RFC 3339 or YYYY-MM-DD", nil)
		return
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, "invalid period_end: use RFC 3339 or YYYY-MM-DD", nil)
		return
	}
	if periodEnd.Before(periodStart) {
		respondError(w, http.StatusBadRequest, codeValidation, "period_end must not precede period_start", nil)
		return
	}

	generatedBy, _ := uuid.Parse(claims.UserID)
	s, err := h.summaries.Enqueue(r.Context(), summary.Request{
		TenantID:    tenantID,
		Title:       req.Title,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		GeneratedBy: generatedBy,
	})
	if err != nil {
		respondStoreError(w, err, "summary")
		return
	}
	respondJSON(w, http.StatusAccepted, s, start)
}

// GetSummary fetches one summary record.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	s, err := h.db.GetSummary(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "summary")
		return
	}
	respondJSON(w, http.StatusOK, s, start)
}

// DownloadSummary streams the generated PDF. Only summaries in the
// generated state have a file to serve.
func (h *Handler) DownloadSummary(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	s, err := h.db.GetSummary(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "summary")
		return
	}
	if s.Status != models.SummaryGenerated || s.PDFPath == "" {
		respondError(w, http.StatusConflict, codeConflict, "summary is not ready for download", nil)
		return
	}

	path := h.summaries.PDFFilePath(s)
	f, err := os.Open(path)
	if err != nil {
		logging.Error().Err(err).Str("summary_id", s.ID.String()).Msg("summary pdf missing on disk")
		respondError(w, http.StatusNotFound, codeNotFound, "summary file not found", nil)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "summary-"+s.ID.String()+".pdf"))
	http.ServeContent(w, r, "", s.CreatedAt, f)
}

// DeleteSummary removes the record and its PDF file.
func (h *Handler) DeleteSummary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	s, err := h.db.GetSummary(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "summary")
		return
	}
	if err := h.db.DeleteSummary(r.Context(), tenantID, id); err != nil {
		respondStoreError(w, err, "summary")
		return
	}
	if s.PDFPath != "" {
		if err := os.Remove(h.summaries.PDFFilePath(s)); err != nil && !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("summary_id", s.ID.String()).Msg("failed to remove summary pdf")
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id.String()}, start)
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
