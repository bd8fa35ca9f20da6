// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/export"
	"github.com/abmc/earned-media/internal/ingest"
	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/models"
)

const exportLimit = 10_000

type createReportRequest struct {
	Source      string     `json:"source" validate:"required,oneof=rss instagram tiktok youtube google"`
	Title       string     `json:"title" validate:"required,min=1,max=500"`
	URL         string     `json:"url" validate:"required,url"`
	Excerpt     string     `json:"excerpt" validate:"max=2000"`
	Author      string     `json:"author" validate:"max=200"`
	PublishedAt *time.Time `json:"published_at"`
	Brands      []string   `json:"brands" validate:"max=20"`
	Sentiment   string     `json:"sentiment" validate:"omitempty,oneof=positive neutral negative"`
	Topic       string     `json:"topic" validate:"max=200"`
	Reach       int64      `json:"reach" validate:"gte=0"`
	Engagement  int64      `json:"engagement" validate:"gte=0"`
}

type updateReportRequest struct {
	Title     string   `json:"title" validate:"required,min=1,max=500"`
	Excerpt   string   `json:"excerpt" validate:"max=2000"`
	Brands    []string `json:"brands" validate:"max=20"`
	Sentiment string   `json:"sentiment" validate:"omitempty,oneof=positive neutral negative"`
	Topic     string   `json:"topic" validate:"max=200"`
	Status    string   `json:"status" validate:"required,oneof=new reviewed archived"`
}

// ListReports returns a filtered, paginated page of reports.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	filter, ok := reportFilterFromQuery(w, r)
	if !ok {
		return
	}

	defaultSize, maxSize := h.pageSizes()
	page, err := h.db.ListReports(r.Context(), tenantID, filter, defaultSize, maxSize)
	if err != nil {
		respondStoreError(w, err, "reports")
		return
	}
	respondJSON(w, http.StatusOK, page, start)
}

// CreateReport records a manually entered report. The dedupe key is
// derived the same way as for ingested items, so a manual entry blocks
// a later duplicate from ingestion and vice versa.
func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var req createReportRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item := ingest.Item{Source: req.Source, URL: req.URL}
	report := &models.Report{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Source:      req.Source,
		Title:       req.Title,
		URL:         req.URL,
		Excerpt:     req.Excerpt,
		Author:      req.Author,
		PublishedAt: req.PublishedAt,
		Brands:      req.Brands,
		Sentiment:   req.Sentiment,
		Topic:       req.Topic,
		Reach:       req.Reach,
		Engagement:  req.Engagement,
		DedupeKey:   item.DedupeKey(""),
		Status:      models.ReportStatusNew,
	}

	inserted, err := h.db.InsertReport(r.Context(), report)
	if err != nil {
		respondStoreError(w, err, "report")
		return
	}
	if !inserted {
		respondError(w, http.StatusConflict, codeConflict, "report with this URL already exists", nil)
		return
	}
	h.invalidateAnalytics()
	respondJSON(w, http.StatusCreated, report, start)
}

// GetReport fetches one report in the tenant.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	report, err := h.db.GetReport(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "report")
		return
	}
	respondJSON(w, http.StatusOK, report, start)
}

// UpdateReport edits a report's editorial fields and lifecycle status.
func (h *Handler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	report, err := h.db.GetReport(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "report")
		return
	}

	var req updateReportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	report.Title = req.Title
	report.Excerpt = req.Excerpt
	report.Brands = req.Brands
	report.Sentiment = req.Sentiment
	report.Topic = req.Topic
	report.Status = req.Status

	if err := h.db.UpdateReport(r.Context(), report); err != nil {
		respondStoreError(w, err, "report")
		return
	}
	h.invalidateAnalytics()
	respondJSON(w, http.StatusOK, report, start)
}

// DeleteReport removes a report.
func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteReport(r.Context(), tenantID, id); err != nil {
		respondStoreError(w, err, "report")
		return
	}
	h.invalidateAnalytics()
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id.String()}, start)
}

// ExportReports streams the filtered reports as a CSV or Excel
// download.
func (h *Handler) ExportReports(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatCSV
	}
	if !export.IsValidFormat(format) {
		respondError(w, http.StatusBadRequest, codeValidation, "format must be csv or xlsx", nil)
		return
	}
	filter, ok := reportFilterFromQuery(w, r)
	if !ok {
		return
	}

	reports, err := h.db.ReportsForExport(r.Context(), tenantID, filter, exportLimit)
	if err != nil {
		respondStoreError(w, err, "reports")
		return
	}

	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+export.Filename(format, time.Now().UTC())+`"`)
	if err := export.Write(w, format, reports); err != nil {
		// Headers are already written, log instead of re-responding.
		logging.Error().Err(err).Str("format", format).Msg("Export write failed")
	}
}
