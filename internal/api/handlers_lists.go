// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/models"
)

type listRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type listItemRequest struct {
	ReportID string `json:"report_id" validate:"required,uuid"`
	Note     string `json:"note" validate:"max=2000"`
}

// ListLists returns the tenant's curated lists.
func (h *Handler) ListLists(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	lists, err := h.db.ListLists(r.Context(), tenantID)
	if err != nil {
		respondStoreError(w, err, "lists")
		return
	}
	respondJSON(w, http.StatusOK, lists, start)
}

// CreateList creates a curated list.
func (h *Handler) CreateList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	claims, ok := h.claims(w, r)
	if !ok {
		return
	}
	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var req listRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ownerID, _ := uuid.Parse(claims.UserID)
	list := &models.List{
		TenantID:    tenantID,
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.db.CreateList(r.Context(), list); err != nil {
		respondStoreError(w, err, "list")
		return
	}
	respondJSON(w, http.StatusCreated, list, start)
}

// GetList fetches one list.
func (h *Handler) GetList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	list, err := h.db.GetList(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "list")
		return
	}
	respondJSON(w, http.StatusOK, list, start)
}

// UpdateList renames a list or changes its description.
func (h *Handler) UpdateList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	list, err := h.db.GetList(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "list")
		return
	}

	var req listRequest
	if !decodeBody(w, r, &req) {
		return
	}
	list.Name = req.Name
	list.Description = req.Description

	if err := h.db.UpdateList(r.Context(), list); err != nil {
		respondStoreError(w, err, "list")
		return
	}
	respondJSON(w, http.StatusOK, list, start)
}

// DeleteList removes a list and its memberships.
func (h *Handler) DeleteList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteList(r.Context(), tenantID, id); err != nil {
		respondStoreError(w, err, "list")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id.String()}, start)
}

// AddListItem adds a report to a list. Adding the same report twice is a
// no-op.
func (h *Handler) AddListItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	listID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	var req listItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	reportID, ok := parseBodyUUID(w, req.ReportID, "report_id")
	if !ok {
		return
	}

	added, err := h.db.AddListItem(r.Context(), tenantID, listID, reportID, req.Note)
	if err != nil {
		respondStoreError(w, err, "list item")
		return
	}
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	respondJSON(w, status, map[string]any{
		"list_id":   listID.String(),
		"report_id": reportID.String(),
		"added":     added,
	}, start)
}

// RemoveListItem removes a report from a list.
func (h *Handler) RemoveListItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	listID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	reportID, ok := uuidParam(w, r, "reportID")
	if !ok {
		return
	}
	if err := h.db.RemoveListItem(r.Context(), tenantID, listID, reportID); err != nil {
		respondStoreError(w, err, "list item")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"removed": reportID.String()}, start)
}

// ListListReports returns the reports collected in a list.
func (h *Handler) ListListReports(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	listID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	reports, err := h.db.ListReportsInList(r.Context(), tenantID, listID)
	if err != nil {
		respondStoreError(w, err, "list")
		return
	}
	respondJSON(w, http.StatusOK, reports, start)
}
