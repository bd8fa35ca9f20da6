// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"net/http"
	"time"

	"github.com/abmc/earned-media/internal/models"
)

type tenantRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=200"`
	Slug   string `json:"slug" validate:"required,min=2,max=64,slug"`
	Active *bool  `json:"active"`
}

// ListTenants returns all tenants. Superuser only, enforced by the
// router.
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenants, err := h.db.ListTenants(r.Context())
	if err != nil {
		respondStoreError(w, err, "tenants")
		return
	}
	respondJSON(w, http.StatusOK, tenants, start)
}

// CreateTenant provisions a new tenant.
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req tenantRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tenant := &models.Tenant{
		Name:   req.Name,
		Slug:   req.Slug,
		Active: req.Active == nil || *req.Active,
	}
	if err := h.db.CreateTenant(r.Context(), tenant); err != nil {
		respondStoreError(w, err, "tenant")
		return
	}
	respondJSON(w, http.StatusCreated, tenant, start)
}

// GetTenant fetches one tenant.
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	tenant, err := h.db.GetTenant(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "tenant")
		return
	}
	respondJSON(w, http.StatusOK, tenant, start)
}

// UpdateTenant updates name, slug, and active state.
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	tenant, err := h.db.GetTenant(r.Context(), id)
	if err != nil {
		respondStoreError(w, err, "tenant")
		return
	}

	var req tenantRequest
	if !decodeBody(w, r, &req) {
		return
	}
	tenant.Name = req.Name
	tenant.Slug = req.Slug
	if req.Active != nil {
		tenant.Active = *req.Active
	}

	if err := h.db.UpdateTenant(r.Context(), tenant); err != nil {
		respondStoreError(w, err, "tenant")
		return
	}
	respondJSON(w, http.StatusOK, tenant, start)
}

// DeleteTenant removes a tenant and cascades to its rows.
func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteTenant(r.Context(), id); err != nil {
		respondStoreError(w, err, "tenant")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id.String()}, start)
}
