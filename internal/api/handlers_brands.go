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

type brandRequest struct {
	Name    string   `json:"name" validate:"required,min=1,max=200"`
	Aliases []string `json:"aliases" validate:"max=20,dive,min=1,max=200"`
	Ignore  bool     `json:"ignore"`
}

// ListBrands returns the tenant's tracked brands.
func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	brands, err := h.db.ListBrands(r.Context(), tenantID)
	if err != nil {
		respondStoreError(w, err, "brands")
		return
	}
	respondJSON(w, http.StatusOK, brands, start)
}

// CreateBrand adds a tracked (or ignored) brand.
func (h *Handler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var req brandRequest
	if !decodeBody(w, r, &req) {
		return
	}

	brand := &models.BrandConfig{
		TenantID: tenantID,
		Name:     req.Name,
		Aliases:  req.Aliases,
		Ignore:   req.Ignore,
	}
	if err := h.db.CreateBrand(r.Context(), brand); err != nil {
		respondStoreError(w, err, "brand")
		return
	}
	respondJSON(w, http.StatusCreated, brand, start)
}

// GetBrand fetches one brand.
func (h *Handler) GetBrand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	brand, err := h.db.GetBrand(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "brand")
		return
	}
	respondJSON(w, http.StatusOK, brand, start)
}

// UpdateBrand updates a brand's name, aliases, and ignore flag.
func (h *Handler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	brand, err := h.db.GetBrand(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "brand")
		return
	}

	var req brandRequest
	if !decodeBody(w, r, &req) {
		return
	}
	brand.Name = req.Name
	brand.Aliases = req.Aliases
	brand.Ignore = req.Ignore

	if err := h.db.UpdateBrand(r.Context(), brand); err != nil {
		respondStoreError(w, err, "brand")
		return
	}
	respondJSON(w, http.StatusOK, brand, start)
}

// DeleteBrand removes a brand.
func (h *Handler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteBrand(r.Context(), tenantID, id); err != nil {
		respondStoreError(w, err, "brand")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id.String()}, start)
}
