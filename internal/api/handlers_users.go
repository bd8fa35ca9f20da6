// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"net/http"
	"time"

	"github.com/abmc/earned-media/internal/auth"
	"github.com/abmc/earned-media/internal/models"
)

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"required,oneof=viewer editor admin"`
}

type updateUserRequest struct {
	FullName string `json:"full_name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=viewer editor admin"`
	Password string `json:"password" validate:"omitempty,min=8,max=128"`
	Active   *bool  `json:"active"`
}

// ListUsers returns the tenant's users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	users, err := h.db.ListUsers(r.Context(), tenantID)
	if err != nil {
		respondStoreError(w, err, "users")
		return
	}
	respondJSON(w, http.StatusOK, users, start)
}

// CreateUser adds a user to the tenant. The superuser flag can only be
// granted through bootstrap, never through this endpoint.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	var req createUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to hash password", err)
		return
	}

	user := &models.User{
		TenantID:     tenantID,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         req.Role,
		Active:       true,
	}
	if err := h.db.CreateUser(r.Context(), user); err != nil {
		respondStoreError(w, err, "user")
		return
	}
	respondJSON(w, http.StatusCreated, user, start)
}

// GetUser fetches one user in the tenant.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	user, err := h.db.GetUser(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "user")
		return
	}
	respondJSON(w, http.StatusOK, user, start)
}

// UpdateUser updates profile, role, active state, and optionally the
// password.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	user, err := h.db.GetUser(r.Context(), tenantID, id)
	if err != nil {
		respondStoreError(w, err, "user")
		return
	}

	var req updateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user.FullName = req.FullName
	user.Role = req.Role
	if req.Active != nil {
		user.Active = *req.Active
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, codeInternal, "failed to hash password", err)
			return
		}
		user.PasswordHash = hash
	}

	if err := h.db.UpdateUser(r.Context(), user); err != nil {
		respondStoreError(w, err, "user")
		return
	}
	respondJSON(w, http.StatusOK, user, start)
}

// DeleteUser removes a user from the tenant.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	tenantID, ok := h.tenantID(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.db.DeleteUser(r.Context(), tenantID, id); err != nil {
		respondStoreError(w, err, "user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": id.String()}, start)
}
