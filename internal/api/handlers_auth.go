// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/auth"
	"github.com/abmc/earned-media/internal/database"
	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/models"
)

type loginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	RememberMe bool   `json:"remember_me"`
}

// Login authenticates a user and returns a signed JWT.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.bootstrapSuperuser(r.Context(), req.Email); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "bootstrap failed", err)
		return
	}

	user, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// Same response as a wrong password, no account enumeration.
			respondError(w, http.StatusUnauthorized, codeAuthentication, "invalid credentials", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeDatabase, "storage failure", err)
		return
	}

	if !user.Active {
		respondError(w, http.StatusUnauthorized, codeAuthentication, "invalid credentials", nil)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		logging.Warn().
			Str("email", sanitizeLogValue(req.Email)).
			Msg("Failed login attempt")
		respondError(w, http.StatusUnauthorized, codeAuthentication, "invalid credentials", nil)
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(user, req.RememberMe)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to issue token", err)
		return
	}

	respondJSON(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    user.ID,
		TenantID:  user.TenantID,
		Email:     user.Email,
		Role:      user.Role,
		Superuser: user.Superuser,
	}, start)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	claims, ok := h.claims(w, r)
	if !ok {
		return
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, codeAuthentication, "invalid credentials", nil)
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		respondError(w, http.StatusUnauthorized, codeAuthentication, "invalid credentials", nil)
		return
	}

	user, err := h.db.GetUser(r.Context(), tenantID, userID)
	if err != nil {
		respondStoreError(w, err, "user")
		return
	}
	respondJSON(w, http.StatusOK, user, start)
}

// bootstrapSuperuser creates the first account on an empty install. The
// configured bootstrap email gets a superuser admin in a dedicated
// tenant on its first login attempt.
func (h *Handler) bootstrapSuperuser(ctx context.Context, email string) error {
	sec := &h.cfg.Security
	if sec.BootstrapEmail == "" || sec.BootstrapPassword == "" || email != sec.BootstrapEmail {
		return nil
	}

	count, err := h.db.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tenant := &models.Tenant{Name: "System", Slug: "system", Active: true}
	if err := h.db.CreateTenant(ctx, tenant); err != nil {
		if errors.Is(err, database.ErrConflict) {
			existing, getErr := h.db.GetTenantBySlug(ctx, "system")
			if getErr != nil {
				return getErr
			}
			tenant = existing
		} else {
			return err
		}
	}

	hash, err := auth.HashPassword(sec.BootstrapPassword)
	if err != nil {
		return err
	}

	user := &models.User{
		TenantID:     tenant.ID,
		Email:        sec.BootstrapEmail,
		FullName:     "Bootstrap Administrator",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Superuser:    true,
		Active:       true,
	}
	if err := h.db.CreateUser(ctx, user); err != nil && !errors.Is(err, database.ErrConflict) {
		return err
	}

	logging.Info().
		Str("email", sanitizeLogValue(sec.BootstrapEmail)).
		Msg("Bootstrapped superuser account")
	return nil
}
