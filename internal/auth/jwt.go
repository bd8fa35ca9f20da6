// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/models"
)

// Claims carries the authenticated identity through a request. Tokens are
// stateless HS256; everything authorization needs is in the claims so no
// database lookup happens on the hot path.
type Claims struct {
	UserID    string `json:"uid"`
	TenantID  string `json:"tid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Superuser bool   `json:"su,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager creates and validates session tokens.
//
// Uses HMAC-SHA256 signing. The secret is stored as []byte and must be at
// least 32 characters in production (enforced by config validation).
type JWTManager struct {
	secret            []byte
	timeout           time.Duration
	rememberMeTimeout time.Duration
}

// NewJWTManager builds a manager from the security config. Returns an error
// if the secret is empty; length is validated at config load.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}

	rememberMe := cfg.RememberMeTimeout
	if rememberMe <= 0 {
		rememberMe = cfg.SessionTimeout
	}

	return &JWTManager{
		secret:            []byte(cfg.JWTSecret),
		timeout:           cfg.SessionTimeout,
		rememberMeTimeout: rememberMe,
	}, nil
}

// GenerateToken signs a token for an authenticated user. With rememberMe the
// longer remember-me timeout applies instead of the session timeout.
func (m *JWTManager) GenerateToken(user *models.User, rememberMe bool) (string, time.Time, error) {
	timeout := m.timeout
	if rememberMe {
		timeout = m.rememberMeTimeout
	}
	now := time.Now()
	expiresAt := now.Add(timeout)

	claims := &Claims{
		UserID:    user.ID.String(),
		TenantID:  user.TenantID.String(),
		Email:     user.Email,
		Role:      user.Role,
		Superuser: user.Superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token string and returns its claims.
//
// Rejects tokens signed with anything other than HMAC to prevent algorithm
// confusion; expiry and not-before are checked by the parser.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
