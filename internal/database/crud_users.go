// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/models"
)

const userColumns = `id, tenant_id, email, full_name, password_hash, role, superuser, active, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.FullName, &u.PasswordHash,
		&u.Role, &u.Superuser, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user. Email is globally unique so logins do
// not need to know the tenant.
func (db *DB) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.TenantID, u.Email, u.FullName, u.PasswordHash,
		u.Role, u.Superuser, u.Active, u.CreatedAt, u.UpdatedAt)
	recordQuery("insert", "users", start, err)
	if isUniqueViolation(err) {
		return fmt.Errorf("user email %q: %w", u.Email, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser fetches a user by ID within a tenant.
func (db *DB) GetUser(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? AND tenant_id = ?`, id, tenantID)
	u, err := scanUser(row)
	recordQuery("select", "users", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail fetches a user by email across tenants. Used by login.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	recordQuery("select", "users", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns all users in a tenant ordered by creation time.
func (db *DB) ListUsers(ctx context.Context, tenantID uuid.UUID) ([]models.User, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE tenant_id = ? ORDER BY created_at`, tenantID)
	recordQuery("select", "users", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer closeQuietly(rows)

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// UpdateUser updates profile, role, and active state. The password hash
// is only written when non-empty.
func (db *DB) UpdateUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `UPDATE users SET email = ?, full_name = ?, role = ?, superuser = ?, active = ?, updated_at = ?`
	args := []any{u.Email, u.FullName, u.Role, u.Superuser, u.Active, u.UpdatedAt}
	if u.PasswordHash != "" {
		query += `, password_hash = ?`
		args = append(args, u.PasswordHash)
	}
	query += ` WHERE id = ? AND tenant_id = ?`
	args = append(args, u.ID, u.TenantID)

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, query, args...)
	recordQuery("update", "users", start, err)
	if isUniqueViolation(err) {
		return fmt.Errorf("user email %q: %w", u.Email, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteUser removes a user from a tenant.
func (db *DB) DeleteUser(ctx context.Context, tenantID, id uuid.UUID) error {
	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM users WHERE id = ? AND tenant_id = ?`, id, tenantID)
	recordQuery("delete", "users", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRowAffected(res)
}

// CountUsers returns the total number of users across all tenants. Used
// by the bootstrap check on startup.
func (db *DB) CountUsers(ctx context.Context) (int64, error) {
	start := time.Now()
	var n int64
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	recordQuery("select", "users", start, err)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
