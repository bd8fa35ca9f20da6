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

const listColumns = `l.id, l.tenant_id, l.owner_id, l.name, l.description,
	(SELECT COUNT(*) FROM list_items li WHERE li.list_id = l.id) AS item_count,
	l.created_at, l.updated_at`

func scanList(row interface{ Scan(...any) error }) (*models.List, error) {
	var (
		l    models.List
		desc sql.NullString
	)
	err := row.Scan(&l.ID, &l.TenantID, &l.OwnerID, &l.Name, &desc,
		&l.ItemCount, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.Description = desc.String
	return &l, nil
}

// CreateList inserts a curated list.
func (db *DB) CreateList(ctx context.Context, l *models.List) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now

	start := time.Now()
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO lists (id, tenant_id, owner_id, name, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.TenantID, l.OwnerID, l.Name, nullIfEmpty(l.Description), l.CreatedAt, l.UpdatedAt)
	recordQuery("insert", "lists", start, err)
	if err != nil {
		return fmt.Errorf("failed to insert list: %w", err)
	}
	return nil
}

// GetList fetches a list with its item count.
func (db *DB) GetList(ctx context.Context, tenantID, id uuid.UUID) (*models.List, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM lists l WHERE l.id = ? AND l.tenant_id = ?`, id, tenantID)
	l, err := scanList(row)
	recordQuery("select", "lists", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return l, nil
}

// ListLists returns all lists in a tenant with item counts.
func (db *DB) ListLists(ctx context.Context, tenantID uuid.UUID) ([]models.List, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+listColumns+` FROM lists l WHERE l.tenant_id = ? ORDER BY l.name`, tenantID)
	recordQuery("select", "lists", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer closeQuietly(rows)

	lists := []models.List{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

// UpdateList updates name and description.
func (db *DB) UpdateList(ctx context.Context, l *models.List) error {
	l.UpdatedAt = time.Now().UTC()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`UPDATE lists SET name = ?, description = ?, updated_at = ? WHERE id = ? AND tenant_id = ?`,
		l.Name, nullIfEmpty(l.Description), l.UpdatedAt, l.ID, l.TenantID)
	recordQuery("update", "lists", start, err)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteList removes a list and its items.
func (db *DB) DeleteList(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM list_items WHERE list_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete list items: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`DELETE FROM lists WHERE id = ? AND tenant_id = ?`, id, tenantID)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	if err := requireRowAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}

// AddListItem places a report on a list. Re-adding an already-listed
// report is a no-op; returns false in that case. The report must belong
// to the same tenant as the list.
func (db *DB) AddListItem(ctx context.Context, tenantID, listID, reportID uuid.UUID, note string) (bool, error) {
	// Verify both sides are tenant-visible before writing
	if _, err := db.GetList(ctx, tenantID, listID); err != nil {
		return false, err
	}
	if _, err := db.GetReport(ctx, tenantID, reportID); err != nil {
		return false, err
	}

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO list_items (list_id, report_id, note, added_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (list_id, report_id) DO NOTHING`,
		listID, reportID, nullIfEmpty(note), time.Now().UTC())
	recordQuery("insert", "list_items", start, err)
	if err != nil {
		return false, fmt.Errorf("failed to add list item: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// RemoveListItem takes a report off a list.
func (db *DB) RemoveListItem(ctx context.Context, tenantID, listID, reportID uuid.UUID) error {
	if _, err := db.GetList(ctx, tenantID, listID); err != nil {
		return err
	}

	start := time.Now()
	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM list_items WHERE list_id = ? AND report_id = ?`, listID, reportID)
	recordQuery("delete", "list_items", start, err)
	if err != nil {
		return fmt.Errorf("failed to remove list item: %w", err)
	}
	return requireRowAffected(res)
}

// ListReportsInList returns the reports on a list, newest addition first.
func (db *DB) ListReportsInList(ctx context.Context, tenantID, listID uuid.UUID) ([]models.Report, error) {
	if _, err := db.GetList(ctx, tenantID, listID); err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports
		 WHERE tenant_id = ? AND id IN (SELECT report_id FROM list_items WHERE list_id = ?)
		 ORDER BY created_at DESC`, tenantID, listID)
	recordQuery("select", "list_items", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports in list: %w", err)
	}
	defer closeQuietly(rows)

	reports := []models.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}
