// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGetSetRoundTrip(t *testing.T) {
	c := New(time.Minute)

	c.Set("overview", map[string]int64{"total": 42})
	got, ok := c.Get("overview")
	if !ok {
		t.Fatal("Get() = miss, want hit")
	}
	if got.(map[string]int64)["total"] != 42 {
		t.Errorf("Get() = %v, want total 42", got)
	}

	if _, ok := c.Get("absent"); ok {
		t.Error("Get(absent) = hit, want miss")
	}

	hits, misses := c.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d hits %d misses, want 1/1", hits, misses)
	}
}

func TestExpiredEntryEvicted(t *testing.T) {
	c := New(10 * time.Millisecond)

	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Error("Get() = hit after TTL, want miss")
	}
}

func TestInvalidateAll(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.InvalidateAll()
	if _, ok := c.Get("a"); ok {
		t.Error("Get(a) = hit after invalidation")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("Get(b) = hit after invalidation")
	}
}

func TestKeyIsTenantScoped(t *testing.T) {
	tenantA, tenantB := uuid.New(), uuid.New()

	keyA := Key(tenantA, "overview", "2026-01-01", "2026-12-31")
	keyB := Key(tenantB, "overview", "2026-01-01", "2026-12-31")
	if keyA == keyB {
		t.Error("Key() identical for different tenants")
	}
	if keyA != Key(tenantA, "overview", "2026-01-01", "2026-12-31") {
		t.Error("Key() not stable for identical inputs")
	}
}
