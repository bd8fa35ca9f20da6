// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package authz

import (
	"sync"
	"time"
)

// decisionCache caches authorization decisions. The policy set is small
// and effectively static at runtime, so a TTL map is enough; role changes
// take effect on a user's next token anyway.
type decisionCache struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]cachedDecision
}

type cachedDecision struct {
	allowed   bool
	expiresAt time.Time
}

func newDecisionCache(ttl time.Duration) *decisionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &decisionCache{
		ttl:   ttl,
		items: make(map[string]cachedDecision),
	}
}

func cacheKey(role, path, method string) string {
	return role + ":" + method + ":" + path
}

func (c *decisionCache) get(role, path, method string) (allowed, ok bool) {
	c.mu.RLock()
	item, found := c.items[cacheKey(role, path, method)]
	c.mu.RUnlock()

	if !found || time.Now().After(item.expiresAt) {
		return false, false
	}
	return item.allowed, true
}

func (c *decisionCache) set(role, path, method string, allowed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Opportunistic eviction keeps the map bounded without a sweeper
	// goroutine.
	if len(c.items) > 4096 {
		now := time.Now()
		for k, v := range c.items {
			if now.After(v.expiresAt) {
				delete(c.items, k)
			}
		}
	}

	c.items[cacheKey(role, path, method)] = cachedDecision{
		allowed:   allowed,
		expiresAt: time.Now().Add(c.ttl),
	}
}
