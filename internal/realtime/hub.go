// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package realtime

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/metrics"
)

// Hub fans events out to WebSocket clients and SSE subscribers. Delivery
// is tenant-scoped: an event for tenant A never reaches tenant B's
// connections. Superuser connections receive everything.
type Hub struct {
	clients    map[*Client]bool
	subs       map[*Subscription]bool
	broadcast  chan Event
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates an idle hub; call Serve to start delivery.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		subs:       make(map[*Subscription]bool),
		broadcast:  make(chan Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Serve runs the delivery loop until the context is canceled, then closes
// every connection so a supervisor restart never leaves orphans.
func (h *Hub) Serve(ctx context.Context) error {
	for {
		// Lifecycle events take priority over broadcasts so client
		// state is settled before messages are fanned out.
		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	logging.Info().Int("total_clients", total).Msg("WebSocket client connected")
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		metrics.WSConnections.Dec()
	}
	total := len(h.clients)
	h.mu.Unlock()

	logging.Info().Int("total_clients", total).Msg("WebSocket client disconnected")
}

// Subscribe registers an SSE subscriber for a tenant. The returned
// Subscription's channel receives matching events until cancel is called.
func (h *Hub) Subscribe(tenantID uuid.UUID, superuser bool) (*Subscription, func()) {
	sub := &Subscription{
		tenantID:  tenantID,
		superuser: superuser,
		Events:    make(chan Event, 64),
	}

	h.mu.Lock()
	h.subs[sub] = true
	h.mu.Unlock()
	metrics.SSEConnections.Inc()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[sub]; ok {
			delete(h.subs, sub)
			close(sub.Events)
			metrics.SSEConnections.Dec()
		}
		h.mu.Unlock()
	}
	return sub, cancel
}

// Broadcast queues an event for delivery. Never blocks; if the hub is
// backed up the event is dropped, progress events are advisory.
func (h *Hub) Broadcast(event Event) {
	select {
	case h.broadcast <- event:
	default:
		logging.Warn().Str("type", event.Type).Msg("Realtime broadcast buffer full, event dropped")
	}
}

func (h *Hub) deliver(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !client.wants(event) {
			continue
		}
		select {
		case client.send <- event:
			metrics.RealtimeEventsSent.WithLabelValues("websocket").Inc()
		default:
			// Slow consumer; skip rather than stall the hub
		}
	}

	for sub := range h.subs {
		if !sub.wants(event) {
			continue
		}
		select {
		case sub.Events <- event:
			metrics.RealtimeEventsSent.WithLabelValues("sse").Inc()
		default:
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
		metrics.WSConnections.Dec()
	}
	for sub := range h.subs {
		close(sub.Events)
		delete(h.subs, sub)
		metrics.SSEConnections.Dec()
	}
	logging.Info().Msg("Realtime hub shut down, all connections closed")
}

// ClientCount reports connected WebSocket clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Subscription is an SSE listener attached to the hub.
type Subscription struct {
	tenantID  uuid.UUID
	superuser bool
	Events    chan Event
}

func (s *Subscription) wants(event Event) bool {
	return s.superuser || s.tenantID == event.TenantID
}
