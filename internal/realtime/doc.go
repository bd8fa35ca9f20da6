// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package realtime pushes ingestion and summary progress to clients over
// WebSocket and Server-Sent Events. A single hub fans events out with
// tenant scoping; delivery is best effort and slow consumers are skipped
// rather than allowed to stall the hub.
package realtime
