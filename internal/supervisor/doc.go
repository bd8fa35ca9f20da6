// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package supervisor runs the service's long-lived components under a
// suture v4 supervision tree.
//
// The tree isolates failures by layer: ingestion workers, the realtime
// event hub, and the HTTP server restart independently. Supervisor events
// are logged through the zerolog-backed slog bridge in internal/logging.
package supervisor
