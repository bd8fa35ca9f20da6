// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package metrics provides Prometheus instrumentation for all
// application components. Collectors are registered with the default
// registry via promauto and exposed at /metrics.
//
// Naming follows Prometheus conventions: <subsystem>_<name>_<unit>,
// counters end in _total, durations are histograms in seconds.
package metrics
