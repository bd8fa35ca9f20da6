// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package middleware holds HTTP middleware shared across the API:
// request ID propagation and Prometheus instrumentation. Authentication
// and authorization middleware live in their own packages.
package middleware
