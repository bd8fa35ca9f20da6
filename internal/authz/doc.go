// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package authz enforces role-based access with Casbin.
//
// The embedded model matches roles against request paths (keyMatch2) and
// HTTP methods (regexMatch). Roles form a hierarchy: admin inherits
// editor, editor inherits viewer. Superusers skip policy evaluation and
// are the only identities that can reach tenant management routes.
package authz
