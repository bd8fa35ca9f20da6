// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package auth implements stateless JWT session authentication and
// password hashing.
//
// Tokens are HS256-signed and carry the user ID, tenant ID, email, role
// and superuser flag, so request handling never hits the database to
// establish identity. Superusers can act on behalf of another tenant via
// the X-Tenant-ID header; regular users are always pinned to the tenant
// in their token.
package auth
