// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package api implements the REST surface of the service.
//
// Every response uses a uniform envelope with status, data, metadata, and
// error fields. Handlers resolve the effective tenant from the
// authenticated claims, so tenant isolation holds even when routing or
// middleware is misconfigured. Role checks run in middleware against the
// casbin policy; handlers only see requests the policy already allowed.
package api
