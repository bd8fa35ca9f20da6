// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package enrich annotates ingested content with brand mentions,
// sentiment and a topic label. A deterministic word-boundary matcher
// over the tenant's brand names and aliases is the baseline; an
// Ollama-compatible model refines it with structured JSON output when
// enabled. The matcher also filters model output, so only brands the
// tenant tracks ever reach storage.
package enrich
