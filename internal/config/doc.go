// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package config loads and validates application configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, then an
// optional YAML config file, then environment variables. Environment
// variables always win. The loaded Config is immutable and safe for
// concurrent reads.
//
// Secrets (JWT_SECRET, APIFY_TOKEN, YOUTUBE_API_KEY, GOOGLE_SEARCH_API_KEY,
// BOOTSTRAP_PASSWORD) should be supplied via environment variables rather
// than the config file.
package config
