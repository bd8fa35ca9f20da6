// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Command server runs the earned media reports backend.
//
// The server hosts the complete stack in a single process: the DuckDB
// store, the embedded NATS JetStream job queue, scheduled and on-demand
// ingestion, LLM enrichment, PDF summary generation, and the REST API
// with realtime progress over WebSocket and SSE.
//
// Configuration is loaded via koanf from config.yaml and environment
// variables, environment taking precedence. The minimum production
// configuration is JWT_SECRET plus the bootstrap credentials:
//
//	export JWT_SECRET=$(openssl rand -base64 32)
//	export BOOTSTRAP_EMAIL=admin@example.com
//	export BOOTSTRAP_PASSWORD=change-me-please
//	./server
//
// The first login with the bootstrap credentials creates the superuser
// account. Content providers activate when their credentials are set
// (APIFY_TOKEN, YOUTUBE_API_KEY, GOOGLE_SEARCH_API_KEY); RSS ingestion
// needs no credentials.
//
// Shutdown is graceful on SIGINT and SIGTERM: the HTTP listener drains,
// in-flight ingestion runs record their terminal state, and the embedded
// NATS server flushes its JetStream store.
package main
