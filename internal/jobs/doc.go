// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

// Package jobs drives scheduled and manual content ingestion.
//
// Jobs flow through an embedded NATS JetStream queue: the scheduler
// polls for due cron schedules and publishes a request per firing, the
// API publishes requests for manual runs, and a pool of queue workers
// consumes them. Each request carries a pre-created execution row so
// every attempt is auditable, and the execution ID doubles as the
// message deduplication key.
//
// The Runner is the worker-side pipeline: fetch items from the feed's
// provider, resolve aggregator redirects, enrich with brand matching
// and the LLM annotator, and store reports with per-tenant
// deduplication. Progress is pushed to realtime subscribers as the run
// advances.
package jobs
