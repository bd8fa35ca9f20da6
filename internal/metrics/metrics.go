// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Ingestion runs per provider
// - LLM enrichment
// - Circuit breakers guarding upstream providers
// - NATS job queue
// - Realtime connections

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Ingestion Metrics
	IngestRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_run_duration_seconds",
			Help:    "Duration of ingestion runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"source"},
	)

	IngestItemsFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_items_found_total",
			Help: "Total number of items returned by providers",
		},
		[]string{"source"},
	)

	IngestItemsStored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_items_stored_total",
			Help: "Total number of new reports stored",
		},
		[]string{"source"},
	)

	IngestItemsDuplicate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_items_duplicate_total",
			Help: "Total number of items skipped as duplicates",
		},
		[]string{"source"},
	)

	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_errors_total",
			Help: "Total number of ingestion errors",
		},
		[]string{"source", "error_type"}, // provider, resolve, enrich, database
	)

	IngestLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ingest_last_success_timestamp",
			Help: "Unix timestamp of last successful ingestion run per source",
		},
		[]string{"source"},
	)

	// URL Resolver Metrics
	ResolverCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_cache_hits_total",
			Help: "Total number of resolved-URL cache hits",
		},
	)

	ResolverCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_cache_misses_total",
			Help: "Total number of resolved-URL cache misses",
		},
	)

	ResolverFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_failures_total",
			Help: "Total number of URL resolution failures",
		},
	)

	// LLM Enrichment Metrics
	LLMRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Duration of LLM enrichment calls in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_requests_total",
			Help: "Total number of LLM enrichment calls",
		},
		[]string{"result"}, // success, parse_failed, error
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Job Queue Metrics
	QueueMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_messages_published_total",
			Help: "Total number of job messages published",
		},
	)

	QueueMessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_messages_consumed_total",
			Help: "Total number of job messages consumed",
		},
	)

	QueueMessagesFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_messages_failed_total",
			Help: "Total number of job messages that failed processing",
		},
	)

	SchedulerJobsTriggered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_jobs_triggered_total",
			Help: "Total number of jobs triggered",
		},
		[]string{"trigger"}, // schedule, manual
	)

	// Summary Metrics
	SummaryGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "summary_generation_duration_seconds",
			Help:    "Duration of PDF summary generation in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	SummariesGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summaries_generated_total",
			Help: "Total number of PDF summaries generated",
		},
		[]string{"result"}, // success, no_data, failed
	)

	// Realtime Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	SSEConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections",
			Help: "Current number of active SSE streams",
		},
	)

	RealtimeEventsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_events_sent_total",
			Help: "Total number of realtime events delivered",
		},
		[]string{"transport"}, // websocket, sse
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordIngestRun records the outcome of an ingestion run for a source.
func RecordIngestRun(source string, duration time.Duration, found, stored, duplicate int, err error) {
	IngestRunDuration.WithLabelValues(source).Observe(duration.Seconds())
	IngestItemsFound.WithLabelValues(source).Add(float64(found))
	IngestItemsStored.WithLabelValues(source).Add(float64(stored))
	IngestItemsDuplicate.WithLabelValues(source).Add(float64(duplicate))
	if err != nil {
		IngestErrors.WithLabelValues(source, categorizeIngestError(err)).Inc()
	} else {
		IngestLastSuccess.WithLabelValues(source).Set(float64(time.Now().Unix()))
	}
}

// categorizeIngestError buckets ingestion errors for the error_type label.
func categorizeIngestError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "resolve"):
		return "resolve"
	case strings.Contains(msg, "enrich"), strings.Contains(msg, "llm"):
		return "enrich"
	case strings.Contains(msg, "database"), strings.Contains(msg, "insert"):
		return "database"
	default:
		return "provider"
	}
}

// RecordLLMRequest records an LLM enrichment call.
func RecordLLMRequest(duration time.Duration, result string) {
	LLMRequestDuration.Observe(duration.Seconds())
	LLMRequestsTotal.WithLabelValues(result).Inc()
}

// RecordSummaryGeneration records a PDF summary generation.
func RecordSummaryGeneration(duration time.Duration, result string) {
	SummaryGenerationDuration.Observe(duration.Seconds())
	SummariesGenerated.WithLabelValues(result).Inc()
}
