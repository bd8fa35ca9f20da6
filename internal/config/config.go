// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables.
//
// Loading order (Koanf v2):
//  1. Defaults: built-in sensible defaults for all optional settings
//  2. Config file: optional YAML file (config.yaml) for persistent settings
//  3. Environment variables: override any setting
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	API       APIConfig       `koanf:"api"`
	Security  SecurityConfig  `koanf:"security"`
	NATS      NATSConfig      `koanf:"nats"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Providers ProvidersConfig `koanf:"providers"`
	LLM       LLMConfig       `koanf:"llm"`
	Summaries SummariesConfig `koanf:"summaries"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_PORT: Listen port (default: 8080)
//   - HTTP_HOST: Bind address (default: 0.0.0.0)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
//   - ENVIRONMENT: "development" or "production"
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings. DuckDB runs embedded, so the
// only required setting is the database file path.
//
// Environment Variables:
//   - DUCKDB_PATH: Database file path (default: /data/earnedmedia.duckdb)
//   - DUCKDB_MAX_MEMORY: Memory limit, e.g. "2GB"
//   - DUCKDB_THREADS: Worker threads (0 = NumCPU)
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// APIConfig holds pagination limits for list endpoints and the TTL of
// the analytics response cache.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size"`
	MaxPageSize     int           `koanf:"max_page_size"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds authentication, authorization, and rate-limit
// settings.
//
// Environment Variables:
//   - JWT_SECRET: HMAC signing secret (required, min 32 chars in production)
//   - SESSION_TIMEOUT: Token lifetime (default: 24h)
//   - BOOTSTRAP_EMAIL / BOOTSTRAP_PASSWORD: First superuser, created on
//     startup when the users table is empty
//   - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: Per-IP request budget
//   - CORS_ORIGINS: Comma-separated allowed origins
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	RememberMeTimeout time.Duration `koanf:"remember_me_timeout"`
	BootstrapEmail    string        `koanf:"bootstrap_email"`
	BootstrapPassword string        `koanf:"bootstrap_password"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	Casbin            CasbinConfig  `koanf:"casbin"`
}

// CasbinConfig holds authorization model settings. Empty paths use the
// embedded RBAC model and policy.
type CasbinConfig struct {
	ModelPath  string `koanf:"model_path"`
	PolicyPath string `koanf:"policy_path"`
}

// NATSConfig holds the embedded NATS JetStream settings used by the
// ingestion job queue.
//
// Environment Variables:
//   - NATS_URL: Server URL (default: nats://127.0.0.1:4222)
//   - NATS_EMBEDDED: Run embedded server (default: true)
//   - NATS_STORE_DIR: JetStream storage directory
type NATSConfig struct {
	URL            string        `koanf:"url"`
	EmbeddedServer bool          `koanf:"embedded_server"`
	StoreDir       string        `koanf:"store_dir"`
	MaxMemory      int64         `koanf:"max_memory"`
	MaxStore       int64         `koanf:"max_store"`
	DurableName    string        `koanf:"durable_name"`
	QueueGroup     string        `koanf:"queue_group"`
	WorkerCount    int           `koanf:"worker_count"`
	AckWaitTimeout time.Duration `koanf:"ack_wait_timeout"`
}

// SchedulerConfig holds the scheduled ingestion settings. Due schedules
// are checked every CheckInterval and published to the job queue.
type SchedulerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	CheckInterval    time.Duration `koanf:"check_interval"`
	ExecutionTimeout time.Duration `koanf:"execution_timeout"`
}

// ProvidersConfig groups all upstream content provider settings.
type ProvidersConfig struct {
	RSS          RSSConfig          `koanf:"rss"`
	Apify        ApifyConfig        `koanf:"apify"`
	YouTube      YouTubeConfig      `koanf:"youtube"`
	GoogleSearch GoogleSearchConfig `koanf:"google_search"`
	Resolver     ResolverConfig     `koanf:"resolver"`
}

// RSSConfig holds RSS fetcher settings.
type RSSConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent"`
	MaxItems  int           `koanf:"max_items"`
}

// ApifyConfig holds Apify actor settings for Instagram and TikTok
// scraping. The token is shared across actors.
//
// Environment Variables:
//   - APIFY_TOKEN: API token (required to enable social ingestion)
//   - APIFY_INSTAGRAM_ACTOR / APIFY_TIKTOK_ACTOR: Actor IDs
type ApifyConfig struct {
	Token          string        `koanf:"token"`
	BaseURL        string        `koanf:"base_url"`
	InstagramActor string        `koanf:"instagram_actor"`
	TikTokActor    string        `koanf:"tiktok_actor"`
	Timeout        time.Duration `koanf:"timeout"`
	PollInterval   time.Duration `koanf:"poll_interval"`
	MaxItems       int           `koanf:"max_items"`
}

// YouTubeConfig holds YouTube Data API v3 settings.
type YouTubeConfig struct {
	APIKey     string        `koanf:"api_key"`
	BaseURL    string        `koanf:"base_url"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxResults int           `koanf:"max_results"`
}

// GoogleSearchConfig holds Google Custom Search JSON API settings.
// EngineID is the cx parameter of the custom search engine.
type GoogleSearchConfig struct {
	APIKey   string        `koanf:"api_key"`
	EngineID string        `koanf:"engine_id"`
	BaseURL  string        `koanf:"base_url"`
	Timeout  time.Duration `koanf:"timeout"`
	MaxPages int           `koanf:"max_pages"`
}

// ResolverConfig holds the article URL resolver settings. Resolved
// URLs are cached in Badger to avoid refetching redirect chains.
type ResolverConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	CachePath string        `koanf:"cache_path"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// LLMConfig holds settings for the enrichment model endpoint. The
// endpoint speaks the Ollama chat API with structured JSON output.
//
// Environment Variables:
//   - LLM_URL: Chat endpoint base URL (default: http://localhost:11434)
//   - LLM_MODEL: Model name (default: llama3.1:8b)
type LLMConfig struct {
	Enabled     bool          `koanf:"enabled"`
	URL         string        `koanf:"url"`
	Model       string        `koanf:"model"`
	Timeout     time.Duration `koanf:"timeout"`
	Temperature float64       `koanf:"temperature"`
	MaxRetries  int           `koanf:"max_retries"`
}

// SummariesConfig holds PDF summary generation settings.
type SummariesConfig struct {
	Dir        string `koanf:"dir"`
	MaxReports int    `koanf:"max_reports"`
}

// LoggingConfig holds log output settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: Include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
