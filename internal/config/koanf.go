// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// priority order. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/earned-media/config.yaml",
	"/etc/earned-media/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/earnedmedia.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
			CacheTTL:        60 * time.Second,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			SessionTimeout:    24 * time.Hour,
			RememberMeTimeout: 30 * 24 * time.Hour,
			BootstrapEmail:    "",
			BootstrapPassword: "",
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			Casbin: CasbinConfig{
				ModelPath:  "", // empty = embedded model
				PolicyPath: "",
			},
		},
		NATS: NATSConfig{
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			StoreDir:       "/data/nats/jetstream",
			MaxMemory:      1 << 30,  // 1GB
			MaxStore:       10 << 30, // 10GB
			DurableName:    "ingest-worker",
			QueueGroup:     "ingest",
			WorkerCount:    4,
			AckWaitTimeout: 10 * time.Minute,
		},
		Scheduler: SchedulerConfig{
			Enabled:          true,
			CheckInterval:    time.Minute,
			ExecutionTimeout: 10 * time.Minute,
		},
		Providers: ProvidersConfig{
			RSS: RSSConfig{
				Timeout:   30 * time.Second,
				UserAgent: "earned-media/1.0",
				MaxItems:  100,
			},
			Apify: ApifyConfig{
				Token:          "",
				BaseURL:        "https://api.apify.com",
				InstagramActor: "apify~instagram-scraper",
				TikTokActor:    "clockworks~tiktok-scraper",
				Timeout:        5 * time.Minute,
				PollInterval:   5 * time.Second,
				MaxItems:       100,
			},
			YouTube: YouTubeConfig{
				APIKey:     "",
				BaseURL:    "https://www.googleapis.com/youtube/v3",
				Timeout:    30 * time.Second,
				MaxResults: 50,
			},
			GoogleSearch: GoogleSearchConfig{
				APIKey:   "",
				EngineID: "",
				BaseURL:  "https://www.googleapis.com/customsearch/v1",
				Timeout:  30 * time.Second,
				MaxPages: 3, // 10 results per page
			},
			Resolver: ResolverConfig{
				Timeout:   15 * time.Second,
				CachePath: "/data/resolver-cache",
				CacheTTL:  7 * 24 * time.Hour,
			},
		},
		LLM: LLMConfig{
			Enabled:     false, // opt-in, requires a running model endpoint
			URL:         "http://localhost:11434",
			Model:       "llama3.1:8b",
			Timeout:     120 * time.Second,
			Temperature: 0.2,
			MaxRetries:  2,
		},
		Summaries: SummariesConfig{
			Dir:        "/data/summaries",
			MaxReports: 500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered
// sources, precedence ENV > file > defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Env var names map to koanf paths via envTransformFunc:
	// HTTP_PORT -> server.port, APIFY_TOKEN -> providers.apify.token
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file, env override first.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices
// when set from env vars.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices.
// Env vars come in as strings but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config
// paths. Unmapped keys return empty string and are skipped, which keeps
// unrelated environment variables out of the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_port":    "server.port",
		"http_host":    "server.host",
		"http_timeout": "server.timeout",
		"environment":  "server.environment",

		// Database mappings
		"duckdb_path":       "database.path",
		"duckdb_max_memory": "database.max_memory",
		"duckdb_threads":    "database.threads",

		// API mappings
		"api_default_page_size": "api.default_page_size",
		"api_max_page_size":     "api.max_page_size",
		"api_cache_ttl":         "api.cache_ttl",

		// Security mappings
		"jwt_secret":          "security.jwt_secret",
		"session_timeout":     "security.session_timeout",
		"remember_me_timeout": "security.remember_me_timeout",
		"bootstrap_email":     "security.bootstrap_email",
		"bootstrap_password":  "security.bootstrap_password",
		"rate_limit_requests": "security.rate_limit_reqs",
		"rate_limit_window":   "security.rate_limit_window",
		"disable_rate_limit":  "security.rate_limit_disabled",
		"cors_origins":        "security.cors_origins",
		"casbin_model_path":   "security.casbin.model_path",
		"casbin_policy_path":  "security.casbin.policy_path",

		// NATS mappings
		"nats_url":          "nats.url",
		"nats_embedded":     "nats.embedded_server",
		"nats_store_dir":    "nats.store_dir",
		"nats_max_memory":   "nats.max_memory",
		"nats_max_store":    "nats.max_store",
		"nats_durable_name": "nats.durable_name",
		"nats_queue_group":  "nats.queue_group",
		"nats_workers":      "nats.worker_count",
		"nats_ack_wait":     "nats.ack_wait_timeout",

		// Scheduler mappings
		"scheduler_enabled":        "scheduler.enabled",
		"scheduler_check_interval": "scheduler.check_interval",
		"scheduler_exec_timeout":   "scheduler.execution_timeout",

		// Provider mappings
		"rss_timeout":             "providers.rss.timeout",
		"rss_user_agent":          "providers.rss.user_agent",
		"rss_max_items":           "providers.rss.max_items",
		"apify_token":             "providers.apify.token",
		"apify_base_url":          "providers.apify.base_url",
		"apify_instagram_actor":   "providers.apify.instagram_actor",
		"apify_tiktok_actor":      "providers.apify.tiktok_actor",
		"apify_timeout":           "providers.apify.timeout",
		"apify_poll_interval":     "providers.apify.poll_interval",
		"apify_max_items":         "providers.apify.max_items",
		"youtube_api_key":         "providers.youtube.api_key",
		"youtube_base_url":        "providers.youtube.base_url",
		"youtube_timeout":         "providers.youtube.timeout",
		"youtube_max_results":     "providers.youtube.max_results",
		"google_search_api_key":   "providers.google_search.api_key",
		"google_search_engine_id": "providers.google_search.engine_id",
		"google_search_base_url":  "providers.google_search.base_url",
		"google_search_timeout":   "providers.google_search.timeout",
		"google_search_max_pages": "providers.google_search.max_pages",
		"resolver_timeout":        "providers.resolver.timeout",
		"resolver_cache_path":     "providers.resolver.cache_path",
		"resolver_cache_ttl":      "providers.resolver.cache_ttl",

		// LLM mappings
		"llm_enabled":     "llm.enabled",
		"llm_url":         "llm.url",
		"llm_model":       "llm.model",
		"llm_timeout":     "llm.timeout",
		"llm_temperature": "llm.temperature",
		"llm_max_retries": "llm.max_retries",

		// Summaries mappings
		"summaries_dir":         "summaries.dir",
		"summaries_max_reports": "summaries.max_reports",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	return ""
}
