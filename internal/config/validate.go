// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// minJWTSecretLength is enforced in production. HS256 security depends
// on secret entropy.
const minJWTSecretLength = 32

// Validate checks the configuration for missing or malformed values.
// Production mode enforces stricter security requirements.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("api.default_page_size must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must be >= api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}

	if c.NATS.WorkerCount < 1 {
		return fmt.Errorf("nats.worker_count must be at least 1, got %d", c.NATS.WorkerCount)
	}
	if !c.NATS.EmbeddedServer && c.NATS.URL == "" {
		return fmt.Errorf("nats.url is required when nats.embedded_server is false")
	}

	if c.Scheduler.Enabled && c.Scheduler.CheckInterval <= 0 {
		return fmt.Errorf("scheduler.check_interval must be positive, got %s", c.Scheduler.CheckInterval)
	}

	if c.LLM.Enabled {
		if err := validateURL("llm.url", c.LLM.URL); err != nil {
			return err
		}
		if c.LLM.Model == "" {
			return fmt.Errorf("llm.model is required when llm.enabled is true")
		}
		if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
			return fmt.Errorf("llm.temperature must be 0-2, got %g", c.LLM.Temperature)
		}
	}

	if c.Summaries.Dir == "" {
		return fmt.Errorf("summaries.dir is required")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required (set JWT_SECRET)")
	}
	if c.IsProduction() {
		if len(c.Security.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("security.jwt_secret must be at least %d characters in production", minJWTSecretLength)
		}
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("security.cors_origins must not contain * in production")
			}
		}
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive, got %s", c.Security.SessionTimeout)
	}
	if c.Security.BootstrapEmail != "" && c.Security.BootstrapPassword == "" {
		return fmt.Errorf("security.bootstrap_password is required when bootstrap_email is set")
	}
	return nil
}

func (c *Config) validateProviders() error {
	p := c.Providers
	if p.Apify.Token != "" {
		if err := validateURL("providers.apify.base_url", p.Apify.BaseURL); err != nil {
			return err
		}
	}
	if p.YouTube.APIKey != "" {
		if err := validateURL("providers.youtube.base_url", p.YouTube.BaseURL); err != nil {
			return err
		}
	}
	if p.GoogleSearch.APIKey != "" {
		if p.GoogleSearch.EngineID == "" {
			return fmt.Errorf("providers.google_search.engine_id is required when api_key is set")
		}
		if err := validateURL("providers.google_search.base_url", p.GoogleSearch.BaseURL); err != nil {
			return err
		}
	}
	if p.Resolver.CachePath == "" {
		return fmt.Errorf("providers.resolver.cache_path is required")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", field, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", field)
	}
	return nil
}
