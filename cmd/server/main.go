// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abmc/earned-media/internal/api"
	"github.com/abmc/earned-media/internal/auth"
	"github.com/abmc/earned-media/internal/authz"
	"github.com/abmc/earned-media/internal/cache"
	"github.com/abmc/earned-media/internal/config"
	"github.com/abmc/earned-media/internal/database"
	"github.com/abmc/earned-media/internal/enrich"
	"github.com/abmc/earned-media/internal/ingest"
	"github.com/abmc/earned-media/internal/jobs"
	"github.com/abmc/earned-media/internal/logging"
	"github.com/abmc/earned-media/internal/realtime"
	"github.com/abmc/earned-media/internal/summary"
	"github.com/abmc/earned-media/internal/supervisor"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("scheduler", cfg.Scheduler.Enabled).
		Bool("nats_embedded", cfg.NATS.EmbeddedServer).
		Msg("Starting earned media server")

	if err := run(cfg); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

//nolint:gocyclo // sequential component wiring
func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Job queue. The NATS server usually runs embedded; an external URL
	// is supported for multi-process deployments.
	natsURL := cfg.NATS.URL
	var embedded *jobs.EmbeddedServer
	if cfg.NATS.EmbeddedServer {
		embedded, err = jobs.NewEmbeddedServer(&cfg.NATS)
		if err != nil {
			return fmt.Errorf("start embedded nats: %w", err)
		}
		natsURL = embedded.ClientURL()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := embedded.Shutdown(shutdownCtx); err != nil {
				logging.Error().Err(err).Msg("Error stopping embedded nats")
			}
		}()
		logging.Info().Str("url", natsURL).Msg("Embedded NATS server running")
	}

	if err := jobs.EnsureStream(ctx, natsURL); err != nil {
		return fmt.Errorf("provision jetstream stream: %w", err)
	}

	publisher, err := jobs.NewPublisher(natsURL)
	if err != nil {
		return fmt.Errorf("create queue publisher: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing queue publisher")
		}
	}()

	subscriber, err := jobs.NewSubscriber(&cfg.NATS, natsURL)
	if err != nil {
		return fmt.Errorf("create queue subscriber: %w", err)
	}
	defer func() {
		if err := subscriber.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing queue subscriber")
		}
	}()

	hub := realtime.NewHub()

	// Content providers. RSS is always available; API-backed providers
	// register only when their credentials are configured.
	providers := []ingest.Provider{ingest.NewRSSProvider(&cfg.Providers.RSS)}
	if cfg.Providers.Apify.Token != "" {
		providers = append(providers,
			ingest.NewInstagramProvider(&cfg.Providers.Apify),
			ingest.NewTikTokProvider(&cfg.Providers.Apify))
		logging.Info().Msg("Apify providers enabled (instagram, tiktok)")
	}
	if cfg.Providers.YouTube.APIKey != "" {
		providers = append(providers, ingest.NewYouTubeProvider(&cfg.Providers.YouTube))
		logging.Info().Msg("YouTube provider enabled")
	}
	if cfg.Providers.GoogleSearch.APIKey != "" {
		providers = append(providers, ingest.NewGoogleSearchProvider(&cfg.Providers.GoogleSearch))
		logging.Info().Msg("Google Custom Search provider enabled")
	}
	registry := ingest.NewRegistry(providers...)

	resolver, err := ingest.NewResolver(&cfg.Providers.Resolver)
	if err != nil {
		return fmt.Errorf("initialize url resolver: %w", err)
	}
	defer func() {
		if err := resolver.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing resolver cache")
		}
	}()

	var llm *enrich.LLMClient
	if cfg.LLM.Enabled {
		llm = enrich.NewLLMClient(&cfg.LLM)
		logging.Info().Str("model", cfg.LLM.Model).Msg("LLM enrichment enabled")
	} else {
		logging.Info().Msg("LLM enrichment disabled, using rule-based enrichment only")
	}
	enricher := enrich.NewEnricher(llm)

	runner := jobs.NewRunner(db, registry, resolver, enricher, hub, cfg.Scheduler.ExecutionTimeout)
	scheduler := jobs.NewScheduler(db, publisher, &cfg.Scheduler)

	summaries, err := summary.NewGenerator(db, hub, &cfg.Summaries)
	if err != nil {
		return fmt.Errorf("initialize summary generator: %w", err)
	}
	defer summaries.Wait()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize jwt manager: %w", err)
	}
	enforcer, err := authz.NewEnforcer(&cfg.Security.Casbin)
	if err != nil {
		return fmt.Errorf("initialize authorization: %w", err)
	}

	queueUp := func() bool { return embedded == nil || embedded.IsRunning() }
	handler := api.NewHandler(api.HandlerOptions{
		DB:        db,
		JWT:       jwtManager,
		Hub:       hub,
		Publisher: publisher,
		Summaries: summaries,
		Config:    cfg,
		Cache:     cache.New(cfg.API.CacheTTL),
		QueueUp:   queueUp,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, enforcer).Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddRealtimeService(supervisor.NewFuncService("event-hub", hub.Serve))
	tree.AddIngestService(supervisor.NewFuncService("queue-subscriber", func(ctx context.Context) error {
		return subscriber.Run(ctx, runner.Run)
	}))
	if cfg.Scheduler.Enabled {
		tree.AddIngestService(supervisor.NewFuncService("scheduler", scheduler.Run))
	} else {
		logging.Info().Msg("Scheduler disabled, jobs run on demand only")
	}
	tree.AddAPIService(supervisor.NewHTTPService(server, 10*time.Second))

	logging.Info().Str("addr", server.Addr).Msg("Serving HTTP API")

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service missed shutdown timeout")
		}
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}
