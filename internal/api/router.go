// ABMC Earned Media Reports - Multi-Tenant Earned Media Analytics
// Copyright 2026 ABMC
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/abmc/earned-media

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abmc/earned-media/internal/auth"
	"github.com/abmc/earned-media/internal/authz"
	"github.com/abmc/earned-media/internal/middleware"
)

// Login attempts allowed per IP per window. Kept deliberately strict to
// slow down credential stuffing.
const (
	loginRateLimit  = 5
	loginRateWindow = time.Minute

	healthRateLimit  = 1000
	healthRateWindow = time.Minute
)

// Router assembles the HTTP routing tree around a Handler.
type Router struct {
	handler *Handler
	authn   *auth.Middleware
	authz   *authz.Middleware
}

// NewRouter wires the handler to authentication and authorization
// middleware. Rejections are written through the handler's error envelope
// so clients see a consistent shape on every status code.
func NewRouter(handler *Handler, enforcer *authz.Enforcer) *Router {
	authn := auth.NewMiddleware(handler.jwt, func(w http.ResponseWriter, _ *http.Request, message string) {
		respondError(w, http.StatusUnauthorized, codeAuthentication, message, nil)
	})
	authzMW := authz.NewMiddleware(enforcer, func(w http.ResponseWriter, _ *http.Request, message string) {
		respondError(w, http.StatusForbidden, codeAuthorization, message, nil)
	})
	return &Router{handler: handler, authn: authn, authz: authzMW}
}

// Setup builds the complete routing tree.
func (rt *Router) Setup() http.Handler {
	h := rt.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Tenant-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints stay outside authentication so orchestrators can
	// probe before any user exists.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(healthRateLimit, healthRateWindow))
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(httprate.LimitByIP(loginRateLimit, loginRateWindow)).Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(rt.authn.Authenticate)
			r.Use(rt.authz.Authorize)
			r.Get("/me", h.Me)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		if !h.cfg.Security.RateLimitDisabled {
			r.Use(httprate.LimitByRealIP(h.cfg.Security.RateLimitReqs, h.cfg.Security.RateLimitWindow))
		}
		r.Use(middleware.PrometheusMetrics)
		r.Use(rt.authn.Authenticate)

		// Tenant administration is superuser territory and sits outside
		// the role policy.
		r.Route("/tenants", func(r chi.Router) {
			r.Use(rt.authz.RequireSuperuser)
			r.Get("/", h.ListTenants)
			r.Post("/", h.CreateTenant)
			r.Get("/{id}", h.GetTenant)
			r.Put("/{id}", h.UpdateTenant)
			r.Patch("/{id}", h.UpdateTenant)
			r.Delete("/{id}", h.DeleteTenant)
		})

		// Everything below is role-gated by the casbin policy.
		r.Group(func(r chi.Router) {
			r.Use(rt.authz.Authorize)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/", h.ListReports)
				r.Post("/", h.CreateReport)
				r.Get("/{id}", h.GetReport)
				r.Put("/{id}", h.UpdateReport)
				r.Patch("/{id}", h.UpdateReport)
				r.Delete("/{id}", h.DeleteReport)
			})

			r.Get("/exports/reports", h.ExportReports)

			r.Route("/brands", func(r chi.Router) {
				r.Get("/", h.ListBrands)
				r.Post("/", h.CreateBrand)
				r.Get("/{id}", h.GetBrand)
				r.Put("/{id}", h.UpdateBrand)
				r.Patch("/{id}", h.UpdateBrand)
				r.Delete("/{id}", h.DeleteBrand)
			})

			r.Route("/feeds", func(r chi.Router) {
				r.Get("/", h.ListFeeds)
				r.Post("/", h.CreateFeed)
				r.Get("/{id}", h.GetFeed)
				r.Put("/{id}", h.UpdateFeed)
				r.Patch("/{id}", h.UpdateFeed)
				r.Delete("/{id}", h.DeleteFeed)
				r.Post("/{id}/run", h.RunFeed)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", h.ListJobs)
				r.Post("/", h.CreateJob)
				r.Get("/{id}", h.GetJob)
				r.Put("/{id}", h.UpdateJob)
				r.Patch("/{id}", h.UpdateJob)
				r.Delete("/{id}", h.DeleteJob)
				r.Post("/{id}/run", h.RunJob)
				r.Get("/{id}/executions", h.ListJobExecutions)
			})

			r.Route("/executions", func(r chi.Router) {
				r.Get("/", h.ListExecutions)
				r.Get("/{id}", h.GetExecution)
			})

			r.Route("/lists", func(r chi.Router) {
				r.Get("/", h.ListLists)
				r.Post("/", h.CreateList)
				r.Get("/{id}", h.GetList)
				r.Put("/{id}", h.UpdateList)
				r.Patch("/{id}", h.UpdateList)
				r.Delete("/{id}", h.DeleteList)
				r.Get("/{id}/reports", h.ListListReports)
				r.Post("/{id}/items", h.AddListItem)
				r.Delete("/{id}/items/{reportID}", h.RemoveListItem)
			})

			r.Route("/summaries", func(r chi.Router) {
				r.Get("/", h.ListSummaries)
				r.Post("/", h.CreateSummary)
				r.Get("/{id}", h.GetSummary)
				r.Get("/{id}/download", h.DownloadSummary)
				r.Delete("/{id}", h.DeleteSummary)
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/overview", h.AnalyticsOverview)
				r.Get("/mentions", h.AnalyticsMentions)
				r.Get("/sentiment", h.AnalyticsSentiment)
				r.Get("/brands", h.AnalyticsBrands)
				r.Get("/sources", h.AnalyticsSources)
				r.Get("/reach", h.AnalyticsReach)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.ListUsers)
				r.Post("/", h.CreateUser)
				r.Get("/{id}", h.GetUser)
				r.Put("/{id}", h.UpdateUser)
				r.Patch("/{id}", h.UpdateUser)
				r.Delete("/{id}", h.DeleteUser)
			})

			// Realtime progress. WebSocket and SSE share the hub; both
			// carry tenant scoping from the authenticated claims.
			r.Get("/ws", h.hub.ServeWS)
			r.Get("/events", h.hub.ServeSSE)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
