// Package http assembles the API router.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	analyticshandler "gatepass/internal/analytics/handler"
	entryhandler "gatepass/internal/entry/handler"
	eventhandler "gatepass/internal/event/handler"
	fileshandler "gatepass/internal/files/handler"
	"gatepass/internal/platform/metrics"
	"gatepass/internal/platform/middleware"
	staffhandler "gatepass/internal/staff/handler"
	touristhandler "gatepass/internal/tourist/handler"
	"gatepass/internal/transport/http/shared"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Validator middleware.TokenValidator

	Events    *eventhandler.Handler
	Tourists  *touristhandler.Handler
	Entries   *entryhandler.Handler
	Analytics *analyticshandler.Handler
	Staff     *staffhandler.Handler
	Files     *fileshandler.Handler
}

// New builds the HTTP handler tree.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Latency(d.Metrics))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/static/access", d.Files.Access)

	requireAuth := middleware.RequireAuth(d.Validator, d.Logger)

	r.Route("/event", func(r chi.Router) {
		d.Events.RegisterPublic(r)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			d.Events.RegisterProtected(r)
		})
	})

	r.Route("/tourists", func(r chi.Router) {
		d.Tourists.RegisterPublic(r)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			d.Tourists.RegisterProtected(r)
		})
	})

	r.Route("/entry", func(r chi.Router) {
		r.Use(requireAuth)
		d.Entries.RegisterProtected(r)
	})

	r.Route("/analytics", func(r chi.Router) {
		r.Use(requireAuth)
		d.Analytics.RegisterProtected(r)
	})

	r.Route("/files", func(r chi.Router) {
		r.Use(requireAuth)
		d.Files.RegisterProtected(r)
	})

	r.Route("/users", func(r chi.Router) {
		d.Staff.RegisterPublic(r)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			d.Staff.RegisterProtected(r)
		})
	})

	return r
}
