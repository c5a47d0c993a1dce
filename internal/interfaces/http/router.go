// Package http wires the route tree and the server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/famscope/famscope/internal/infrastructure/monitoring/logging"
	"github.com/famscope/famscope/internal/interfaces/http/handlers"
	"github.com/famscope/famscope/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware the route tree needs.
type RouterConfig struct {
	TreeHandler   *handlers.TreeHandler
	HealthHandler *handlers.HealthHandler

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler

	// HTTPObserver records per-request metrics when set.
	HTTPObserver middleware.HTTPObserver

	Logger     logging.Logger
	CORSConfig *middleware.CORSConfig
	LogConfig  *middleware.LoggingConfig
}

// NewRouter builds the complete route tree: global middleware, public
// probes, metrics, and the consultation endpoints.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORSConfig != nil {
		corsCfg = *cfg.CORSConfig
	}
	r.Use(middleware.CORS(corsCfg))

	if cfg.Logger != nil {
		logCfg := middleware.DefaultLoggingConfig()
		if cfg.LogConfig != nil {
			logCfg = *cfg.LogConfig
		}
		r.Use(middleware.RequestLogging(cfg.Logger, logCfg))
	}
	if cfg.HTTPObserver != nil {
		r.Use(middleware.Metrics(cfg.HTTPObserver))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.TreeHandler != nil {
		r.Get("/consultar-arbol", cfg.TreeHandler.Consultar)
		r.Get("/descargar-arbol-pdf", cfg.TreeHandler.DescargarPDF)
	}

	return r
}
