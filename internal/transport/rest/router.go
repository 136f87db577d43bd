package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/caseflow-backend/internal/config"
	"github.com/heartmarshall/caseflow-backend/internal/metrics"
	"github.com/heartmarshall/caseflow-backend/internal/transport/middleware"
)

// RouterDeps are the collaborators of the HTTP API.
type RouterDeps struct {
	Logger    *slog.Logger
	Trash     *TrashHandler
	Summary   *SummaryHandler
	Health    *HealthHandler
	Validator middleware.TokenValidator
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Limiter   *middleware.RateLimiter
	CORS      config.CORSConfig
	RateLimit config.RateLimitConfig
}

// NewRouter builds the chi router with the middleware chain
// RequestID, Recovery, Logger, Metrics, CORS, Auth.
func NewRouter(d RouterDeps) chi.Router {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recovery(d.Logger),
		middleware.Logger(d.Logger),
		middleware.Metrics(d.Metrics),
		middleware.CORS(d.CORS),
		middleware.Auth(d.Validator),
	)

	r.Get("/live", d.Health.Live)
	r.Get("/ready", d.Health.Ready)
	r.Get("/health", d.Health.Health)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.RequireActor)

		api.Get("/summary", d.Summary.Get)
		api.Get("/trash", d.Trash.List)
		api.Post("/trash/restore", d.Trash.RestoreBody)
		api.Post("/trash/{kind}/{id}", d.Trash.SoftDelete)
		api.Post("/trash/{kind}/{id}/restore", d.Trash.Restore)

		// Irreversible operations are rate limited per client IP.
		api.Group(func(destructive chi.Router) {
			if d.Limiter != nil {
				destructive.Use(d.Limiter.Limit(d.RateLimit.DestructivePerMinute))
			}
			destructive.Delete("/trash/{kind}/{id}", d.Trash.Purge)
			destructive.Delete("/trash", d.Trash.Empty)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeValidation, "method not allowed")
	})

	return r
}
