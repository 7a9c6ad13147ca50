package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/msomdec/edunews/internal/domain"
	"github.com/msomdec/edunews/internal/metrics"
	"github.com/msomdec/edunews/internal/service"
)

// Deps are the collaborators the HTTP layer is built from. Metrics,
// Gatherer and AuthLimiter are optional.
type Deps struct {
	Auth      *service.AuthService
	Articles  *service.ArticleService
	Ingestion *service.IngestionService
	Stats     *service.StatsService
	DB        domain.Database

	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	AuthLimiter *service.TokenBucket
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, d Deps) {
	authHandler := NewAuthHandler(d.Auth, d.Metrics)
	newsHandler := NewNewsHandler(d.Articles)
	adminHandler := NewAdminHandler(d.Ingestion, d.Stats)

	limited := func(h http.HandlerFunc) http.Handler {
		if d.AuthLimiter == nil {
			return h
		}
		return RateLimit(d.AuthLimiter, h)
	}
	authed := func(h http.HandlerFunc) http.Handler { return RequireAuth(d.Auth, h) }
	admin := func(h http.HandlerFunc) http.Handler { return RequireAdmin(d.Auth, h) }

	health := HandleHealthz(d.DB)
	mux.Handle("GET /healthz", health)
	mux.Handle("GET /health", health)
	if d.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Handle("POST /api/auth/signup", limited(authHandler.HandleSignup))
	mux.Handle("POST /api/auth/login", limited(authHandler.HandleLogin))
	mux.Handle("POST /api/auth/refresh", limited(authHandler.HandleRefresh))
	mux.Handle("GET /api/users/me", authed(authHandler.HandleMe))

	mux.HandleFunc("GET /api/news", newsHandler.HandleList)
	mux.HandleFunc("GET /api/news/{id}", newsHandler.HandleGet)
	mux.Handle("POST /api/news", admin(newsHandler.HandleCreate))

	mux.Handle("POST /api/admin/ingest", admin(adminHandler.HandleIngest))
	mux.Handle("GET /api/admin/stats", admin(adminHandler.HandleStats))
	mux.Handle("GET /api/admin/ingestions", admin(adminHandler.HandleIngestions))
}
