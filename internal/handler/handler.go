package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/squad-manager-service/internal/service"
	"github.com/rs/zerolog"
)

// Services bundles every use case the API exposes.
type Services struct {
	Players    service.PlayerService
	Formations service.FormationService
	Rivals     service.RivalService
	Matches    service.MatchService
	Plans      service.MatchPlanService
	Insights   service.InsightService
	Dashboard  service.DashboardService
}

// RouterConfig carries the cross-cutting pieces of the engine. Metrics is optional.
type RouterConfig struct {
	Logger      zerolog.Logger
	Metrics     MetricsRecorder
	CORSOrigins []string
}

// NewRouter builds the engine with recovery, CORS, request logging and metrics, then mounts
// all routes.
func NewRouter(cfg RouterConfig, store Pinger, svcs Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if mw := corsMiddleware(cfg.CORSOrigins); mw != nil {
		r.Use(mw)
	}
	r.Use(requestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(metricsMiddleware(cfg.Metrics))
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	Register(r, store, svcs)
	return r
}

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, store Pinger, svcs Services) {
	h := NewHealthHandler(store)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewDashboardHandler(svcs.Dashboard).Register(api)
		NewPlayerHandler(svcs.Players).Register(api)
		NewFormationHandler(svcs.Formations).Register(api)
		NewRivalHandler(svcs.Rivals).Register(api)
		NewMatchHandler(svcs.Matches).Register(api)
		NewMatchPlanHandler(svcs.Plans).Register(api)
		NewInsightHandler(svcs.Insights).Register(api)
	}
}

// corsMiddleware lets the SPA front-end call the API. No origins means no CORS headers.
func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return nil
	}
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
	}
	cfg.AllowOrigins = origins
	return cors.New(cfg)
}
