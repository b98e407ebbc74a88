package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/trawler/api/handler"
	"github.com/use-agent/trawler/api/middleware"
	"github.com/use-agent/trawler/cache"
	"github.com/use-agent/trawler/config"
	"github.com/use-agent/trawler/metrics"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health and metrics stay outside auth so probes and scrapers always work.
func NewRouter(runner handler.TrawlRunner, stats handler.StatsFunc, cfg *config.Config, cc *cache.Cache, notifier handler.Notifier, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(stats, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.GET("/sites", handler.Sites())
	protected.POST("/trawl", handler.Trawl(runner, cfg.Trawl, cc, notifier))

	return r
}
