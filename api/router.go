package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/carposter/api/handler"
	"github.com/use-agent/carposter/api/middleware"
	"github.com/use-agent/carposter/config"
	"github.com/use-agent/carposter/webhook"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health stays outside auth so probes always work.
func NewRouter(cfg *config.Config, jobs *handler.Jobs, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(jobs, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/specs", handler.Specs(jobs))
	protected.POST("/posters", handler.Posters(jobs, webhook.NewNotifier()))
	protected.GET("/posters/:name", handler.PosterFile(cfg.Output.Dir))

	return r
}
