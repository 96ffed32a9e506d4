package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/carposter/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// Reports "busy" while every job slot is taken.
func Health(jobs *Jobs, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		active := jobs.Active()

		status := "healthy"
		if limit := jobs.Limit(); limit > 0 && active >= limit {
			status = "busy"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:     status,
			Uptime:     time.Since(startTime).Round(time.Second).String(),
			ActiveJobs: active,
			Version:    Version,
		})
	}
}
