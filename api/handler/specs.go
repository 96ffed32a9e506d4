package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/carposter/models"
)

// Specs returns a handler for POST /api/v1/specs.
//
// The specification is resolved live from the catalog when possible and
// from the knowledge base otherwise, so a valid make always yields 200.
func Specs(jobs *Jobs) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.SpecsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.SpecsResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		var spec *models.VehicleSpecification
		err := jobs.with(func(r Runner) error {
			var err error
			spec, err = r.Resolve(c.Request.Context(), req.Make, req.Model)
			return err
		})
		elapsed := time.Since(start).Milliseconds()
		timing := models.TimingInfo{TotalMs: elapsed, ResolveMs: elapsed}

		if err != nil {
			pe := asPosterError(err)
			c.JSON(pe.HTTPStatus(), models.SpecsResponse{
				Success: false,
				Error:   pe.ToDetail(),
				Timing:  timing,
			})
			return
		}

		c.JSON(http.StatusOK, models.SpecsResponse{
			Success:       true,
			Specification: spec,
			Timing:        timing,
		})
	}
}
