package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/carposter/models"
	"github.com/use-agent/carposter/pipeline"
	"github.com/use-agent/carposter/webhook"
)

// Posters returns a handler for POST /api/v1/posters.
//
// Flow:
//  1. Bind and validate the request.
//  2. Run the pipeline: resolve, photo waterfall, render.
//  3. Report the written path, photo source and timing.
//  4. Notify the request's webhook, if any, in the background.
func Posters(jobs *Jobs, hooks *webhook.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req models.PosterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.PosterResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		var res *pipeline.Result
		err := jobs.with(func(r Runner) error {
			var err error
			res, err = r.Run(c.Request.Context(), pipeline.Request{
				Make:       req.Make,
				Model:      req.Model,
				SkipPhoto:  req.SkipPhoto,
				WriteSheet: req.Sheet,
			})
			return err
		})
		if err != nil {
			pe := asPosterError(err)
			resp := models.PosterResponse{
				Success: false,
				Error:   pe.ToDetail(),
				Timing:  models.TimingInfo{TotalMs: time.Since(start).Milliseconds()},
			}
			notify(hooks, &req, webhook.PosterFailed, resp)
			c.JSON(pe.HTTPStatus(), resp)
			return
		}

		spec := res.Specification
		timing := res.Timing
		timing.TotalMs = time.Since(start).Milliseconds()
		resp := models.PosterResponse{
			Success:       true,
			OutputPath:    res.OutputPath,
			SheetPath:     res.SheetPath,
			PhotoSource:   res.PhotoSource,
			Specification: &spec,
			Timing:        timing,
		}
		notify(hooks, &req, webhook.PosterCompleted, resp)
		c.JSON(http.StatusOK, resp)
	}
}

func notify(hooks *webhook.Notifier, req *models.PosterRequest, typ string, resp models.PosterResponse) {
	if hooks == nil || req.WebhookURL == "" {
		return
	}
	hooks.DeliverAsync(req.WebhookURL, req.WebhookSecret, webhook.NewEvent(typ, req.Make, req.Model, resp))
}

// PosterFile returns a handler for GET /api/v1/posters/:name that serves a
// rendered file from dir. Only the base name is honoured.
func PosterFile(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := filepath.Base(c.Param("name"))
		switch filepath.Ext(name) {
		case ".png", ".jpg", ".jpeg", ".md":
		default:
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: &models.ErrorDetail{Code: models.ErrCodeInvalidInput, Message: "unknown poster file"},
			})
			return
		}

		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: &models.ErrorDetail{Code: models.ErrCodeInvalidInput, Message: "poster not found"},
			})
			return
		}
		c.File(path)
	}
}
