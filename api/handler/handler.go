package handler

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/use-agent/carposter/models"
	"github.com/use-agent/carposter/pipeline"
)

// Runner is the slice of a pipeline the handlers drive.
type Runner interface {
	Resolve(ctx context.Context, make, model string) (*models.VehicleSpecification, error)
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
	Close()
}

// Factory builds a fresh Runner per request so no browser session is
// shared between concurrent requests.
type Factory func() (Runner, error)

// Jobs hands out runners and tracks how many are in use. Each runner owns
// a browser, so at most limit run at once.
type Jobs struct {
	factory Factory
	limit   int64
	active  atomic.Int64
}

// NewJobs wraps factory. A non-positive limit means unlimited.
func NewJobs(factory Factory, limit int) *Jobs {
	return &Jobs{factory: factory, limit: int64(limit)}
}

// Active reports the number of requests currently holding a runner.
func (j *Jobs) Active() int64 { return j.active.Load() }

// Limit reports the concurrency limit, zero when unlimited.
func (j *Jobs) Limit() int64 { return max(j.limit, 0) }

// with runs fn with a new runner and closes it afterwards. It fails with
// SERVER_BUSY when limit jobs are already running.
func (j *Jobs) with(fn func(Runner) error) error {
	if n := j.active.Add(1); j.limit > 0 && n > j.limit {
		j.active.Add(-1)
		return models.NewPosterError(models.ErrCodeBusy, "too many poster jobs in progress, retry later", nil)
	}
	defer j.active.Add(-1)

	r, err := j.factory()
	if err != nil {
		return models.NewPosterError(models.ErrCodeInternal, "failed to start pipeline", err)
	}
	defer r.Close()
	return fn(r)
}

// asPosterError wraps unexpected errors as INTERNAL_ERROR.
func asPosterError(err error) *models.PosterError {
	var pe *models.PosterError
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewPosterError(models.ErrCodeTimeout, "request timed out", err)
	}
	return models.NewPosterError(models.ErrCodeInternal, err.Error(), err)
}
