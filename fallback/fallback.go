// Package fallback runs ordered strategies until one produces a value.
package fallback

import (
	"context"
	"fmt"
	"log/slog"
)

// Step is one strategy in a waterfall. Try returns ok=false for "nothing
// here, try the next step".
type Step[In, Out any] struct {
	Name string
	Try  func(ctx context.Context, in In) (Out, bool)
}

// Outcome reports which step produced the value.
type Outcome[Out any] struct {
	Value Out
	Step  string
	OK    bool
}

// First invokes steps strictly in order and stops at the first success.
// A panic inside a step counts as a miss. Remaining steps are skipped once
// ctx is done.
func First[In, Out any](ctx context.Context, in In, steps ...Step[In, Out]) Outcome[Out] {
	for _, s := range steps {
		if ctx.Err() != nil {
			break
		}
		if v, ok := try(ctx, in, s); ok {
			return Outcome[Out]{Value: v, Step: s.Name, OK: true}
		}
		slog.Debug("fallback step missed", "step", s.Name)
	}
	var zero Out
	return Outcome[Out]{Value: zero}
}

func try[In, Out any](ctx context.Context, in In, s Step[In, Out]) (v Out, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("fallback step panicked", "step", s.Name, "panic", fmt.Sprint(r))
			var zero Out
			v, ok = zero, false
		}
	}()
	return s.Try(ctx, in)
}
