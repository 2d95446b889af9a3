// Package steps interprets translated automation steps against a live
// browser session. Failure handling is deliberately asymmetric: a
// failed launch aborts the run, a failed click is recorded and
// skipped.
package steps

import (
	"context"
	"fmt"

	"github.com/rodrwan/webex-relay/internal/model"
	"github.com/rodrwan/webex-relay/internal/observability"
)

// Session is one live automation session.
type Session interface {
	Navigate(ctx context.Context, url string) error
	ClickText(ctx context.Context, text string) error
	Close() error
}

// Driver opens sessions. Each run gets its own session; there is no
// pooling across concurrent runs.
type Driver interface {
	Open(ctx context.Context) (Session, error)
}

// Result records the outcome of one step. Err is only ever non-nil
// for click steps; a launch error aborts the run instead.
type Result struct {
	Step model.Step
	Err  error
}

type Executor struct {
	driver Driver
}

func NewExecutor(driver Driver) *Executor {
	return &Executor{driver: driver}
}

// Run executes the sequence in order against a fresh session. The
// session is closed unconditionally. The returned results cover every
// step attempted, including recorded click failures; the error is
// non-nil only when the run aborted (session open or launch failure).
func (e *Executor) Run(ctx context.Context, seq []model.Step) ([]Result, error) {
	sess, err := e.driver.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			observability.Warn("session_close_failed", observability.Fields{"error": cerr.Error()})
		}
	}()

	results := make([]Result, 0, len(seq))
	for _, step := range seq {
		switch step.NormalizedAction() {
		case model.ActionLaunch:
			if err := sess.Navigate(ctx, step.Target); err != nil {
				// A broken navigation leaves nothing to click on.
				return results, fmt.Errorf("launch %s: %w", step.Target, err)
			}
			results = append(results, Result{Step: step})
		case model.ActionClick:
			err := sess.ClickText(ctx, step.Target)
			if err != nil {
				observability.Warn("click_failed", observability.Fields{
					"target": step.Target,
					"error":  err.Error(),
				})
			}
			results = append(results, Result{Step: step, Err: err})
		default:
			// done and anything unrecognized terminate nothing; they
			// are no-ops in the sequence.
			results = append(results, Result{Step: step})
		}
	}
	return results, nil
}

// Failures counts the recorded per-step failures in results.
func Failures(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
