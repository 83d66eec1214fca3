// Package reconcile periodically recomputes every project's progress so
// stored aggregates converge even when a propagation chain was interrupted.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/gantry/internal/progress"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Opts holds configuration for the reconciliation loop.
type Opts struct {
	DB       *gorm.DB
	Schedule string // 5-field cron expression
	Out      io.Writer
}

// Run blocks, recomputing all project progress on each cron fire until ctx
// is cancelled. Projects are processed strictly sequentially to keep store
// load predictable.
func Run(ctx context.Context, opts Opts) error {
	if opts.DB == nil {
		return fmt.Errorf("reconcile: db is required")
	}
	sched, err := cronParser.Parse(opts.Schedule)
	if err != nil {
		return fmt.Errorf("reconcile: parse schedule %q: %w", opts.Schedule, err)
	}

	for {
		next := sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		results, err := progress.CalculateAllProjectsProgress(opts.DB)
		if err != nil {
			// A failed run leaves stale aggregates until the next fire.
			if opts.Out != nil {
				fmt.Fprintf(opts.Out, "reconcile: run failed: %v\n", err)
			}
			continue
		}
		if opts.Out != nil {
			fmt.Fprintf(opts.Out, "reconcile: recomputed %d projects\n", len(results))
		}
	}
}

// NextFire returns the next fire time of a 5-field cron expression after
// now, for validation and status display.
func NextFire(expr string, now time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return time.Time{}, fmt.Errorf("reconcile: parse schedule %q: %w", expr, err)
	}
	return sched.Next(now), nil
}
