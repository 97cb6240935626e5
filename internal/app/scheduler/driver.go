package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"missioncore/internal/logging"
)

const DefaultInterval = 5 * time.Second

// Job is one unit of periodic work, typically a single lineage or habitat.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type funcJob struct {
	name string
	fn   func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func NewJob(name string, fn func(ctx context.Context) error) Job {
	return funcJob{name: name, fn: fn}
}

// Driver is the only clock in the process. Each round runs every job once; jobs run
// concurrently with each other and a round finishes before the next one starts, so a
// single job never overlaps itself.
type Driver struct {
	Jobs     []Job
	Interval time.Duration
	// Limit caps concurrently running jobs. Zero means no cap.
	Limit  int
	Logger *slog.Logger
}

// Step runs one round and returns the joined job errors. A failing job does not
// cancel its siblings.
func (d Driver) Step(ctx context.Context) error {
	var g errgroup.Group
	if d.Limit > 0 {
		g.SetLimit(d.Limit)
	}
	errs := make([]error, len(d.Jobs))
	for i, job := range d.Jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			if err := job.Run(ctx); err != nil {
				errs[i] = fmt.Errorf("%s: %w", job.Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Run steps on every interval until ctx is cancelled. Job errors are logged and do not
// stop the loop.
func (d Driver) Run(ctx context.Context) error {
	interval := d.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := logging.OrDiscard(d.Logger)
	logger.Info("scheduler started", "jobs", len(d.Jobs), "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := d.Step(ctx); err != nil {
				logger.Error("scheduler round failed", "err", err)
			}
		}
	}
}
