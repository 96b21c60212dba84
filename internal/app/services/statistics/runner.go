package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/huntboard/huntboard/pkg/logger"
)

// Runner triggers statistics aggregation on a cron schedule. It implements
// system.Service so the lifecycle manager owns its start and stop.
type Runner struct {
	service  *Service
	schedule string
	log      *logger.Logger
	cron     *cron.Cron
}

// NewRunner constructs a runner for the given cron expression (robfig/cron
// syntax, descriptors like "@every 1h" included).
func NewRunner(service *Service, schedule string, log *logger.Logger) (*Runner, error) {
	if log == nil {
		log = logger.NewDefault("statistics-runner")
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parse statistics schedule %q: %w", schedule, err)
	}
	return &Runner{service: service, schedule: schedule, log: log}, nil
}

// Name implements system.Service.
func (r *Runner) Name() string { return "statistics-runner" }

// Start registers the aggregation job and starts the scheduler.
func (r *Runner) Start(_ context.Context) error {
	if r.cron != nil {
		return fmt.Errorf("statistics runner already started")
	}
	r.cron = cron.New()
	_, err := r.cron.AddFunc(r.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := r.service.UpdateStatistics(ctx, time.Now().UTC()); err != nil {
			r.log.WithError(err).Warn("scheduled statistics run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule statistics job: %w", err)
	}
	r.cron.Start()
	r.log.WithField("schedule", r.schedule).Info("statistics runner started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cron == nil {
		return nil
	}
	stopCtx := r.cron.Stop()
	r.cron = nil
	select {
	case <-stopCtx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
