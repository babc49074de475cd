package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/teamtrackhq/teamtrack-api/internal/services"
)

// Scheduler owns the cron runner for periodic jobs. Currently the only job
// is the daily overdue sweep.
type Scheduler struct {
	cron    *cron.Cron
	overdue *services.OverdueService
	logger  *slog.Logger
}

// New creates a Scheduler around the given overdue service.
func New(overdue *services.OverdueService, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(),
		overdue: overdue,
		logger:  logger,
	}
}

// Start registers the overdue sweep on the given cron spec and starts the
// runner in its own goroutine.
func (s *Scheduler) Start(sweepSpec string) error {
	_, err := s.cron.AddFunc(sweepSpec, func() {
		if _, _, err := s.overdue.Sweep(); err != nil {
			s.logger.Error("overdue sweep failed", slog.Any("error", err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule overdue sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", slog.String("sweep_schedule", sweepSpec))
	return nil
}

// Stop stops the cron runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
