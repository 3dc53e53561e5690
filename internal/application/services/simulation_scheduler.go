package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// SimulationScheduler drives the availability tracker's drift ticks on
// fixed intervals for the lifetime of the process. The tracker itself stays
// schedule-free: tests call the tick hooks directly.
type SimulationScheduler struct {
	cron    *cron.Cron
	tracker *AvailabilityTracker
}

// NewSimulationScheduler creates a scheduler over a tracker
func NewSimulationScheduler(tracker *AvailabilityTracker) *SimulationScheduler {
	return &SimulationScheduler{
		cron:    cron.New(),
		tracker: tracker,
	}
}

// Start registers the status and presence drift jobs and starts the scheduler.
func (s *SimulationScheduler) Start(ctx context.Context, statusInterval, presenceInterval time.Duration) error {
	_, err := s.cron.AddFunc(every(statusInterval), func() {
		s.tracker.TickStatusDrift(ctx)
		s.tracker.FlushIfDirty(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule status drift: %w", err)
	}

	_, err = s.cron.AddFunc(every(presenceInterval), func() {
		s.tracker.TickPresenceDrift(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule presence drift: %w", err)
	}

	s.cron.Start()
	log.Info().
		Dur("status_interval", statusInterval).
		Dur("presence_interval", presenceInterval).
		Msg("availability simulation started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *SimulationScheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	log.Info().Msg("availability simulation stopped")
}

func every(d time.Duration) string {
	return fmt.Sprintf("@every %s", d)
}
