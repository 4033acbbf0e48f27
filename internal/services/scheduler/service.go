package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/interfaces"
)

// Service runs the background sweeps that reclaim expired jobs and idle
// results. Sweeps are safety nets over the lazy eviction the storage layer
// already does on read, so a failed sweep run is logged and retried on the
// next tick rather than escalated.
type Service struct {
	jobs    interfaces.JobStorage
	results interfaces.ResultStorage
	cron    *cron.Cron
	logger  arbor.ILogger
	mu      sync.Mutex
	running bool
}

// NewService creates a new sweep scheduler
func NewService(jobs interfaces.JobStorage, results interfaces.ResultStorage, logger arbor.ILogger) *Service {
	return &Service{
		jobs:    jobs,
		results: results,
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start registers the sweep on the given cron schedule and begins the
// scheduler. The schedule accepts standard cron expressions and the
// @every <duration> form.
func (s *Service) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info().Str("schedule", schedule).Msg("Sweep scheduler started")
	return nil
}

// Stop halts the scheduler and waits for any in-flight sweep to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false
	s.logger.Debug().Msg("Sweep scheduler stopped")
}

// RunOnce performs a single sweep pass immediately.
func (s *Service) RunOnce(ctx context.Context) {
	now := time.Now()

	jobsDeleted, err := s.jobs.Sweep(ctx, now)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Job sweep failed")
	}

	resultsDeleted, err := s.results.Sweep(ctx, now)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Result sweep failed")
	}

	if jobsDeleted > 0 || resultsDeleted > 0 {
		s.logger.Info().
			Int("jobs_deleted", jobsDeleted).
			Int("results_deleted", resultsDeleted).
			Msg("Sweep completed")
	}
}

func (s *Service) sweep() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("panic", fmt.Sprintf("%v", r)).Msg("Recovered from panic in sweep")
		}
	}()

	s.RunOnce(context.Background())
}
