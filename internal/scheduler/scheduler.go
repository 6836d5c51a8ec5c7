// Package scheduler repeats a price sync run forever, sleeping a random
// interval between runs.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maltedev/fba-price-sync/internal/models"
	"github.com/maltedev/fba-price-sync/internal/ratelimit"
)

// RunFunc performs one complete run. Stats may be returned along with an error.
type RunFunc func(ctx context.Context) (*models.RunStats, error)

// Status is a snapshot of the scheduler's progress.
type Status struct {
	StartedAt time.Time        `json:"started_at"`
	Running   bool             `json:"running"`
	Runs      int              `json:"runs"`
	Failures  int              `json:"failures"`
	LastRun   *models.RunStats `json:"last_run,omitempty"`
	LastError string           `json:"last_error,omitempty"`
	NextRunAt *time.Time       `json:"next_run_at,omitempty"`
}

type Scheduler struct {
	run         RunFunc
	minInterval time.Duration
	maxInterval time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *slog.Logger

	mu     sync.RWMutex
	status Status
}

func New(run RunFunc, minInterval, maxInterval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		run:         run,
		minInterval: minInterval,
		maxInterval: maxInterval,
		sleep:       ratelimit.Sleep,
		logger:      logger.With("component", "scheduler"),
	}
}

// Start runs until ctx is canceled. A failed run is logged and the loop goes on.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"min_interval", s.minInterval,
		"max_interval", s.maxInterval)

	s.mu.Lock()
	s.status.StartedAt = time.Now()
	s.mu.Unlock()

	for {
		if ctx.Err() != nil {
			s.logger.Info("scheduler stopped")
			return nil
		}

		s.runOnce(ctx)

		delay := ratelimit.Uniform(s.minInterval, s.maxInterval)
		next := time.Now().Add(delay)

		s.mu.Lock()
		s.status.NextRunAt = &next
		s.mu.Unlock()

		s.logger.Info("completed update", "next_update_in_minutes", delay.Minutes())

		if err := s.sleep(ctx, delay); err != nil {
			s.logger.Info("scheduler stopped")
			return nil
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	s.status.Running = true
	s.status.NextRunAt = nil
	s.mu.Unlock()

	stats, err := s.run(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.Running = false
	s.status.Runs++
	s.status.LastRun = stats
	s.status.LastError = ""
	if err != nil {
		s.status.Failures++
		s.status.LastError = err.Error()
		s.logger.Error("update failed", "error", err)
	}
}

// Status returns a copy of the current status.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := s.status
	if s.status.LastRun != nil {
		run := *s.status.LastRun
		status.LastRun = &run
	}
	if s.status.NextRunAt != nil {
		next := *s.status.NextRunAt
		status.NextRunAt = &next
	}
	return status
}
