package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"roomshare-backend/config"
	"roomshare-backend/internal/schedule"
)

// Scheduler runs the periodic housekeeping jobs against the scheduling
// engine: sweeping expired reservations and rolling recurring reservations
// into the next week. A failed run is logged and retried at the next tick;
// the engine methods themselves remain callable synchronously from tests.
type Scheduler struct {
	cfg    *config.JobsConfig
	engine *schedule.Engine
	logger *zap.Logger
}

// NewScheduler creates a job scheduler.
func NewScheduler(cfg *config.JobsConfig, engine *schedule.Engine, logger *zap.Logger) *Scheduler {
	return &Scheduler{cfg: cfg, engine: engine, logger: logger}
}

// Run blocks until ctx is cancelled, firing each job on its own cadence.
// Both jobs run once at startup so a restarted process catches up
// immediately.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("periodic jobs are disabled")
		return
	}

	s.runSweep(ctx)
	s.runRollForward(ctx)

	sweepTicker := time.NewTicker(s.cfg.SweepInterval)
	defer sweepTicker.Stop()
	rollTicker := time.NewTicker(s.cfg.RollForwardInterval)
	defer rollTicker.Stop()

	for {
		select {
		case <-sweepTicker.C:
			s.runSweep(ctx)
		case <-rollTicker.C:
			s.runRollForward(ctx)
		case <-ctx.Done():
			s.logger.Info("job scheduler stopping")
			return
		}
	}
}

func (s *Scheduler) runSweep(ctx context.Context) {
	deleted, err := s.engine.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("expired reservation sweep failed", zap.Error(err))
		return
	}
	s.logger.Info("expired reservation sweep finished", zap.Int("deleted", deleted))
}

func (s *Scheduler) runRollForward(ctx context.Context) {
	created, err := s.engine.RollForwardWeek(ctx)
	if err != nil {
		s.logger.Error("weekly roll-forward failed", zap.Error(err))
		return
	}
	s.logger.Info("weekly roll-forward finished", zap.Int("created", created))
}
