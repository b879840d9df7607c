package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/domain/session"
)

// Sweeper periodically recomputes the cached allocation counters of ongoing
// sessions so external writes or missed refreshes cannot leave them stale.
type Sweeper struct {
	sessions    *session.Service
	allocations *allocation.Service
	schedule    string
	cron        *cron.Cron
	logger      *zap.Logger
}

// NewSweeper creates a sweeper that runs on the given cron schedule.
func NewSweeper(sessions *session.Service, allocations *allocation.Service, schedule string, logger *zap.Logger) *Sweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		sessions:    sessions,
		allocations: allocations,
		schedule:    schedule,
		cron:        cron.New(),
		logger:      logger,
	}
}

// Start registers the sweep job and starts the cron loop.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("count sweeper started", zap.String("schedule", s.schedule))
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("count sweeper stopped")
}

// Sweep refreshes counters for every ongoing session and returns how many had
// drifted.
func (s *Sweeper) Sweep(ctx context.Context) int {
	sessions, err := s.sessions.List(ctx, session.ListOptions{Status: session.StatusOngoing})
	if err != nil {
		s.logger.Error("sweep: listing ongoing sessions", zap.Error(err))
		return 0
	}

	drifted := 0
	for _, sess := range sessions {
		changed, err := s.allocations.RefreshCounts(ctx, sess.ID)
		if err != nil {
			s.logger.Error("sweep: refreshing counts",
				zap.String("session_id", sess.ID),
				zap.Error(err))
			continue
		}
		if changed {
			drifted++
			s.logger.Warn("sweep repaired drifted counters", zap.String("session_id", sess.ID))
		}
	}

	if drifted == 0 {
		s.logger.Debug("sweep completed, no drift", zap.Int("sessions", len(sessions)))
	}
	return drifted
}
