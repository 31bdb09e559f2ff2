package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/talentgate/authcore/internal/auth/store"
)

// HousekeepingService periodically deletes token families whose expiry
// passed long ago and sweeps stale rate counters. Revocation never
// deletes records; this is the only path that does.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	// RetentionGrace keeps expired families around for a while so a
	// late reuse attempt still classifies as expired, not unknown.
	RetentionGrace time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service. A zero or
// negative interval defaults to 1 hour, a zero grace to 24 hours.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, grace time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if grace <= 0 {
		grace = 24 * time.Hour
	}

	return &HousekeepingService{
		Store:          st,
		Logger:         logger,
		Interval:       interval,
		RetentionGrace: grace,
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop to shut
// it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker, blocking until any in-progress sweep
// finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run a sweep immediately on startup
	s.sweep()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopCh:
			return
		}
	}
}

// sweep performs the actual deletions. Each one is independent;
// failures in one don't stop the others.
func (s *HousekeepingService) sweep() {
	ctx := context.Background()

	if n, err := s.Store.Families().DeleteExpired(ctx, s.RetentionGrace); err != nil {
		s.Logger.Error("failed to delete expired token families", "error", err)
	} else if n > 0 {
		s.Logger.Info("deleted expired token families", "count", n)
	}

	if n, err := s.Store.Counters().DeleteStale(ctx); err != nil {
		s.Logger.Error("failed to delete stale rate counters", "error", err)
	} else if n > 0 {
		s.Logger.Debug("deleted stale rate counters", "count", n)
	}
}
