// Package sweep runs the background pass that moves booking statuses along as
// wall-clock time passes: approved sessions become in-progress when their slot
// starts and completed when it ends.
package sweep

import (
	"context"
	"fmt"
	"log"
	"time"

	"training-portal-backend/config"
	"training-portal-backend/internal/store"
)

// Service periodically sweeps booking statuses.
type Service struct {
	cfg   *config.Config
	store store.Store
	loc   *time.Location
}

// NewService creates the sweeper. The configured timezone is the single zone
// under which the portal's zone-naive slots are compared against "now".
func NewService(cfg *config.Config, s store.Store) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Sweep.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", cfg.Sweep.Timezone, err)
	}
	return &Service{cfg: cfg, store: s, loc: loc}, nil
}

// Run starts the sweep loop. It performs one pass immediately and then one per
// configured interval until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Sweep.Enabled {
		log.Println("Status sweeper is disabled. Not starting.")
		return
	}
	log.Println("Starting status sweeper...")

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.cfg.Sweep.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Status sweeper shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.cfg.Sweep.Interval)
		}
	}
}

// SweepOnce performs a single status sweep.
func (s *Service) SweepOnce(ctx context.Context) {
	now := time.Now().In(s.loc)
	started, completed, err := s.store.SweepStatuses(ctx, now, s.loc)
	if err != nil {
		log.Printf("Error sweeping booking statuses: %v", err)
		return
	}
	if len(started) > 0 || len(completed) > 0 {
		log.Printf("Status sweep: %d bookings started, %d completed", len(started), len(completed))
	}
}
