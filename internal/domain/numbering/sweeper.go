package numbering

import (
	"context"
	"time"

	"suratdesa/pkg/logger"
)

// Sweeper periodically releases Pending reservations that were abandoned
// without an explicit cancel (browser closed mid-preview). It is the only
// background task in the numbering core; everything else completes within a
// request cycle.
type Sweeper struct {
	service  *Service
	interval time.Duration
	ttl      time.Duration
}

// NewSweeper creates a sweeper that runs every interval and releases Pending
// reservations older than ttl.
func NewSweeper(service *Service, interval, ttl time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sweeper{service: service, interval: interval, ttl: ttl}
}

// Run blocks until ctx is cancelled, sweeping on every tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logger.Info(ctx, "reservation sweeper started", "interval", s.interval, "ttl", s.ttl)
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "reservation sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.service.ReleaseExpired(ctx, s.ttl); err != nil {
				logger.Warn(ctx, "reservation sweep failed", "error", err)
			}
		}
	}
}
