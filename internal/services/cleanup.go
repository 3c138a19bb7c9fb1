package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kcns008/WeightCha/internal/verification"
)

// Sweeper periodically removes challenges and verifications past their
// expiry. Expiry itself is enforced on access; the sweep only reclaims
// storage, so a missed tick is harmless.
type Sweeper struct {
	log      *zap.Logger
	store    verification.Store
	interval time.Duration
	grace    time.Duration
}

func NewSweeper(log *zap.Logger, store verification.Store) *Sweeper {
	return &Sweeper{
		log:      log,
		store:    store,
		interval: 10 * time.Minute,
		// Keep expired rows briefly so in-flight reads still resolve.
		grace: time.Hour,
	}
}

// Start runs the sweeper in a goroutine until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info("Starting expiry sweeper...")
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runSweep(ctx)
			}
		}
	}()
}

func (s *Sweeper) runSweep(ctx context.Context) {
	cutoff := time.Now().Add(-s.grace)
	purged, err := s.store.PurgeExpired(ctx, cutoff)
	if err != nil {
		s.log.Error("Failed to purge expired records", zap.Error(err))
		return
	}
	if purged > 0 {
		s.log.Info("Purged expired records", zap.Int64("count", purged))
	}
}
