package services

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartScheduler syncs the mirror once and then every interval until ctx is
// cancelled. The returned channel is closed when the scheduler has stopped.
// A non-positive interval disables scheduling.
func StartScheduler(ctx context.Context, syncer *Syncer, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		logger.Info("Mirror sync disabled")
		close(done)
		return done
	}

	logger.Info("Starting mirror sync scheduler", zap.Duration("interval", interval))
	go func() {
		defer close(done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if err := syncer.SyncAll(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("Mirror sync failed", zap.Error(err))
			}

			select {
			case <-ctx.Done():
				logger.Info("Mirror sync scheduler stopped")
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}
