package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/job-marketplace/internal/repository"
)

// StartRevocationPruner sweeps expired rows from the durable revocation
// store on an interval. Entries for expired tokens are redundant (expiry
// checks reject those tokens first), so this is purely a growth bound.
// Runs until the context is canceled.
func StartRevocationPruner(ctx context.Context, repo repository.RevokedTokenRepository, interval time.Duration, logger *zap.Logger) {
	if repo == nil {
		return
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := repo.DeleteExpired(ctx, time.Now())
				if err != nil {
					logger.Warn("revocation prune failed", zap.Error(err))
					continue
				}
				if deleted > 0 {
					logger.Info("pruned revocation entries", zap.Int64("deleted", deleted))
				}
			}
		}
	}()
}
