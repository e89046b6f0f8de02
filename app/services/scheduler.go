package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/smugflex-sys/Final-sub000/app/database"
)

// Daily jobs run at this time of day.
const (
	scheduleHour   = 2
	scheduleMinute = 5
)

// StartScheduler starts the background task scheduler. It stops when ctx is cancelled.
func StartScheduler(ctx context.Context, store *database.Store, log *zap.Logger) {
	go func() {
		log.Info("scheduler started")
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("scheduler stopped")
				return
			case now := <-ticker.C:
				if now.Hour() != scheduleHour || now.Minute() != scheduleMinute {
					continue
				}
				log.Info("running scheduled tasks")
				n, err := PurgeRefreshTokens(ctx, store, now)
				if err != nil {
					log.Error("purge refresh tokens", zap.Error(err))
					continue
				}
				log.Info("purged refresh tokens", zap.Int("count", n))
			}
		}
	}()
}

// PurgeRefreshTokens deletes refresh tokens that are revoked or expired at now.
func PurgeRefreshTokens(ctx context.Context, store *database.Store, now time.Time) (int, error) {
	tokens, err := database.All(ctx, store.RefreshTokens, nil)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, t := range tokens {
		if t.Usable(now) {
			continue
		}
		if err := store.RefreshTokens.Delete(ctx, t.ID); err != nil && !database.IsNotFound(err) {
			return n, err
		}
		n++
	}
	return n, nil
}
