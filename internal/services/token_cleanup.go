package services

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"gorm.io/gorm"
)

// StartTokenCleanup periodically drops outstanding and blacklisted tokens
// whose expiry has passed. An expired token fails verification on its own,
// so its blacklist entry is no longer needed.
func StartTokenCleanup(db *gorm.DB, interval time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				outstanding, blacklisted, err := PurgeExpiredTokens(db, time.Now())
				if err != nil {
					slog.Error("token cleanup failed", "error", err)
				} else if outstanding+blacklisted > 0 {
					slog.Info("token cleanup completed", "outstanding", outstanding, "blacklisted", blacklisted)
				}
			case <-done:
				return
			}
		}
	}()
}

func PurgeExpiredTokens(db *gorm.DB, now time.Time) (outstanding, blacklisted int64, err error) {
	res := db.Where("expires_at < ?", now).Delete(&models.BlacklistedToken{})
	if res.Error != nil {
		return 0, 0, res.Error
	}
	blacklisted = res.RowsAffected

	res = db.Where("expires_at < ?", now).Delete(&models.OutstandingToken{})
	if res.Error != nil {
		return 0, blacklisted, res.Error
	}
	return res.RowsAffected, blacklisted, nil
}
