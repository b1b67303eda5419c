package logging

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/solucionalbania/club-api/internal/models"
)

const cleanupInterval = 24 * time.Hour

// StartCleanup prunes system_logs once at startup and then daily, keeping
// records newer than retention. It stops when done is closed.
func StartCleanup(db *gorm.DB, retention time.Duration, done <-chan struct{}) {
	prune := func() {
		n, err := deleteExpired(db, time.Now().Add(-retention))
		if err != nil {
			slog.Error("log cleanup failed", "error", err)
		} else if n > 0 {
			slog.Info("log cleanup completed", "deleted", n)
		}
	}

	go func() {
		prune()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				prune()
			case <-done:
				return
			}
		}
	}()
}

func deleteExpired(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
