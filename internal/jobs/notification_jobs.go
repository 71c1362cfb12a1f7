package jobs

import (
	"context"
	"time"

	"drivoro-backend/internal/logger"
)

// Read notifications older than this are deleted by the purge job.
const notificationRetention = 30 * 24 * time.Hour

// PurgeReadNotifications deletes read admin notifications past the retention
// window to keep the table small.
func (jr *JobRunner) PurgeReadNotifications() {
	jr.runWithRecovery("PurgeReadNotifications", func() {
		ctx := context.Background()

		deleted, err := jr.store.Notifications.PurgeRead(ctx, time.Now().Add(-notificationRetention))
		if err != nil {
			logger.Error("Failed to purge read notifications", "error", err)
			return
		}

		logger.Info("Purged read notifications", "count", deleted)
	})
}
