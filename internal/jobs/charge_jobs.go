package jobs

import (
	"context"
	"fmt"
	"time"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/logger"
)

// SendPendingChargeReminders surfaces trip charges that have sat unsettled
// for more than 48 hours so an admin can finish the review.
func (jr *JobRunner) SendPendingChargeReminders() {
	jr.runWithRecovery("SendPendingChargeReminders", func() {
		ctx := context.Background()
		cutoff := time.Now().Add(-48 * time.Hour)

		charges, err := jr.store.Charges.ListUnsettled(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list unsettled charges", "error", err)
			return
		}
		if len(charges) == 0 {
			logger.Info("No stale unsettled charges found")
			return
		}

		for _, charge := range charges {
			note := &domain.AdminNotification{
				Title:    "Trip charge still unsettled",
				Message:  fmt.Sprintf("Charge #%d on booking #%d has been %s for over 48 hours.", charge.ID, charge.BookingID, charge.Status),
				Priority: domain.NotificationPriorityNormal,
				Attributes: map[string]string{
					"charge_id":  fmt.Sprintf("%d", charge.ID),
					"booking_id": fmt.Sprintf("%d", charge.BookingID),
					"status":     string(charge.Status),
				},
			}
			if charge.Status == domain.ChargeStatusAdjustmentFailed {
				note.Priority = domain.NotificationPriorityHigh
			}
			if err := jr.store.Notifications.Create(ctx, note); err != nil {
				logger.Error("Failed to create reminder notification", "charge_id", charge.ID, "error", err)
			}
		}

		subject := fmt.Sprintf("%d trip charge(s) awaiting settlement", len(charges))
		body := fmt.Sprintf("There are %d trip charges that have been unsettled for more than 48 hours. Review them in the admin console.", len(charges))
		if err := jr.services.Email.SendPaymentFailureAlert(ctx, subject, body); err != nil {
			logger.Error("Failed to send settlement reminder email", "error", err)
		}

		logger.Info("Sent pending charge reminders", "count", len(charges))
	})
}
