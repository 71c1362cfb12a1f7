package jobs

import (
	"context"
	"time"

	"drivoro-backend/internal/logger"
)

// MarkOverdueBookings flags active bookings whose agreed end date has passed
// without the host completing the trip.
func (jr *JobRunner) MarkOverdueBookings() {
	jr.runWithRecovery("MarkOverdueBookings", func() {
		ctx := context.Background()

		query := `
			UPDATE bookings
			SET status = 'OVERDUE',
			    updated_on = NOW()
			WHERE status = 'ACTIVE'
			  AND end_date < $1
			RETURNING id, guest_id, car_id, end_date
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().Format("2006-01-02"))
		if err != nil {
			logger.Error("Failed to mark overdue bookings", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				id, guestID, carID int32
				endDate            string
			)
			if err := rows.Scan(&id, &guestID, &carID, &endDate); err != nil {
				logger.Error("Failed to scan overdue booking", "error", err)
				continue
			}
			count++
			logger.Debug("Marked booking as overdue",
				"booking_id", id,
				"guest_id", guestID,
				"car_id", carID,
				"end_date", endDate)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue bookings", "error", err)
			return
		}

		logger.Info("Marked bookings as overdue", "count", count)
	})
}
