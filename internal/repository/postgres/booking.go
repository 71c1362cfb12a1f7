package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, car_id, guest_id, host_id, start_date, end_date, daily_price_cents, included_miles_per_day, extra_mile_fee_cents, total_cents, status, payment_status, pending_charges_cents, odometer_start, odometer_end, fuel_level_start, fuel_level_end, stripe_payment_intent_id, cancel_reason, created_on, updated_on`

func scanBooking(row interface{ Scan(...any) error }) (*domain.RentalBooking, error) {
	b := &domain.RentalBooking{}
	err := row.Scan(&b.ID, &b.CarID, &b.GuestID, &b.HostID, &b.StartDate, &b.EndDate, &b.DailyPriceCents, &b.IncludedMilesPerDay, &b.ExtraMileFeeCents, &b.TotalCents, &b.Status, &b.PaymentStatus, &b.PendingChargesCents, &b.OdometerStart, &b.OdometerEnd, &b.FuelLevelStart, &b.FuelLevelEnd, &b.StripePaymentIntentID, &b.CancelReason, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.RentalBooking) error {
	query := `INSERT INTO bookings (car_id, guest_id, host_id, start_date, end_date, daily_price_cents, included_miles_per_day, extra_mile_fee_cents, total_cents, status, payment_status, pending_charges_cents, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, b.CarID, b.GuestID, b.HostID, b.StartDate, b.EndDate, b.DailyPriceCents, b.IncludedMilesPerDay, b.ExtraMileFeeCents, b.TotalCents, b.Status, b.PaymentStatus, b.PendingChargesCents, now, now).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.RentalBooking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.RentalBooking) error {
	query := `UPDATE bookings SET status=$1, payment_status=$2, pending_charges_cents=$3, odometer_start=$4, odometer_end=$5, fuel_level_start=$6, fuel_level_end=$7, stripe_payment_intent_id=$8, cancel_reason=$9, updated_on=$10 WHERE id=$11`
	_, err := r.db.ExecContext(ctx, query, b.Status, b.PaymentStatus, b.PendingChargesCents, b.OdometerStart, b.OdometerEnd, b.FuelLevelStart, b.FuelLevelEnd, b.StripePaymentIntentID, b.CancelReason, time.Now(), b.ID)
	return err
}

func (r *bookingRepository) list(ctx context.Context, column string, userID int32, status string, page, pageSize int32) ([]domain.RentalBooking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + column + ` = $1`
	args := []interface{}{userID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.RentalBooking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListByGuest(ctx context.Context, guestID int32, status string, page, pageSize int32) ([]domain.RentalBooking, int32, error) {
	return r.list(ctx, "guest_id", guestID, status, page, pageSize)
}

func (r *bookingRepository) ListByHost(ctx context.Context, hostID int32, status string, page, pageSize int32) ([]domain.RentalBooking, int32, error) {
	return r.list(ctx, "host_id", hostID, status, page, pageSize)
}

func (r *bookingRepository) HasOverlap(ctx context.Context, carID int32, from, to string) (bool, error) {
	query := `SELECT count(*) FROM bookings
	          WHERE car_id = $1 AND status IN ('PENDING', 'CONFIRMED', 'ACTIVE')
	            AND start_date <= $2 AND end_date >= $3`
	var count int32
	if err := r.db.QueryRowContext(ctx, query, carID, to, from).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
