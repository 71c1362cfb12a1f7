package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/logger"
	"drivoro-backend/internal/repository"
)

type chargeRepository struct {
	db *sql.DB
}

func NewChargeRepository(db *sql.DB) repository.ChargeRepository {
	return &chargeRepository{db: db}
}

const chargeColumns = `id, booking_id, mileage_cents, fuel_cents, late_cents, damage_cents, cleaning_cents, other_cents, total_cents, adjusted_cents, status, stripe_charge_id, waive_percentage, waive_reason, version, created_on, updated_on`

func scanCharge(row interface{ Scan(...any) error }) (*domain.TripCharge, error) {
	c := &domain.TripCharge{}
	err := row.Scan(&c.ID, &c.BookingID, &c.MileageCents, &c.FuelCents, &c.LateCents, &c.DamageCents, &c.CleaningCents, &c.OtherCents, &c.TotalCents, &c.AdjustedCents, &c.Status, &c.StripeChargeID, &c.WaivePercentage, &c.WaiveReason, &c.Version, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *chargeRepository) Create(ctx context.Context, c *domain.TripCharge) error {
	query := `INSERT INTO trip_charges (booking_id, mileage_cents, fuel_cents, late_cents, damage_cents, cleaning_cents, other_cents, total_cents, adjusted_cents, status, stripe_charge_id, waive_percentage, waive_reason, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, c.BookingID, c.MileageCents, c.FuelCents, c.LateCents, c.DamageCents, c.CleaningCents, c.OtherCents, c.TotalCents, c.AdjustedCents, c.Status, c.StripeChargeID, c.WaivePercentage, c.WaiveReason, c.Version, now, now).Scan(&c.ID)
}

func (r *chargeRepository) GetByID(ctx context.Context, id int32) (*domain.TripCharge, error) {
	query := `SELECT ` + chargeColumns + ` FROM trip_charges WHERE id = $1`
	c, err := scanCharge(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *chargeRepository) GetByBookingID(ctx context.Context, bookingID int32) (*domain.TripCharge, error) {
	query := `SELECT ` + chargeColumns + ` FROM trip_charges WHERE booking_id = $1`
	c, err := scanCharge(r.db.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

// ApplyAdjustment writes the whole adjustment outcome atomically. The charge
// update is version-guarded: a concurrent submission that already bumped the
// version leaves zero rows updated, and the transaction is rolled back with
// domain.ErrAlreadyFinalized.
func (r *chargeRepository) ApplyAdjustment(ctx context.Context, commit *domain.AdjustmentCommit) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	c := commit.Charge
	result, err := tx.ExecContext(ctx,
		`UPDATE trip_charges
		 SET adjusted_cents=$1, status=$2, stripe_charge_id=$3, waive_percentage=$4, waive_reason=$5, version=version+1, updated_on=$6
		 WHERE id=$7 AND version=$8`,
		c.AdjustedCents, c.Status, c.StripeChargeID, c.WaivePercentage, c.WaiveReason, time.Now(), c.ID, c.Version)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		logger.Warn("Concurrent adjustment detected, rolling back", "charge_id", c.ID, "expected_version", c.Version)
		return domain.ErrAlreadyFinalized
	}

	a := commit.Adjustment
	lines, err := json.Marshal(a.Lines)
	if err != nil {
		return err
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO charge_adjustments (charge_id, admin_id, before_cents, after_cents, waive_percentage, waive_reason, lines, status, stripe_charge_id, payment_error, admin_notes, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
		a.ChargeID, a.AdminID, a.BeforeCents, a.AfterCents, a.WaivePercentage, a.WaiveReason, lines, a.Status, a.StripeChargeID, a.PaymentError, a.AdminNotes, time.Now()).Scan(&a.ID)
	if err != nil {
		return err
	}

	if b := commit.Booking; b != nil {
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET payment_status=$1, pending_charges_cents=$2, updated_on=$3 WHERE id=$4`,
			b.PaymentStatus, b.PendingChargesCents, time.Now(), b.ID)
		if err != nil {
			return err
		}
	}

	if n := commit.Notification; n != nil {
		attrs, err := json.Marshal(n.Attributes)
		if err != nil {
			return err
		}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO admin_notifications (title, message, priority, is_read, attributes, created_on)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			n.Title, n.Message, n.Priority, n.IsRead, attrs, time.Now()).Scan(&n.ID)
		if err != nil {
			return err
		}
	}

	if m := commit.Message; m != nil {
		err = tx.QueryRowContext(ctx,
			`INSERT INTO rental_messages (booking_id, recipient_id, sender, subject, body, is_read, created_on)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			m.BookingID, m.RecipientID, m.Sender, m.Subject, m.Body, m.IsRead, time.Now()).Scan(&m.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *chargeRepository) ListAdjustments(ctx context.Context, chargeID int32) ([]domain.ChargeAdjustment, error) {
	query := `SELECT id, charge_id, admin_id, before_cents, after_cents, waive_percentage, waive_reason, lines, status, stripe_charge_id, payment_error, admin_notes, created_on
	          FROM charge_adjustments WHERE charge_id = $1 ORDER BY created_on ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, chargeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []domain.ChargeAdjustment
	for rows.Next() {
		var a domain.ChargeAdjustment
		var lines []byte
		if err := rows.Scan(&a.ID, &a.ChargeID, &a.AdminID, &a.BeforeCents, &a.AfterCents, &a.WaivePercentage, &a.WaiveReason, &lines, &a.Status, &a.StripeChargeID, &a.PaymentError, &a.AdminNotes, &a.CreatedOn); err != nil {
			return nil, err
		}
		if len(lines) > 0 {
			if err := json.Unmarshal(lines, &a.Lines); err != nil {
				return nil, err
			}
		}
		adjustments = append(adjustments, a)
	}
	return adjustments, rows.Err()
}

func (r *chargeRepository) ListUnsettled(ctx context.Context, olderThan time.Time) ([]domain.TripCharge, error) {
	query := `SELECT ` + chargeColumns + ` FROM trip_charges
	          WHERE status IN ('ADJUSTED_PENDING', 'ADJUSTMENT_FAILED') AND updated_on < $1
	          ORDER BY updated_on ASC`
	rows, err := r.db.QueryContext(ctx, query, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var charges []domain.TripCharge
	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		charges = append(charges, *c)
	}
	return charges, rows.Err()
}
