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

type carRepository struct {
	db *sql.DB
}

func NewCarRepository(db *sql.DB) repository.CarRepository {
	return &carRepository{db: db}
}

const carColumns = `id, host_id, make, model, year, plate, city, daily_price_cents, included_miles_per_day, extra_mile_fee_cents, fuel_policy, status, description, created_on, updated_on`

func scanCar(row interface{ Scan(...any) error }) (*domain.Car, error) {
	c := &domain.Car{}
	err := row.Scan(&c.ID, &c.HostID, &c.Make, &c.Model, &c.Year, &c.Plate, &c.City, &c.DailyPriceCents, &c.IncludedMilesPerDay, &c.ExtraMileFeeCents, &c.FuelPolicy, &c.Status, &c.Description, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *carRepository) Create(ctx context.Context, c *domain.Car) error {
	query := `INSERT INTO cars (host_id, make, model, year, plate, city, daily_price_cents, included_miles_per_day, extra_mile_fee_cents, fuel_policy, status, description, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, c.HostID, c.Make, c.Model, c.Year, c.Plate, c.City, c.DailyPriceCents, c.IncludedMilesPerDay, c.ExtraMileFeeCents, c.FuelPolicy, c.Status, c.Description, now, now).Scan(&c.ID)
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	car, err := scanCar(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return car, err
}

func (r *carRepository) Update(ctx context.Context, c *domain.Car) error {
	query := `UPDATE cars SET make=$1, model=$2, year=$3, plate=$4, city=$5, daily_price_cents=$6, included_miles_per_day=$7, extra_mile_fee_cents=$8, fuel_policy=$9, status=$10, description=$11, updated_on=$12 WHERE id=$13`
	_, err := r.db.ExecContext(ctx, query, c.Make, c.Model, c.Year, c.Plate, c.City, c.DailyPriceCents, c.IncludedMilesPerDay, c.ExtraMileFeeCents, c.FuelPolicy, c.Status, c.Description, time.Now(), c.ID)
	return err
}

func (r *carRepository) Delete(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	return err
}

func (r *carRepository) ListByHost(ctx context.Context, hostID int32, page, pageSize int32) ([]domain.Car, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM cars WHERE host_id = $1`, hostID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + carColumns + ` FROM cars WHERE host_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, hostID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, 0, err
		}
		cars = append(cars, *c)
	}
	return cars, count, rows.Err()
}

func (r *carRepository) Search(ctx context.Context, city, from, to string, page, pageSize int32) ([]domain.Car, int32, error) {
	offset := (page - 1) * pageSize

	query := `SELECT ` + carColumns + ` FROM cars WHERE status = 'ACTIVE'`
	args := []interface{}{}
	argIdx := 1
	if city != "" {
		query += fmt.Sprintf(" AND lower(city) = lower($%d)", argIdx)
		args = append(args, city)
		argIdx++
	}
	if from != "" && to != "" {
		// Exclude cars with a live booking overlapping the requested window.
		query += fmt.Sprintf(` AND id NOT IN (
			SELECT car_id FROM bookings
			WHERE status IN ('CONFIRMED', 'ACTIVE')
			  AND start_date <= $%d AND end_date >= $%d)`, argIdx, argIdx+1)
		args = append(args, to, from)
		argIdx += 2
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY daily_price_cents ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, 0, err
		}
		cars = append(cars, *c)
	}
	return cars, count, rows.Err()
}
