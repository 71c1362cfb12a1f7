package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/repository"
)

type hostApplicationRepository struct {
	db *sql.DB
}

func NewHostApplicationRepository(db *sql.DB) repository.HostApplicationRepository {
	return &hostApplicationRepository{db: db}
}

const hostAppColumns = `id, user_id, about, fleet_size, city, status, review_note, reviewed_by, created_on, reviewed_on`

func scanHostApp(row interface{ Scan(...any) error }) (*domain.HostApplication, error) {
	a := &domain.HostApplication{}
	err := row.Scan(&a.ID, &a.UserID, &a.About, &a.FleetSize, &a.City, &a.Status, &a.ReviewNote, &a.ReviewedBy, &a.CreatedOn, &a.ReviewedOn)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *hostApplicationRepository) Create(ctx context.Context, a *domain.HostApplication) error {
	query := `INSERT INTO host_applications (user_id, about, fleet_size, city, status, review_note, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, a.UserID, a.About, a.FleetSize, a.City, a.Status, a.ReviewNote, time.Now()).Scan(&a.ID)
}

func (r *hostApplicationRepository) GetByID(ctx context.Context, id int32) (*domain.HostApplication, error) {
	query := `SELECT ` + hostAppColumns + ` FROM host_applications WHERE id = $1`
	a, err := scanHostApp(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (r *hostApplicationRepository) Update(ctx context.Context, a *domain.HostApplication) error {
	query := `UPDATE host_applications SET status=$1, review_note=$2, reviewed_by=$3, reviewed_on=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, a.Status, a.ReviewNote, a.ReviewedBy, a.ReviewedOn, a.ID)
	return err
}

func (r *hostApplicationRepository) GetPendingByUser(ctx context.Context, userID int32) (*domain.HostApplication, error) {
	query := `SELECT ` + hostAppColumns + ` FROM host_applications WHERE user_id = $1 AND status = 'PENDING'`
	a, err := scanHostApp(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (r *hostApplicationRepository) ListByStatus(ctx context.Context, status string) ([]domain.HostApplication, error) {
	query := `SELECT ` + hostAppColumns + ` FROM host_applications`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_on ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []domain.HostApplication
	for rows.Next() {
		a, err := scanHostApp(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}
