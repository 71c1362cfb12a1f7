package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/repository"
)

type claimRepository struct {
	db *sql.DB
}

func NewClaimRepository(db *sql.DB) repository.ClaimRepository {
	return &claimRepository{db: db}
}

const claimColumns = `id, booking_id, filed_by, reference, incident_date, incident_type, description, photo_urls, estimated_cents, status, resolution_note, reviewed_by, created_on, updated_on`

func scanClaim(row interface{ Scan(...any) error }) (*domain.Claim, error) {
	c := &domain.Claim{}
	var photos []byte
	err := row.Scan(&c.ID, &c.BookingID, &c.FiledBy, &c.Reference, &c.IncidentDate, &c.IncidentType, &c.Description, &photos, &c.EstimatedCents, &c.Status, &c.ResolutionNote, &c.ReviewedBy, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &c.PhotoURLs); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (r *claimRepository) Create(ctx context.Context, c *domain.Claim) error {
	photos, err := json.Marshal(c.PhotoURLs)
	if err != nil {
		return err
	}
	query := `INSERT INTO claims (booking_id, filed_by, reference, incident_date, incident_type, description, photo_urls, estimated_cents, status, resolution_note, reviewed_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, c.BookingID, c.FiledBy, c.Reference, c.IncidentDate, c.IncidentType, c.Description, photos, c.EstimatedCents, c.Status, c.ResolutionNote, c.ReviewedBy, now, now).Scan(&c.ID)
}

func (r *claimRepository) GetByID(ctx context.Context, id int32) (*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`
	c, err := scanClaim(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return c, err
}

func (r *claimRepository) Update(ctx context.Context, c *domain.Claim) error {
	query := `UPDATE claims SET status=$1, resolution_note=$2, reviewed_by=$3, estimated_cents=$4, updated_on=$5 WHERE id=$6`
	_, err := r.db.ExecContext(ctx, query, c.Status, c.ResolutionNote, c.ReviewedBy, c.EstimatedCents, time.Now(), c.ID)
	return err
}

func (r *claimRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE booking_id = $1 ORDER BY created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []domain.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		claims = append(claims, *c)
	}
	return claims, rows.Err()
}

func (r *claimRepository) ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.Claim, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + claimColumns + ` FROM claims`
	countQuery := `SELECT count(*) FROM claims`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = $1`
		countQuery += ` WHERE status = $1`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	if status != "" {
		query += ` ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	}
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var claims []domain.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, 0, err
		}
		claims = append(claims, *c)
	}
	return claims, count, rows.Err()
}
