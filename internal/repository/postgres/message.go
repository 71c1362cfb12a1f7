package postgres

import (
	"context"
	"database/sql"
	"time"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/repository"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

const messageColumns = `id, booking_id, recipient_id, sender, subject, body, is_read, created_on`

func (r *messageRepository) Create(ctx context.Context, m *domain.RentalMessage) error {
	query := `INSERT INTO rental_messages (booking_id, recipient_id, sender, subject, body, is_read, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, m.BookingID, m.RecipientID, m.Sender, m.Subject, m.Body, m.IsRead, time.Now()).Scan(&m.ID)
}

func (r *messageRepository) ListByBooking(ctx context.Context, bookingID int32) ([]domain.RentalMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM rental_messages WHERE booking_id = $1 ORDER BY created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.RentalMessage
	for rows.Next() {
		var m domain.RentalMessage
		if err := rows.Scan(&m.ID, &m.BookingID, &m.RecipientID, &m.Sender, &m.Subject, &m.Body, &m.IsRead, &m.CreatedOn); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *messageRepository) ListByRecipient(ctx context.Context, recipientID int32, page, pageSize int32) ([]domain.RentalMessage, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rental_messages WHERE recipient_id = $1`, recipientID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + messageColumns + ` FROM rental_messages WHERE recipient_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, recipientID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var msgs []domain.RentalMessage
	for rows.Next() {
		var m domain.RentalMessage
		if err := rows.Scan(&m.ID, &m.BookingID, &m.RecipientID, &m.Sender, &m.Subject, &m.Body, &m.IsRead, &m.CreatedOn); err != nil {
			return nil, 0, err
		}
		msgs = append(msgs, m)
	}
	return msgs, count, rows.Err()
}

func (r *messageRepository) MarkAsRead(ctx context.Context, id, recipientID int32) error {
	result, err := r.db.ExecContext(ctx, `UPDATE rental_messages SET is_read = TRUE WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
