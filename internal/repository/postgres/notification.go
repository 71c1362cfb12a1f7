package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/logger"
	"drivoro-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.AdminNotification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return err
	}

	query := `INSERT INTO admin_notifications (title, message, priority, is_read, attributes, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	logger.DatabaseCall("INSERT", "admin_notifications", "title", n.Title, "priority", n.Priority)

	err = r.db.QueryRowContext(ctx, query, n.Title, n.Message, n.Priority, n.IsRead, attrs, time.Now()).Scan(&n.ID)
	logger.DatabaseResult("INSERT", 1, err, "notificationID", n.ID)
	return err
}

func (r *notificationRepository) List(ctx context.Context, unreadOnly bool, page, pageSize int32) ([]domain.AdminNotification, int32, error) {
	offset := (page - 1) * pageSize
	where := ""
	if unreadOnly {
		where = " WHERE is_read = FALSE"
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM admin_notifications`+where).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, title, message, priority, is_read, attributes, created_on
	          FROM admin_notifications` + where + ` ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.AdminNotification
	for rows.Next() {
		var n domain.AdminNotification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &n.Priority, &n.IsRead, &attrs, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, err
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `UPDATE admin_notifications SET is_read = TRUE WHERE id = $1`, id)
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

func (r *notificationRepository) PurgeRead(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM admin_notifications WHERE is_read = TRUE AND created_on < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
