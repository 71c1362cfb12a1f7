package postgres

import (
	"database/sql"

	"drivoro-backend/internal/repository"

	_ "github.com/lib/pq"
)

// Store bundles every repository over a single connection pool.
type Store struct {
	db *sql.DB

	Users            repository.UserRepository
	Cars             repository.CarRepository
	Bookings         repository.BookingRepository
	Charges          repository.ChargeRepository
	Claims           repository.ClaimRepository
	Notifications    repository.NotificationRepository
	Messages         repository.MessageRepository
	HostApplications repository.HostApplicationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:               db,
		Users:            NewUserRepository(db),
		Cars:             NewCarRepository(db),
		Bookings:         NewBookingRepository(db),
		Charges:          NewChargeRepository(db),
		Claims:           NewClaimRepository(db),
		Notifications:    NewNotificationRepository(db),
		Messages:         NewMessageRepository(db),
		HostApplications: NewHostApplicationRepository(db),
	}
}
