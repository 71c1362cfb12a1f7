package repository

import (
	"context"
	"time"

	"drivoro-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, userID int32, passwordHash string) error
}

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	Delete(ctx context.Context, id int32) error
	ListByHost(ctx context.Context, hostID int32, page, pageSize int32) ([]domain.Car, int32, error)
	// Search returns ACTIVE cars in a city with no confirmed or active booking
	// overlapping the [from, to] window. Dates are YYYY-MM-DD; empty dates skip
	// the availability filter.
	Search(ctx context.Context, city, from, to string, page, pageSize int32) ([]domain.Car, int32, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.RentalBooking) error
	GetByID(ctx context.Context, id int32) (*domain.RentalBooking, error)
	Update(ctx context.Context, booking *domain.RentalBooking) error
	ListByGuest(ctx context.Context, guestID int32, status string, page, pageSize int32) ([]domain.RentalBooking, int32, error)
	ListByHost(ctx context.Context, hostID int32, status string, page, pageSize int32) ([]domain.RentalBooking, int32, error)
	HasOverlap(ctx context.Context, carID int32, from, to string) (bool, error)
}

type ChargeRepository interface {
	Create(ctx context.Context, charge *domain.TripCharge) error
	GetByID(ctx context.Context, id int32) (*domain.TripCharge, error)
	GetByBookingID(ctx context.Context, bookingID int32) (*domain.TripCharge, error)
	// ApplyAdjustment persists every row of one adjustment submission in a
	// single transaction: the guarded charge update, the append-only audit
	// entry, the optional booking settlement, the admin notification and the
	// guest message. A stale charge version rolls everything back and returns
	// domain.ErrAlreadyFinalized.
	ApplyAdjustment(ctx context.Context, commit *domain.AdjustmentCommit) error
	ListAdjustments(ctx context.Context, chargeID int32) ([]domain.ChargeAdjustment, error)
	ListUnsettled(ctx context.Context, olderThan time.Time) ([]domain.TripCharge, error)
}

type ClaimRepository interface {
	Create(ctx context.Context, claim *domain.Claim) error
	GetByID(ctx context.Context, id int32) (*domain.Claim, error)
	Update(ctx context.Context, claim *domain.Claim) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.Claim, error)
	ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.Claim, int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.AdminNotification) error
	List(ctx context.Context, unreadOnly bool, page, pageSize int32) ([]domain.AdminNotification, int32, error)
	MarkAsRead(ctx context.Context, id int32) error
	PurgeRead(ctx context.Context, olderThan time.Time) (int64, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.RentalMessage) error
	ListByBooking(ctx context.Context, bookingID int32) ([]domain.RentalMessage, error)
	ListByRecipient(ctx context.Context, recipientID int32, page, pageSize int32) ([]domain.RentalMessage, int32, error)
	MarkAsRead(ctx context.Context, id, recipientID int32) error
}

type HostApplicationRepository interface {
	Create(ctx context.Context, app *domain.HostApplication) error
	GetByID(ctx context.Context, id int32) (*domain.HostApplication, error)
	Update(ctx context.Context, app *domain.HostApplication) error
	GetPendingByUser(ctx context.Context, userID int32) (*domain.HostApplication, error)
	ListByStatus(ctx context.Context, status string) ([]domain.HostApplication, error)
}
