package service

import (
	"context"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/payment"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	ChangePassword(ctx context.Context, userID int32, currentPassword, newPassword string) error
}

type CarService interface {
	AddCar(ctx context.Context, car *domain.Car) error
	GetCar(ctx context.Context, id int32) (*domain.Car, error)
	UpdateCar(ctx context.Context, hostID int32, car *domain.Car) error
	DeleteCar(ctx context.Context, hostID, carID int32) error
	ListFleet(ctx context.Context, hostID int32, page, pageSize int32) ([]domain.Car, int32, error)
	SearchCars(ctx context.Context, city, from, to string, page, pageSize int32) ([]domain.Car, int32, error)
	SetCarStatus(ctx context.Context, hostID, carID int32, status domain.CarStatus) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, guestID, carID int32, startDate, endDate string) (*domain.RentalBooking, error)
	ConfirmBooking(ctx context.Context, hostID, bookingID int32) (*domain.RentalBooking, *payment.Result, error)
	CancelBooking(ctx context.Context, userID, bookingID int32, reason string) (*domain.RentalBooking, error)
	StartTrip(ctx context.Context, hostID, bookingID, odometer, fuelLevel int32) (*domain.RentalBooking, error)
	CompleteTrip(ctx context.Context, hostID, bookingID, odometer, fuelLevel int32) (*domain.RentalBooking, *domain.TripCharge, error)
	GetBooking(ctx context.Context, userID, bookingID int32) (*domain.RentalBooking, error)
	ListGuestBookings(ctx context.Context, guestID int32, status string, page, pageSize int32) ([]domain.RentalBooking, int32, error)
	ListHostBookings(ctx context.Context, hostID int32, status string, page, pageSize int32) ([]domain.RentalBooking, int32, error)
}

// AdjustChargeInput is one admin adjustment submission against a trip charge.
type AdjustChargeInput struct {
	Lines              []domain.AdjustmentLine
	WaivePercentage    float64
	WaiveReason        string
	ProcessImmediately bool
	AdminNotes         string
}

// AdjustmentOutcome is what one submission produced: the updated charge, the
// audit entry, and the payment result when a charge attempt was made.
type AdjustmentOutcome struct {
	Charge     *domain.TripCharge
	Adjustment *domain.ChargeAdjustment
	Payment    *payment.Result
}

type ChargeService interface {
	GetCharge(ctx context.Context, chargeID int32) (*domain.TripCharge, error)
	AdjustCharge(ctx context.Context, adminID, chargeID int32, in AdjustChargeInput) (*AdjustmentOutcome, error)
	// RetryFailedCharge re-attempts collection of a charge stuck in
	// ADJUSTMENT_FAILED. Explicitly admin-triggered; never called automatically.
	RetryFailedCharge(ctx context.Context, adminID, chargeID int32) (*AdjustmentOutcome, error)
	RefundCharge(ctx context.Context, adminID, chargeID int32, reason string) (*domain.TripCharge, error)
	GetAdjustmentHistory(ctx context.Context, chargeID int32) (*domain.TripCharge, []domain.ChargeAdjustment, int64, error)
}

type ClaimService interface {
	FileClaim(ctx context.Context, claim *domain.Claim) error
	GetClaim(ctx context.Context, id int32) (*domain.Claim, error)
	ListClaims(ctx context.Context, status string, page, pageSize int32) ([]domain.Claim, int32, error)
	ListBookingClaims(ctx context.Context, bookingID int32) ([]domain.Claim, error)
	UpdateClaimStatus(ctx context.Context, adminID, claimID int32, status domain.ClaimStatus, note string) (*domain.Claim, error)
}

type AdminService interface {
	SubmitHostApplication(ctx context.Context, userID int32, about string, fleetSize int32, city string) (*domain.HostApplication, error)
	ReviewHostApplication(ctx context.Context, adminID, applicationID int32, approve bool, note string) (*domain.HostApplication, error)
	ListHostApplications(ctx context.Context, status string) ([]domain.HostApplication, error)
	BlockUser(ctx context.Context, adminID, userID int32, block bool, reason string) error
}

type NotificationService interface {
	ListNotifications(ctx context.Context, unreadOnly bool, page, pageSize int32) ([]domain.AdminNotification, int32, error)
	MarkNotificationRead(ctx context.Context, id int32) error
	ListMessages(ctx context.Context, recipientID int32, page, pageSize int32) ([]domain.RentalMessage, int32, error)
	ListBookingMessages(ctx context.Context, bookingID int32) ([]domain.RentalMessage, error)
	MarkMessageRead(ctx context.Context, id, recipientID int32) error
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, guestEmail, guestName, carName string, totalCents int64) error
	SendHostApplicationOutcome(ctx context.Context, email, name string, approved bool, note string) error
	SendChargeAdjustedNotice(ctx context.Context, guestEmail, guestName string, bookingID int32, beforeCents, afterCents int64, summary string) error
	SendPaymentFailureAlert(ctx context.Context, subject, message string) error
	SendClaimFiledNotice(ctx context.Context, email, name, reference string) error
}
