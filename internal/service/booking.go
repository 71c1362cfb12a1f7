package service

import (
	"context"
	"fmt"
	"time"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/logger"
	"drivoro-backend/internal/payment"
	"drivoro-backend/internal/repository"
	"drivoro-backend/internal/utils"
)

// Fuel service fee per started 10% of tank deficit.
const fuelFeePerTenthCents int64 = 1500

type bookingService struct {
	bookingRepo repository.BookingRepository
	carRepo     repository.CarRepository
	chargeRepo  repository.ChargeRepository
	userRepo    repository.UserRepository
	noteRepo    repository.NotificationRepository
	gateway     payment.Gateway
	emailSvc    EmailService
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	carRepo repository.CarRepository,
	chargeRepo repository.ChargeRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	gateway payment.Gateway,
	emailSvc EmailService,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		carRepo:     carRepo,
		chargeRepo:  chargeRepo,
		userRepo:    userRepo,
		noteRepo:    noteRepo,
		gateway:     gateway,
		emailSvc:    emailSvc,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, guestID, carID int32, startDate, endDate string) (*domain.RentalBooking, error) {
	car, err := s.carRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if car.Status != domain.CarStatusActive {
		return nil, fmt.Errorf("%w: car %d is not listed for rental", domain.ErrValidation, carID)
	}
	if car.HostID == guestID {
		return nil, fmt.Errorf("%w: hosts cannot book their own cars", domain.ErrValidation)
	}

	days, err := utils.RentalDays(startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err)
	}

	taken, err := s.bookingRepo.HasOverlap(ctx, carID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: car %d is already booked for those dates", domain.ErrValidation, carID)
	}

	booking := &domain.RentalBooking{
		CarID:               carID,
		GuestID:             guestID,
		HostID:              car.HostID,
		StartDate:           startDate,
		EndDate:             endDate,
		DailyPriceCents:     car.DailyPriceCents,
		IncludedMilesPerDay: car.IncludedMilesPerDay,
		ExtraMileFeeCents:   car.ExtraMileFeeCents,
		TotalCents:          utils.BookingTotalCents(days, car.DailyPriceCents),
		Status:              domain.BookingStatusPending,
		PaymentStatus:       domain.PaymentStatusUnpaid,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	logger.Info("Booking created", "booking_id", booking.ID, "car_id", carID, "guest_id", guestID, "total_cents", booking.TotalCents)
	return booking, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, hostID, bookingID int32) (*domain.RentalBooking, *payment.Result, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.HostID != hostID {
		return nil, nil, fmt.Errorf("%w: booking belongs to another host", domain.ErrForbidden)
	}
	if booking.Status != domain.BookingStatusPending {
		return nil, nil, fmt.Errorf("%w: booking is %s, not PENDING", domain.ErrValidation, booking.Status)
	}

	guest, err := s.userRepo.GetByID(ctx, booking.GuestID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading guest %d: %w", booking.GuestID, err)
	}
	if !guest.HasSavedPaymentMethod() {
		return nil, nil, fmt.Errorf("%w: guest has no saved payment method", domain.ErrValidation)
	}

	result, err := s.gateway.ChargeBooking(ctx, guest.StripeCustomerID, guest.DefaultPaymentMethodID, booking.TotalCents, booking.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("charging booking %d: %w", bookingID, err)
	}
	if !result.Succeeded() {
		return booking, result, fmt.Errorf("%w: booking payment declined: %s", domain.ErrValidation, result.ErrorMessage)
	}

	booking.Status = domain.BookingStatusConfirmed
	booking.PaymentStatus = domain.PaymentStatusPaid
	booking.StripePaymentIntentID = result.ChargeID
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, nil, err
	}

	car, _ := s.carRepo.GetByID(ctx, booking.CarID)
	if car != nil {
		_ = s.emailSvc.SendBookingConfirmation(ctx, guest.Email, guest.Name, fmt.Sprintf("%s %s", car.Make, car.Model), booking.TotalCents)
	}

	return booking, result, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID int32, reason string) (*domain.RentalBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != userID && booking.HostID != userID {
		return nil, fmt.Errorf("%w: not a party to this booking", domain.ErrForbidden)
	}
	if booking.Status != domain.BookingStatusPending && booking.Status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: booking is %s and can no longer be cancelled", domain.ErrValidation, booking.Status)
	}

	// Refund an already collected upfront payment in full.
	if booking.PaymentStatus == domain.PaymentStatusPaid && booking.StripePaymentIntentID != "" {
		result, err := s.gateway.RefundCharge(ctx, booking.StripePaymentIntentID, booking.TotalCents, "booking cancelled")
		if err != nil || !result.Succeeded() {
			logger.Error("Booking refund failed", "booking_id", bookingID, "error", err)
		}
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancelReason = reason
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) StartTrip(ctx context.Context, hostID, bookingID, odometer, fuelLevel int32) (*domain.RentalBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.HostID != hostID {
		return nil, fmt.Errorf("%w: booking belongs to another host", domain.ErrForbidden)
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: booking is %s, not CONFIRMED", domain.ErrValidation, booking.Status)
	}
	if fuelLevel < 0 || fuelLevel > 100 {
		return nil, fmt.Errorf("%w: fuel level must be between 0 and 100", domain.ErrValidation)
	}

	booking.Status = domain.BookingStatusActive
	booking.OdometerStart = odometer
	booking.FuelLevelStart = fuelLevel
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// CompleteTrip closes out an active rental and computes the post-trip charges
// from the booking's price snapshots. A zero-total trip settles immediately
// without creating a charge record.
func (s *bookingService) CompleteTrip(ctx context.Context, hostID, bookingID, odometer, fuelLevel int32) (*domain.RentalBooking, *domain.TripCharge, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if booking.HostID != hostID {
		return nil, nil, fmt.Errorf("%w: booking belongs to another host", domain.ErrForbidden)
	}
	if booking.Status != domain.BookingStatusActive && booking.Status != domain.BookingStatusOverdue {
		return nil, nil, fmt.Errorf("%w: booking is %s, not ACTIVE", domain.ErrValidation, booking.Status)
	}
	if odometer < booking.OdometerStart {
		return nil, nil, fmt.Errorf("%w: end odometer below start reading", domain.ErrValidation)
	}
	if fuelLevel < 0 || fuelLevel > 100 {
		return nil, nil, fmt.Errorf("%w: fuel level must be between 0 and 100", domain.ErrValidation)
	}

	days, err := utils.RentalDays(booking.StartDate, booking.EndDate)
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()

	milesDriven := odometer - booking.OdometerStart
	mileageCents := utils.ExtraMileageCents(milesDriven, booking.IncludedMilesPerDay, days, booking.ExtraMileFeeCents)
	fuelCents := utils.FuelServiceCents(booking.FuelLevelStart, fuelLevel, fuelFeePerTenthCents)
	lateCents := utils.LateFeeCents(utils.LateDays(booking.EndDate, now), booking.DailyPriceCents)
	total := mileageCents + fuelCents + lateCents

	booking.Status = domain.BookingStatusCompleted
	booking.OdometerEnd = odometer
	booking.FuelLevelEnd = fuelLevel

	var charge *domain.TripCharge
	if total > 0 {
		charge = &domain.TripCharge{
			BookingID:     booking.ID,
			MileageCents:  mileageCents,
			FuelCents:     fuelCents,
			LateCents:     lateCents,
			TotalCents:    total,
			AdjustedCents: total,
			Status:        domain.ChargeStatusPending,
			Version:       1,
		}
		if err := s.chargeRepo.Create(ctx, charge); err != nil {
			return nil, nil, err
		}
		booking.PaymentStatus = domain.PaymentStatusPartial
		booking.PendingChargesCents = total
	} else {
		booking.PaymentStatus = domain.PaymentStatusSettled
	}

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, nil, err
	}

	if charge != nil {
		note := &domain.AdminNotification{
			Title:    "Post-trip charges pending review",
			Message:  fmt.Sprintf("Booking #%d completed with %s in extra charges awaiting review.", booking.ID, formatCents(total)),
			Priority: domain.NotificationPriorityNormal,
			Attributes: map[string]string{
				"booking_id": fmt.Sprintf("%d", booking.ID),
				"charge_id":  fmt.Sprintf("%d", charge.ID),
			},
		}
		_ = s.noteRepo.Create(ctx, note)
	}

	logger.Info("Trip completed", "booking_id", booking.ID, "extra_charges_cents", total)
	return booking, charge, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID int32) (*domain.RentalBooking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != userID && booking.HostID != userID {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || user.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: not a party to this booking", domain.ErrForbidden)
		}
	}
	return booking, nil
}

func (s *bookingService) ListGuestBookings(ctx context.Context, guestID int32, status string, page, pageSize int32) ([]domain.RentalBooking, int32, error) {
	return s.bookingRepo.ListByGuest(ctx, guestID, status, page, pageSize)
}

func (s *bookingService) ListHostBookings(ctx context.Context, hostID int32, status string, page, pageSize int32) ([]domain.RentalBooking, int32, error) {
	return s.bookingRepo.ListByHost(ctx, hostID, status, page, pageSize)
}
