package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/payment"
)

func newBookingFixture() (*MockBookingRepo, *MockCarRepo, *MockChargeRepo, *MockUserRepo, *MockNotificationRepo, *MockGateway, *MockEmailService, BookingService) {
	bookingRepo := new(MockBookingRepo)
	carRepo := new(MockCarRepo)
	chargeRepo := new(MockChargeRepo)
	userRepo := new(MockUserRepo)
	noteRepo := new(MockNotificationRepo)
	gateway := new(MockGateway)
	emailSvc := new(MockEmailService)
	svc := NewBookingService(bookingRepo, carRepo, chargeRepo, userRepo, noteRepo, gateway, emailSvc)
	return bookingRepo, carRepo, chargeRepo, userRepo, noteRepo, gateway, emailSvc, svc
}

func listedCar() *domain.Car {
	return &domain.Car{
		ID:                  7,
		HostID:              2,
		Make:                "Toyota",
		Model:               "Corolla",
		Year:                2021,
		City:                "Austin",
		DailyPriceCents:     5000,
		IncludedMilesPerDay: 100,
		ExtraMileFeeCents:   50,
		Status:              domain.CarStatusActive,
	}
}

func TestCreateBooking_SnapshotsCarTerms(t *testing.T) {
	bookingRepo, carRepo, _, _, _, _, _, svc := newBookingFixture()
	ctx := context.Background()

	carRepo.On("GetByID", ctx, int32(7)).Return(listedCar(), nil)
	bookingRepo.On("HasOverlap", ctx, int32(7), "2026-09-01", "2026-09-03").Return(false, nil)
	bookingRepo.On("Create", ctx, mock.Anything).Return(nil)

	booking, err := svc.CreateBooking(ctx, 3, 7, "2026-09-01", "2026-09-03")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	// 3 inclusive days at $50/day.
	assert.Equal(t, int64(15000), booking.TotalCents)
	// Pricing terms are frozen on the booking.
	assert.Equal(t, int64(5000), booking.DailyPriceCents)
	assert.Equal(t, int32(100), booking.IncludedMilesPerDay)
	assert.Equal(t, int64(50), booking.ExtraMileFeeCents)
	assert.Equal(t, int32(2), booking.HostID)
}

func TestCreateBooking_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("OverlappingDates", func(t *testing.T) {
		bookingRepo, carRepo, _, _, _, _, _, svc := newBookingFixture()
		carRepo.On("GetByID", ctx, int32(7)).Return(listedCar(), nil)
		bookingRepo.On("HasOverlap", ctx, int32(7), "2026-09-01", "2026-09-03").Return(true, nil)

		_, err := svc.CreateBooking(ctx, 3, 7, "2026-09-01", "2026-09-03")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("UnlistedCar", func(t *testing.T) {
		_, carRepo, _, _, _, _, _, svc := newBookingFixture()
		car := listedCar()
		car.Status = domain.CarStatusUnlisted
		carRepo.On("GetByID", ctx, int32(7)).Return(car, nil)

		_, err := svc.CreateBooking(ctx, 3, 7, "2026-09-01", "2026-09-03")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("OwnCar", func(t *testing.T) {
		_, carRepo, _, _, _, _, _, svc := newBookingFixture()
		carRepo.On("GetByID", ctx, int32(7)).Return(listedCar(), nil)

		_, err := svc.CreateBooking(ctx, 2, 7, "2026-09-01", "2026-09-03")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		_, carRepo, _, _, _, _, _, svc := newBookingFixture()
		carRepo.On("GetByID", ctx, int32(7)).Return(listedCar(), nil)

		_, err := svc.CreateBooking(ctx, 3, 7, "2026-09-03", "2026-09-01")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestConfirmBooking_ChargesUpfront(t *testing.T) {
	bookingRepo, carRepo, _, userRepo, _, gateway, emailSvc, svc := newBookingFixture()
	ctx := context.Background()

	booking := &domain.RentalBooking{
		ID:            9,
		CarID:         7,
		GuestID:       3,
		HostID:        2,
		TotalCents:    15000,
		Status:        domain.BookingStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
	}
	bookingRepo.On("GetByID", ctx, int32(9)).Return(booking, nil)
	userRepo.On("GetByID", ctx, int32(3)).Return(chargeGuest(), nil)
	gateway.On("ChargeBooking", ctx, "cus_123", "pm_123", int64(15000), int32(9)).
		Return(&payment.Result{Status: payment.StatusSucceeded, ChargeID: "pi_1"}, nil)
	bookingRepo.On("Update", ctx, mock.Anything).Return(nil)
	carRepo.On("GetByID", ctx, int32(7)).Return(listedCar(), nil)
	emailSvc.On("SendBookingConfirmation", ctx, "dana@example.com", "Dana", "Toyota Corolla", int64(15000)).Return(nil)

	confirmed, result, err := svc.ConfirmBooking(ctx, 2, 9)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusConfirmed, confirmed.Status)
	assert.Equal(t, domain.PaymentStatusPaid, confirmed.PaymentStatus)
	assert.Equal(t, "pi_1", confirmed.StripePaymentIntentID)
	assert.True(t, result.Succeeded())
}

func TestConfirmBooking_WrongHost(t *testing.T) {
	bookingRepo, _, _, _, _, _, _, svc := newBookingFixture()
	ctx := context.Background()

	booking := &domain.RentalBooking{ID: 9, HostID: 2, Status: domain.BookingStatusPending}
	bookingRepo.On("GetByID", ctx, int32(9)).Return(booking, nil)

	_, _, err := svc.ConfirmBooking(ctx, 99, 9)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCompleteTrip_ComputesCharges(t *testing.T) {
	bookingRepo, _, chargeRepo, _, noteRepo, _, _, svc := newBookingFixture()
	ctx := context.Background()

	// 3 day rental, 100 included miles per day, returned on time.
	booking := &domain.RentalBooking{
		ID:                  9,
		CarID:               7,
		GuestID:             3,
		HostID:              2,
		StartDate:           time.Now().AddDate(0, 0, -2).Format("2006-01-02"),
		EndDate:             time.Now().Format("2006-01-02"),
		DailyPriceCents:     5000,
		IncludedMilesPerDay: 100,
		ExtraMileFeeCents:   50,
		Status:              domain.BookingStatusActive,
		OdometerStart:       10000,
		FuelLevelStart:      100,
	}
	bookingRepo.On("GetByID", ctx, int32(9)).Return(booking, nil)

	var created *domain.TripCharge
	chargeRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.TripCharge)
	}).Return(nil)
	bookingRepo.On("Update", ctx, mock.Anything).Return(nil)
	noteRepo.On("Create", ctx, mock.Anything).Return(nil)

	// 400 miles driven against 300 included; tank back at 75%.
	updated, charge, err := svc.CompleteTrip(ctx, 2, 9, 10400, 75)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCompleted, updated.Status)
	assert.NotNil(t, charge)
	// 100 extra miles at $0.50.
	assert.Equal(t, int64(5000), created.MileageCents)
	// 25% deficit rounds up to 3 tenths at $15 each.
	assert.Equal(t, int64(4500), created.FuelCents)
	assert.Equal(t, int64(0), created.LateCents)
	assert.Equal(t, int64(9500), created.TotalCents)
	assert.Equal(t, domain.ChargeStatusPending, created.Status)
	assert.Equal(t, created.TotalCents, created.AdjustedCents)

	assert.Equal(t, domain.PaymentStatusPartial, updated.PaymentStatus)
	assert.Equal(t, int64(9500), updated.PendingChargesCents)
}

func TestCompleteTrip_NoExtrasSettlesImmediately(t *testing.T) {
	bookingRepo, _, chargeRepo, _, noteRepo, _, _, svc := newBookingFixture()
	ctx := context.Background()

	booking := &domain.RentalBooking{
		ID:                  9,
		GuestID:             3,
		HostID:              2,
		StartDate:           time.Now().AddDate(0, 0, -2).Format("2006-01-02"),
		EndDate:             time.Now().Format("2006-01-02"),
		DailyPriceCents:     5000,
		IncludedMilesPerDay: 100,
		ExtraMileFeeCents:   50,
		Status:              domain.BookingStatusActive,
		OdometerStart:       10000,
		FuelLevelStart:      80,
	}
	bookingRepo.On("GetByID", ctx, int32(9)).Return(booking, nil)
	bookingRepo.On("Update", ctx, mock.Anything).Return(nil)

	updated, charge, err := svc.CompleteTrip(ctx, 2, 9, 10100, 80)

	assert.NoError(t, err)
	assert.Nil(t, charge)
	assert.Equal(t, domain.PaymentStatusSettled, updated.PaymentStatus)
	chargeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	noteRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCompleteTrip_OdometerBelowStart(t *testing.T) {
	bookingRepo, _, _, _, _, _, _, svc := newBookingFixture()
	ctx := context.Background()

	booking := &domain.RentalBooking{
		ID:            9,
		HostID:        2,
		Status:        domain.BookingStatusActive,
		OdometerStart: 10000,
	}
	bookingRepo.On("GetByID", ctx, int32(9)).Return(booking, nil)

	_, _, err := svc.CompleteTrip(ctx, 2, 9, 9500, 80)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
