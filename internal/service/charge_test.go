package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"drivoro-backend/internal/domain"
	"drivoro-backend/internal/payment"
)

func newChargeFixture() (*MockChargeRepo, *MockBookingRepo, *MockUserRepo, *MockGateway, *MockEmailService, ChargeService) {
	chargeRepo := new(MockChargeRepo)
	bookingRepo := new(MockBookingRepo)
	userRepo := new(MockUserRepo)
	gateway := new(MockGateway)
	emailSvc := new(MockEmailService)
	svc := NewChargeService(chargeRepo, bookingRepo, userRepo, gateway, emailSvc)
	return chargeRepo, bookingRepo, userRepo, gateway, emailSvc, svc
}

func pendingCharge() *domain.TripCharge {
	return &domain.TripCharge{
		ID:            10,
		BookingID:     5,
		MileageCents:  20000,
		FuelCents:     10000,
		TotalCents:    30000,
		AdjustedCents: 30000,
		Status:        domain.ChargeStatusPending,
		Version:       1,
	}
}

func chargeBooking() *domain.RentalBooking {
	return &domain.RentalBooking{
		ID:                  5,
		GuestID:             3,
		HostID:              2,
		Status:              domain.BookingStatusCompleted,
		PaymentStatus:       domain.PaymentStatusPartial,
		PendingChargesCents: 30000,
	}
}

func chargeGuest() *domain.User {
	return &domain.User{
		ID:                     3,
		Name:                   "Dana",
		Email:                  "dana@example.com",
		Role:                   domain.RoleGuest,
		StripeCustomerID:       "cus_123",
		DefaultPaymentMethodID: "pm_123",
	}
}

func TestAdjustCharge_ExcludeLineAndWaive(t *testing.T) {
	chargeRepo, bookingRepo, userRepo, gateway, emailSvc, svc := newChargeFixture()
	ctx := context.Background()

	chargeRepo.On("GetByID", ctx, int32(10)).Return(pendingCharge(), nil)
	bookingRepo.On("GetByID", ctx, int32(5)).Return(chargeBooking(), nil)
	userRepo.On("GetByID", ctx, int32(3)).Return(chargeGuest(), nil)

	// $200 mileage kept, $100 fuel excluded, 10% waiver: 20000 * 0.9 = 18000.
	gateway.On("ChargeAdditionalFees", ctx, "cus_123", "pm_123", int64(18000), mock.Anything, mock.Anything).
		Return(&payment.Result{Status: payment.StatusSucceeded, ChargeID: "ch_1"}, nil)

	var committed *domain.AdjustmentCommit
	chargeRepo.On("ApplyAdjustment", ctx, mock.Anything).Run(func(args mock.Arguments) {
		committed = args.Get(1).(*domain.AdjustmentCommit)
	}).Return(nil)
	emailSvc.On("SendChargeAdjustedNotice", ctx, "dana@example.com", "Dana", int32(5), int64(30000), int64(18000), mock.Anything).Return(nil)

	outcome, err := svc.AdjustCharge(ctx, 1, 10, AdjustChargeInput{
		Lines: []domain.AdjustmentLine{
			{Type: domain.ChargeCategoryMileage, OriginalCents: 20000, AdjustedCents: 20000, Included: true},
			{Type: domain.ChargeCategoryFuel, OriginalCents: 10000, AdjustedCents: 10000, Included: false},
		},
		WaivePercentage:    10,
		WaiveReason:        "goodwill",
		ProcessImmediately: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(18000), outcome.Charge.AdjustedCents)
	assert.Equal(t, domain.ChargeStatusAdjustedCharged, outcome.Charge.Status)
	assert.Equal(t, "ch_1", outcome.Charge.StripeChargeID)
	assert.Equal(t, domain.AdjustmentStatusPaymentSucceeded, outcome.Adjustment.Status)

	// The booking settles inside the same commit.
	assert.NotNil(t, committed.Booking)
	assert.Equal(t, domain.PaymentStatusSettled, committed.Booking.PaymentStatus)
	assert.Equal(t, int64(0), committed.Booking.PendingChargesCents)

	// Audit entry records before and after amounts.
	assert.Equal(t, int64(30000), outcome.Adjustment.BeforeCents)
	assert.Equal(t, int64(18000), outcome.Adjustment.AfterCents)

	chargeRepo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestAdjustCharge_FullWaiverSkipsPayment(t *testing.T) {
	chargeRepo, bookingRepo, userRepo, gateway, emailSvc, svc := newChargeFixture()
	ctx := context.Background()

	chargeRepo.On("GetByID", ctx, int32(10)).Return(pendingCharge(), nil)
	bookingRepo.On("GetByID", ctx, int32(5)).Return(chargeBooking(), nil)
	userRepo.On("GetByID", ctx, int32(3)).Return(chargeGuest(), nil)
	chargeRepo.On("ApplyAdjustment", ctx, mock.Anything).Return(nil)
	emailSvc.On("SendChargeAdjustedNotice", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	outcome, err := svc.AdjustCharge(ctx, 1, 10, AdjustChargeInput{
		Lines: []domain.AdjustmentLine{
			{Type: domain.ChargeCategoryMileage, OriginalCents: 20000, AdjustedCents: 20000, Included: true},
			{Type: domain.ChargeCategoryFuel, OriginalCents: 10000, AdjustedCents: 10000, Included: true},
		},
		WaivePercentage:    100,
		WaiveReason:        "first trip courtesy",
		ProcessImmediately: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ChargeStatusFullyWaived, outcome.Charge.Status)
	assert.Equal(t, int64(0), outcome.Charge.AdjustedCents)
	assert.Equal(t, domain.AdjustmentStatusWaivedInFull, outcome.Adjustment.Status)
	assert.Nil(t, outcome.Payment)

	// No gateway call for a zero total, even with processImmediately set.
	gateway.AssertNotCalled(t, "ChargeAdditionalFees", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustCharge_PaymentFailureIsSoft(t *testing.T) {
	chargeRepo, bookingRepo, userRepo, gateway, emailSvc, svc := newChargeFixture()
	ctx := context.Background()

	chargeRepo.On("GetByID", ctx, int32(10)).Return(pendingCharge(), nil)
	bookingRepo.On("GetByID", ctx, int32(5)).Return(chargeBooking(), nil)
	userRepo.On("GetByID", ctx, int32(3)).Return(chargeGuest(), nil)

	gateway.On("ChargeAdditionalFees", ctx, "cus_123", "pm_123", int64(30000), mock.Anything, mock.Anything).
		Return(&payment.Result{Status: payment.StatusFailed, ErrorMessage: "card_declined"}, nil)

	var committed *domain.AdjustmentCommit
	chargeRepo.On("ApplyAdjustment", ctx, mock.Anything).Run(func(args mock.Arguments) {
		committed = args.Get(1).(*domain.AdjustmentCommit)
	}).Return(nil)
	emailSvc.On("SendPaymentFailureAlert", ctx, mock.Anything, mock.Anything).Return(nil)

	outcome, err := svc.AdjustCharge(ctx, 1, 10, AdjustChargeInput{
		Lines: []domain.AdjustmentLine{
			{Type: domain.ChargeCategoryMileage, OriginalCents: 20000, AdjustedCents: 20000, Included: true},
			{Type: domain.ChargeCategoryFuel, OriginalCents: 10000, AdjustedCents: 10000, Included: true},
		},
		ProcessImmediately: true,
	})

	// A decline is an outcome, not an error.
	assert.NoError(t, err)
	assert.Equal(t, domain.ChargeStatusAdjustmentFailed, outcome.Charge.Status)
	assert.Equal(t, domain.AdjustmentStatusPaymentFailed, outcome.Adjustment.Status)
	assert.Equal(t, "card_declined", outcome.Adjustment.PaymentError)
	assert.False(t, outcome.Payment.Succeeded())

	// Exactly one HIGH priority notification goes into the commit.
	assert.NotNil(t, committed.Notification)
	assert.Equal(t, domain.NotificationPriorityHigh, committed.Notification.Priority)

	// Booking stays partially paid with the amount still pending.
	assert.Equal(t, domain.PaymentStatusPartial, committed.Booking.PaymentStatus)
	assert.Equal(t, int64(30000), committed.Booking.PendingChargesCents)
}

func TestAdjustCharge_RequiresActionTreatedAsFailure(t *testing.T) {
	chargeRepo, bookingRepo, userRepo, gateway, emailSvc, svc := newChargeFixture()
	ctx := context.Background()

	chargeRepo.On("GetByID", ctx, int32(10)).Return(pendingCharge(), nil)
	bookingRepo.On("GetByID", ctx, int32(5)).Return(chargeBooking(), nil)
	userRepo.On("GetByID", ctx, int32(3)).Return(chargeGuest(), nil)
	gateway.On("ChargeAdditionalFees", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&payment.Result{Status: payment.StatusRequiresAction, ErrorMessage: "authentication required"}, nil)
	chargeRepo.On("ApplyAdjustment", ctx, mock.Anything).Return(nil)
	emailSvc.On("SendPaymentFailureAlert", ctx, mock.Anything, mock.Anything).Return(nil)

	outcome, err := svc.AdjustCharge(ctx, 1, 10, AdjustChargeInput{
		Lines: []domain.AdjustmentLine{
			{Type: domain.ChargeCategoryMileage, OriginalCents: 30000, AdjustedCents: 30000, Included: true},
		},
		ProcessImmediately: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ChargeStatusAdjustmentFailed, outcome.Charge.Status)
	assert.Contains(t, outcome.Adjustment.PaymentError, "requires_action")
}

func TestAdjustCharge_FinalizedChargeConflicts(t *testing.T) {
	chargeRepo, _, _, gateway, _, svc := newChargeFixture()
	ctx := context.Background()

	refunded := pendingCharge()
	refunded.Status = domain.ChargeStatusRefunded
	chargeRepo.On("GetByID", ctx, int32(10)).Return(refunded, nil)

	outcome, err := svc.AdjustCharge(ctx, 1, 10, AdjustChargeInput{
		Lines: []domain.AdjustmentLine{
			{Type: domain.ChargeCategoryMileage, OriginalCents: 20000, AdjustedCents: 20000, Included: true},
		},
	})

	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)

	// Nothing written, nothing charged.
	chargeRepo.AssertNotCalled(t, "ApplyAdjustment", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "ChargeAdditionalFees", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdjustCharge_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		input AdjustChargeInput
	}{
		{
			name:  "no lines",
			input: AdjustChargeInput{WaivePercentage: 10},
		},
		{
			name: "negative amount",
			input: AdjustChargeInput{Lines: []domain.AdjustmentLine{
				{Type: domain.ChargeCategoryFuel, OriginalCents: 10000, AdjustedCents: -500, Included: true},
			}},
		},
		{
			name: "waive over 100",
			input: AdjustChargeInput{
				Lines: []domain.AdjustmentLine{
					{Type: domain.ChargeCategoryFuel, OriginalCents: 10000, AdjustedCents: 10000, Included: true},
				},
				WaivePercentage: 150,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chargeRepo, _, _, _, _, svc := newChargeFixture()
			chargeRepo.On("GetByID", mock.Anything, int32(10)).Return(pendingCharge(), nil)

			_, err := svc.AdjustCharge(context.Background(), 1, 10, tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
			chargeRepo.AssertNotCalled(t, "ApplyAdjustment", mock.Anything, mock.Anything)
		})
	}
}

func TestAdjustCharge_ConcurrentVersionConflict(t *testing.T) {
	chargeRepo, bookingRepo, userRepo, _, _, svc := newChargeFixture()
	ctx := context.Background()

	chargeRepo.On("GetByID", ctx, int32(10)).Return(pendingCharge(), nil)
	bookingRepo.On("GetByID", ctx, int32(5)).Return(chargeBooking(), nil)
	userRepo.On("GetByID", ctx, int32(3)).Return(chargeGuest(), nil)
	chargeRepo.On("ApplyAdjustment", ctx, mock.Anything).Return(domain.ErrAlreadyFinalized)

	_, err := svc.AdjustCharge(ctx, 1, 10, AdjustChargeInput{
		Lines: []domain.AdjustmentLine{
			{Type: domain.ChargeCategoryMileage, OriginalCents: 20000, AdjustedCents: 15000, Included: true},
		},
	})

	assert.ErrorIs(t, err, domain.ErrAlreadyFinalized)
}

func TestAdjustCharge_RecordOnlyLeavesChargePending(t *testing.T) {
	chargeRepo, bookingRepo, userRepo, gateway, emailSvc, svc := newChargeFixture()
	ctx := context.Background()

	chargeRepo.On("GetByID", ctx, int32(10)).Return(pendingCharge(), nil)
	bookingRepo.On("GetByID", ctx, int32(5)).Return(chargeBooking(), nil)
	userRepo.On("GetByID", ctx, int32(3)).Return(chargeGuest(), nil)
	chargeRepo.On("ApplyAdjustment", ctx, mock.Anything).Return(nil)
	emailSvc.On("SendChargeAdjustedNotice", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	outcome, err := svc.AdjustCharge(ctx, 1, 10, AdjustChargeInput{
		Lines: []domain.AdjustmentLine{
			{Type: domain.ChargeCategoryMileage, OriginalCents: 20000, AdjustedCents: 12000, Included: true},
			{Type: domain.ChargeCategoryFuel, OriginalCents: 10000, AdjustedCents: 10000, Included: true},
		},
		ProcessImmediately: false,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.ChargeStatusAdjustedPending, outcome.Charge.Status)
	assert.Equal(t, int64(22000), outcome.Charge.AdjustedCents)
	assert.Equal(t, domain.AdjustmentStatusRecorded, outcome.Adjustment.Status)
	assert.Nil(t, outcome.Payment)
	gateway.AssertNotCalled(t, "ChargeAdditionalFees", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRetryFailedCharge(t *testing.T) {
	t.Run("OnlyFailedChargesCanRetry", func(t *testing.T) {
		chargeRepo, _, _, _, _, svc := newChargeFixture()
		charge := pendingCharge()
		charge.Status = domain.ChargeStatusAdjustedPending
		chargeRepo.On("GetByID", mock.Anything, int32(10)).Return(charge, nil)

		_, err := svc.RetryFailedCharge(context.Background(), 1, 10)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("SuccessfulRetry", func(t *testing.T) {
		chargeRepo, bookingRepo, userRepo, gateway, _, svc := newChargeFixture()
		ctx := context.Background()

		charge := pendingCharge()
		charge.Status = domain.ChargeStatusAdjustmentFailed
		charge.AdjustedCents = 18000
		chargeRepo.On("GetByID", ctx, int32(10)).Return(charge, nil)
		bookingRepo.On("GetByID", ctx, int32(5)).Return(chargeBooking(), nil)
		userRepo.On("GetByID", ctx, int32(3)).Return(chargeGuest(), nil)
		gateway.On("ChargeAdditionalFees", ctx, "cus_123", "pm_123", int64(18000), mock.Anything, mock.Anything).
			Return(&payment.Result{Status: payment.StatusSucceeded, ChargeID: "ch_retry"}, nil)
		chargeRepo.On("ApplyAdjustment", ctx, mock.Anything).Return(nil)

		outcome, err := svc.RetryFailedCharge(ctx, 1, 10)
		assert.NoError(t, err)
		assert.Equal(t, domain.ChargeStatusAdjustedCharged, outcome.Charge.Status)
		assert.Equal(t, "ch_retry", outcome.Charge.StripeChargeID)
	})
}

func TestRefundCharge(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		chargeRepo, bookingRepo, _, gateway, _, svc := newChargeFixture()
		ctx := context.Background()

		charge := pendingCharge()
		charge.Status = domain.ChargeStatusAdjustedCharged
		charge.AdjustedCents = 18000
		charge.StripeChargeID = "ch_1"
		chargeRepo.On("GetByID", ctx, int32(10)).Return(charge, nil)
		bookingRepo.On("GetByID", ctx, int32(5)).Return(chargeBooking(), nil)
		gateway.On("RefundCharge", ctx, "ch_1", int64(18000), "host agreed").
			Return(&payment.Result{Status: payment.StatusSucceeded, ChargeID: "re_1"}, nil)
		chargeRepo.On("ApplyAdjustment", ctx, mock.Anything).Return(nil)

		updated, err := svc.RefundCharge(ctx, 1, 10, "host agreed")
		assert.NoError(t, err)
		assert.Equal(t, domain.ChargeStatusRefunded, updated.Status)
	})

	t.Run("UncollectedChargeCannotRefund", func(t *testing.T) {
		chargeRepo, _, _, _, _, svc := newChargeFixture()
		chargeRepo.On("GetByID", mock.Anything, int32(10)).Return(pendingCharge(), nil)

		_, err := svc.RefundCharge(context.Background(), 1, 10, "nope")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestGetAdjustmentHistory(t *testing.T) {
	chargeRepo, _, _, _, _, svc := newChargeFixture()
	ctx := context.Background()

	charge := pendingCharge()
	charge.AdjustedCents = 18000
	chargeRepo.On("GetByID", ctx, int32(10)).Return(charge, nil)
	chargeRepo.On("ListAdjustments", ctx, int32(10)).Return([]domain.ChargeAdjustment{
		{ID: 1, ChargeID: 10, BeforeCents: 30000, AfterCents: 18000},
	}, nil)

	got, history, reduction, err := svc.GetAdjustmentHistory(ctx, 10)
	assert.NoError(t, err)
	assert.Equal(t, charge.ID, got.ID)
	assert.Len(t, history, 1)
	assert.Equal(t, int64(12000), reduction)
}
